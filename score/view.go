package score

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xyfu66/score-following-app/model"
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("63"))
	beatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View draws the cursor position as a single, continuously rewritten terminal line
type View struct {
	w io.Writer
}

func NewView(w io.Writer) *View {
	return &View{w: w}
}

func (v *View) Draw(c *Cursor) {
	if v.w == nil {
		return
	}
	if !c.visible {
		fmt.Fprint(v.w, "\r\033[K")
		return
	}
	line := beatStyle.Render(fmt.Sprintf("beat %7.2f", c.CurrentTime())) + " " + cursorStyle.Render(" "+describe(c.events())+" ")
	fmt.Fprint(v.w, "\r\033[K"+line)
}

func describe(events []model.ScoreEvent) string {
	if len(events) == 0 {
		return "-"
	}
	names := make([]string, 0, len(events))
	for _, evt := range events {
		names = append(names, NoteName(evt.Key))
	}
	return strings.Join(names, " ")
}

// NoteName turns a midi key into scientific pitch notation, e.g. 60 -> C4
func NoteName(key int) string {
	if key == model.Rest {
		return "rest"
	}
	return fmt.Sprintf("%s%d", noteNames[key%12], key/12-1)
}
