// Package render describes the narrow surface the engine needs from a score renderer.
// Nothing here holds renderer internals; implementations adapt a concrete renderer.
package render

import "github.com/xyfu66/score-following-app/model"

// Iterator walks a loaded score one timestamp at a time.
type Iterator interface {
	EndReached() bool
	// CurrentEvents returns every voice entry at the current timestamp
	CurrentEvents() []model.ScoreEvent
	MoveToNext()
}

// Cursor is the single visual cursor of a rendered score.
type Cursor interface {
	Reset()
	Show()
	Hide()
	// Next and Previous move exactly one score timestamp
	Next()
	Previous()
	// CurrentTime is in quarter-note beats
	CurrentTime() float64
}

type Renderer interface {
	Load(content []byte) error
	Render() error
	Iterator() Iterator
	Cursor() Cursor
}
