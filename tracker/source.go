// Package tracker produces beat positions for a score. It does not align audio: the
// sources here either replay the score's own onsets or follow live MIDI chords.
package tracker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/score"
	"gitlab.com/gomidi/midi/v2/smf"
	"k8s.io/utils/clock"
)

var ErrUnsupportedInput = errors.New("input type not supported")

// Emit sends one beat position. A non-nil error stops the source.
type Emit func(beat float64) error

type Source interface {
	Run(ctx context.Context, emit Emit) error
}

// Factory picks a source for a stream's init message
type Factory struct {
	Clock clock.Clock
	// overrides the score tempo when > 0
	BPM         float64
	ChordWindow time.Duration
	Listen      func(device string) (Listener, error)
}

// ForInput builds the source for init. performance may be nil.
func (f *Factory) ForInput(init model.InitMessage, sc *score.Score, performance *smf.SMF) (Source, error) {
	onsets := init.OnsetBeats
	if len(onsets) == 0 {
		onsets = sc.OnsetBeats()
	}

	switch init.InputType {
	case model.InputSimulation:
		if performance != nil {
			return NewPerformanceSimulation(onsets, score.PerformanceOnsets(performance), f.Clock), nil
		}
		bpm := f.BPM
		if bpm <= 0 {
			bpm = sc.Tempo()
		}
		return NewSimulation(onsets, bpm, f.Clock), nil
	case model.InputMidi:
		if f.Listen == nil {
			return nil, errors.Wrap(ErrUnsupportedInput, "no midi driver")
		}
		listener, err := f.Listen(init.Device)
		if err != nil {
			return nil, err
		}
		return NewMidiFollower(listener, sc.ExpectedChords(), f.ChordWindow), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedInput, "%q", init.InputType)
}
