// Package score is a MIDI-backed score renderer. Every track is a voice: note on/off
// pairs become pitched entries and the gaps between them become rests. Times are
// absolute ticks divided by the ticks-per-quarter resolution.
package score

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/xyfu66/score-following-app/constants"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/render"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNotLoaded = errors.New("no score loaded")

type Score struct {
	tempo  float64
	times  []float64
	groups [][]model.ScoreEvent
	cursor *Cursor
	view   *View
}

// New creates an empty renderer that draws to w. w may be nil.
func New(w io.Writer) *Score {
	s := &Score{view: NewView(w)}
	s.cursor = &Cursor{score: s}
	return s
}

// FromSMF builds a score from an already parsed midi file without any view
func FromSMF(mf *smf.SMF) (*Score, error) {
	s := New(nil)
	if err := s.loadSMF(mf); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Score) Load(content []byte) error {
	mf, err := midi.ReadMidi(content)
	if err != nil {
		return err
	}
	return s.loadSMF(mf)
}

func (s *Score) loadSMF(mf *smf.SMF) error {
	tpq, err := midi.TicksPerQuarter(mf)
	if err != nil {
		return err
	}
	events, tempo := collectEvents(mf, tpq)
	if tempo <= 0 {
		tempo = constants.DefaultBPM
	}

	s.tempo = tempo
	s.times = s.times[:0]
	s.groups = s.groups[:0]
	for _, evt := range events {
		n := len(s.times)
		if n == 0 || s.times[n-1] != evt.Time {
			s.times = append(s.times, evt.Time)
			s.groups = append(s.groups, nil)
			n++
		}
		s.groups[n-1] = append(s.groups[n-1], evt)
	}
	s.cursor.pos = 0
	s.cursor.visible = false
	return nil
}

// Render draws the current cursor line
func (s *Score) Render() error {
	if len(s.times) == 0 {
		return ErrNotLoaded
	}
	s.view.Draw(s.cursor)
	return nil
}

func (s *Score) Iterator() render.Iterator {
	return &Iterator{score: s}
}

func (s *Score) Cursor() render.Cursor {
	return s.cursor
}

func (s *Score) Tempo() float64 {
	return s.tempo
}

// OnsetBeats are the distinct times at which at least one pitched note starts
func (s *Score) OnsetBeats() []float64 {
	res := make([]float64, 0, len(s.times))
	for i, group := range s.groups {
		for _, evt := range group {
			if !evt.IsRest() {
				res = append(res, s.times[i])
				break
			}
		}
	}
	return res
}

// ExpectedChords lists the pitches that start at every onset beat
func (s *Score) ExpectedChords() []model.ExpectedChord {
	var res []model.ExpectedChord
	for i, group := range s.groups {
		var notes model.Notes
		for _, evt := range group {
			if !evt.IsRest() {
				notes = append(notes, uint8(evt.Key))
			}
		}
		if len(notes) > 0 {
			res = append(res, model.ExpectedChord{Beat: s.times[i], Notes: notes})
		}
	}
	return res
}

type voiceNote struct {
	key        uint8
	start, end int64
}

func collectEvents(mf *smf.SMF, tpq float64) ([]model.ScoreEvent, float64) {
	var events []model.ScoreEvent
	var tempo float64

	for _, track := range mf.Tracks {
		var absTicks int64
		var notes []voiceNote
		open := make(map[uint8]int64)

		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var channel, key, velocity uint8
			var bpm float64
			msg := gomidi.Message(evt.Message)
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				// a retriggered key closes the previous one
				if start, ok := open[key]; ok {
					notes = append(notes, voiceNote{key: key, start: start, end: absTicks})
				}
				open[key] = absTicks
			case msg.GetNoteEnd(&channel, &key):
				if start, ok := open[key]; ok {
					notes = append(notes, voiceNote{key: key, start: start, end: absTicks})
					delete(open, key)
				}
			case evt.Message.GetMetaTempo(&bpm):
				if tempo == 0 {
					tempo = bpm
				}
			}
		}
		// unterminated notes last until the end of the track
		for key, start := range open {
			notes = append(notes, voiceNote{key: key, start: start, end: absTicks})
		}

		events = append(events, voiceEvents(notes, tpq)...)
	}

	// stable, so simultaneous entries keep track order
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events, tempo
}

func voiceEvents(notes []voiceNote, tpq float64) []model.ScoreEvent {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].start != notes[j].start {
			return notes[i].start < notes[j].start
		}
		return notes[i].key < notes[j].key
	})

	var res []model.ScoreEvent
	var covered int64
	for _, n := range notes {
		if n.start > covered {
			res = append(res, model.ScoreEvent{
				Key:           model.Rest,
				Time:          float64(covered) / tpq,
				DurationBeats: float64(n.start-covered) / tpq,
			})
		}
		res = append(res, model.ScoreEvent{
			Key:           int(n.key),
			Time:          float64(n.start) / tpq,
			DurationBeats: float64(n.end-n.start) / tpq,
		})
		if n.end > covered {
			covered = n.end
		}
	}
	return res
}

// PerformanceOnsets returns the wall clock offset of every distinct note start in a
// performance file, relative to the file start.
func PerformanceOnsets(mf *smf.SMF) []time.Duration {
	seen := make(map[int64]bool)
	var ticks []int64
	for _, track := range mf.Tracks {
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var channel, key, velocity uint8
			if gomidi.Message(evt.Message).GetNoteStart(&channel, &key, &velocity) && !seen[absTicks] {
				seen[absTicks] = true
				ticks = append(ticks, absTicks)
			}
		}
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	res := make([]time.Duration, 0, len(ticks))
	for _, t := range ticks {
		res = append(res, time.Duration(mf.TimeAt(t))*time.Microsecond)
	}
	return res
}
