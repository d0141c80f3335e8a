package tracker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/chord"
	"github.com/xyfu66/score-following-app/constants"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Listener calls onNote with the key of every note start until stop is called
type Listener func(onNote func(key uint8)) (stop func(), err error)

// PortListener listens on a midi input port
func PortListener(in drivers.In) Listener {
	return func(onNote func(key uint8)) (func(), error) {
		return gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			var ch, key, vel uint8
			if msg.GetNoteStart(&ch, &key, &vel) {
				onNote(key)
			}
		})
	}
}

// OpenPort finds an input port by number or by name. The driver must already be
// registered.
func OpenPort(device string) (Listener, error) {
	var in drivers.In
	var err error
	if n, convErr := strconv.Atoi(device); convErr == nil {
		in, err = gomidi.InPort(n)
	} else {
		in, err = gomidi.FindInPort(device)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't find midi input %q", device)
	}
	return PortListener(in), nil
}

// Matcher walks the expected chords of a score. A played chord is compared against
// the next few expected chords only, so a wrong note can't jump the position far ahead.
type Matcher struct {
	keys  []string
	beats []float64
	next  int
}

func NewMatcher(expected []model.ExpectedChord) *Matcher {
	m := &Matcher{}
	for _, c := range expected {
		m.keys = append(m.keys, chord.PitchClassKey(c.Notes))
		m.beats = append(m.beats, c.Beat)
	}
	return m
}

// Match returns the beat of the expected chord that notes completes, if any
func (m *Matcher) Match(notes model.Notes) (float64, bool) {
	if len(notes) == 0 {
		return 0, false
	}
	key := chord.PitchClassKey(notes)
	for i := m.next; i < len(m.keys) && i < m.next+constants.FollowerLookahead; i++ {
		if m.keys[i] == key {
			m.next = i + 1
			return m.beats[i], true
		}
	}
	return 0, false
}

// Done is true once the last expected chord has been matched
func (m *Matcher) Done() bool {
	return m.next >= len(m.keys)
}

// MidiFollower turns live note starts into positions. Notes that start within the
// chord window of each other count as one chord.
type MidiFollower struct {
	listen  Listener
	matcher *Matcher
	window  time.Duration
	log     *logrus.Entry
}

func NewMidiFollower(listen Listener, expected []model.ExpectedChord, window time.Duration) *MidiFollower {
	if window <= 0 {
		window = constants.DefaultChordWindowMs * time.Millisecond
	}
	return &MidiFollower{
		listen:  listen,
		matcher: NewMatcher(expected),
		window:  window,
		log:     logger.GetProjectLogger().WithField("component", "follower"),
	}
}

func (f *MidiFollower) Run(ctx context.Context, emit Emit) error {
	chords := make(chan model.Notes, 16)

	var mu sync.Mutex
	pending := make(chord.OnNotes)
	flush := func() {
		mu.Lock()
		notes := chord.Held(pending)
		pending = make(chord.OnNotes)
		mu.Unlock()
		select {
		case chords <- notes:
		default:
			f.log.Warn("dropping chord, follower is behind")
		}
	}
	debounced := debounce.New(f.window)

	stop, err := f.listen(func(key uint8) {
		mu.Lock()
		pending[key] = true
		mu.Unlock()
		debounced(flush)
	})
	if err != nil {
		return errors.Wrap(err, "could not listen to midi input")
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notes := <-chords:
			beat, ok := f.matcher.Match(notes)
			f.log.WithFields(logrus.Fields{"chord": chord.CreateChordKey(notes), "matched": ok, "beat": beat}).Debug("chord played")
			if !ok {
				continue
			}
			if err := emit(beat); err != nil {
				return err
			}
			if f.matcher.Done() {
				return nil
			}
		}
	}
}
