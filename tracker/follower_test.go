package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyfu66/score-following-app/model"
)

var expected = []model.ExpectedChord{
	{Beat: 0, Notes: model.Notes{60, 64, 67}},
	{Beat: 1, Notes: model.Notes{62}},
	{Beat: 2, Notes: model.Notes{64}},
	{Beat: 3, Notes: model.Notes{65}},
	{Beat: 4, Notes: model.Notes{67}},
}

func TestMatcherAdvances(t *testing.T) {
	t.Parallel()

	m := NewMatcher(expected)
	assert := assert.New(t)

	beat, ok := m.Match(model.Notes{48, 64, 67})
	assert.True(ok)
	assert.Equal(0.0, beat)

	// already matched, the matcher has moved on
	_, ok = m.Match(model.Notes{60, 64, 67})
	assert.False(ok)

	beat, ok = m.Match(model.Notes{74})
	assert.True(ok)
	assert.Equal(1.0, beat)
	assert.False(m.Done())
}

func TestMatcherLooksAheadThreeChords(t *testing.T) {
	t.Parallel()

	m := NewMatcher(expected)
	m.Match(model.Notes{60, 64, 67})

	// skipping two chords is fine
	beat, ok := m.Match(model.Notes{65})
	assert.True(t, ok)
	assert.Equal(t, 3.0, beat)

	m = NewMatcher(expected)
	m.Match(model.Notes{60, 64, 67})
	_, ok = m.Match(model.Notes{67})
	assert.False(t, ok, "beat 4 is beyond the lookahead")
}

func TestMatcherIgnoresEmptyChord(t *testing.T) {
	t.Parallel()

	_, ok := NewMatcher(expected).Match(nil)
	assert.False(t, ok)
}

// fakeListener lets the test play notes
type fakeListener struct {
	mu      sync.Mutex
	onNote  func(key uint8)
	stopped bool
}

func (l *fakeListener) listen(onNote func(key uint8)) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onNote = onNote
	return func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
	}, nil
}

func (l *fakeListener) play(keys ...uint8) {
	l.mu.Lock()
	onNote := l.onNote
	l.mu.Unlock()
	for _, k := range keys {
		onNote(k)
	}
}

func (l *fakeListener) listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.onNote != nil
}

func TestMidiFollowerGroupsNotesIntoChords(t *testing.T) {
	t.Parallel()

	l := &fakeListener{}
	f := NewMidiFollower(l.listen, expected[:2], 5*time.Millisecond)

	beats := make(chan float64, 4)
	done := make(chan error, 1)
	go func() {
		done <- f.Run(context.Background(), func(beat float64) error {
			beats <- beat
			return nil
		})
	}()
	require.Eventually(t, l.listening, time.Second, time.Millisecond)

	l.play(60, 64, 67)
	assert.Equal(t, 0.0, <-beats)

	l.play(62)
	assert.Equal(t, 1.0, <-beats)

	// every chord matched
	assert.NoError(t, <-done)
	assert.True(t, l.stopped)
}

func TestMidiFollowerStopsOnCancel(t *testing.T) {
	t.Parallel()

	l := &fakeListener{}
	f := NewMidiFollower(l.listen, expected, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, f.Run(ctx, func(float64) error { return nil }), context.Canceled)
	assert.True(t, l.stopped)
}
