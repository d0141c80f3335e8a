package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyfu66/score-following-app/miditest"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/score"
	"github.com/xyfu66/score-following-app/stream"
)

// tracker answers every init message with the given positions and then hangs up
func tracker(t *testing.T, positions []float64, inits chan<- model.InitMessage) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var init model.InitMessage
		if err := conn.ReadJSON(&init); err != nil {
			return
		}
		inits <- init
		for _, p := range positions {
			conn.WriteJSON(model.PositionMessage{BeatPosition: p})
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// wait for the client to answer the close
		conn.ReadMessage()
	}))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func waitStopped(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not stop")
	}
}

func fourNotes(t *testing.T) []byte {
	t.Helper()
	dat, err := miditest.Bytes(480, 120,
		[]miditest.Note{{Key: 60, Start: 0, Length: 480}, {Key: 64, Start: 960, Length: 480}, {Key: 67, Start: 1440, Length: 480}},
		[]miditest.Note{{Key: 48, Start: 0, Length: 1920}},
	)
	require.NoError(t, err)
	return dat
}

func TestPlayFollowsStream(t *testing.T) {
	t.Parallel()

	inits := make(chan model.InitMessage, 1)
	url := tracker(t, []float64{0.2, 2.7, 1.2}, inits)
	sc := score.New(nil)
	s := New(sc, stream.WebsocketDialer{}, url, "beat_position")

	require.NoError(t, s.Load(fourNotes(t), "abc", []float64{0, 2, 3}))
	// C4 + C3, rest, E4, G4
	assert.Equal(t, []float64{0, 1, 2, 3}, s.Index().Times())

	require.NoError(t, s.Play(context.Background(), model.InputSimulation, ""))
	assert.Equal(t, model.InitMessage{FileId: "abc", OnsetBeats: []float64{0, 2, 3}, InputType: model.InputSimulation}, <-inits)
	waitStopped(t, s)

	assert.Equal(t, 1.0, sc.Cursor().CurrentTime())
	assert.False(t, s.Playing())
	assert.False(t, sc.Cursor().(*score.Cursor).Visible())
}

func TestPlayWithoutScore(t *testing.T) {
	t.Parallel()

	s := New(score.New(nil), stream.WebsocketDialer{}, "ws://localhost:1", "beat_position")
	assert.ErrorIs(t, s.Play(context.Background(), model.InputMidi, "0"), ErrNoScore)
	assert.NotPanics(t, s.Stop)
	<-s.Done()
}

func TestLoadRejectsBadContent(t *testing.T) {
	t.Parallel()

	s := New(score.New(nil), stream.WebsocketDialer{}, "ws://localhost:1", "beat_position")
	assert.Error(t, s.Load([]byte("MThd?"), "abc", nil))
}

func TestEmptyScoreIsInert(t *testing.T) {
	t.Parallel()

	dat, err := miditest.Bytes(480, 120)
	require.NoError(t, err)

	inits := make(chan model.InitMessage, 1)
	url := tracker(t, []float64{1, 2}, inits)
	sc := score.New(nil)
	s := New(sc, stream.WebsocketDialer{}, url, "beat_position")

	require.NoError(t, s.Load(dat, "empty", nil))
	assert.True(t, s.Index().Empty())

	require.NoError(t, s.Play(context.Background(), model.InputSimulation, ""))
	<-inits
	waitStopped(t, s)
	assert.Equal(t, -1.0, sc.Cursor().CurrentTime())
}

func TestReloadStopsPlayback(t *testing.T) {
	t.Parallel()

	// a tracker that never sends anything
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer ts.Close()

	s := New(score.New(nil), stream.WebsocketDialer{}, "ws"+strings.TrimPrefix(ts.URL, "http"), "beat_position")
	require.NoError(t, s.Load(fourNotes(t), "a", nil))
	require.NoError(t, s.Play(context.Background(), model.InputMidi, "0"))
	assert.True(t, s.Playing())
	done := s.Done()

	require.NoError(t, s.Load(fourNotes(t), "b", nil))
	<-done
	assert.False(t, s.Playing())
}
