// Package stream owns the connection to the tracker and feeds every beat position it
// sends to the cursor controller, one at a time and in arrival order.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/model"
)

var (
	ErrNoScoreID      = errors.New("no score id, upload a score first")
	ErrAlreadyPlaying = errors.New("stream already started")
	ErrStopped        = errors.New("stream stopped while connecting")
)

type State int

const (
	Idle State = iota
	Connecting
	Open
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Controller is what the adapter drives. *cursor.Controller implements it.
type Controller interface {
	Start()
	MoveToBeat(beat float64)
	Hide()
}

type Adapter struct {
	dialer    Dialer
	url       string
	beatField string
	ctrl      Controller
	log       *logrus.Entry

	// guards everything below and serializes calls into ctrl
	mu      sync.Mutex
	state   State
	playing bool
	conn    Conn
	done    chan struct{}
}

func NewAdapter(dialer Dialer, url, beatField string, ctrl Controller) *Adapter {
	done := make(chan struct{})
	close(done)
	return &Adapter{
		dialer:    dialer,
		url:       url,
		beatField: beatField,
		ctrl:      ctrl,
		log:       logger.GetProjectLogger().WithFields(logrus.Fields{"component": "stream", "url": url}),
		done:      done,
	}
}

func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Done is closed once the current stream has been torn down
func (a *Adapter) Done() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}

// Start connects, resets the cursor and sends init. Positions are applied in the
// background until Stop is called or the connection ends.
func (a *Adapter) Start(ctx context.Context, init model.InitMessage) error {
	if init.FileId == "" {
		return ErrNoScoreID
	}

	a.mu.Lock()
	if a.state == Connecting || a.state == Open {
		a.mu.Unlock()
		return ErrAlreadyPlaying
	}
	a.setState(Connecting)
	a.playing = true
	a.done = make(chan struct{})
	a.mu.Unlock()

	conn, err := a.dialer.Dial(ctx, a.url)
	if err != nil {
		a.mu.Lock()
		a.closeLocked()
		a.mu.Unlock()
		logger.Error(a.log, "could not connect to tracker", err)
		return errors.Wrap(err, "error connecting to tracker")
	}

	a.mu.Lock()
	if a.state != Connecting {
		a.mu.Unlock()
		conn.Close()
		return ErrStopped
	}
	a.ctrl.Start()
	if err := conn.WriteJSON(init); err != nil {
		// still Connecting, so closeLocked will not hide what Start just showed
		a.ctrl.Hide()
		a.closeLocked()
		a.mu.Unlock()
		conn.Close()
		logger.Error(a.log, "could not send init message", err)
		return errors.Wrap(err, "error sending init message")
	}
	a.conn = conn
	a.setState(Open)
	a.mu.Unlock()

	go a.run(conn)
	return nil
}

// Stop closes the stream right away. Calling it again, or on a stream that never
// opened, does nothing.
func (a *Adapter) Stop() {
	a.mu.Lock()
	conn := a.closeLocked()
	a.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// run reads on one goroutine and applies on this one. The one slot channel is the
// only queue: a message is not read off the wire until the previous one is handed over.
func (a *Adapter) run(conn Conn) {
	positions := make(chan float64, 1)
	var readErr error

	go func() {
		defer close(positions)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr = err
				return
			}
			if beat, ok := a.decode(data); ok {
				positions <- beat
			}
		}
	}()

	for beat := range positions {
		a.apply(conn, beat)
	}
	a.teardown(conn, readErr)
}

func (a *Adapter) apply(conn Conn, beat float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Open || a.conn != conn {
		a.log.WithField("beat", beat).Debug("dropping position after stop")
		return
	}
	a.ctrl.MoveToBeat(beat)
}

func (a *Adapter) teardown(conn Conn, cause error) {
	a.mu.Lock()
	if a.conn != conn {
		// already stopped locally
		a.mu.Unlock()
		return
	}
	a.closeLocked()
	a.mu.Unlock()
	conn.Close()

	switch {
	case cause == nil:
	case websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		a.log.Info("tracker closed the stream")
	default:
		logger.Error(a.log, "stream ended", cause)
	}
}

// closeLocked moves to Closed and hands back the connection for the caller to close
// outside the lock. Must hold mu.
func (a *Adapter) closeLocked() Conn {
	if a.state == Idle || a.state == Closed {
		return nil
	}
	if a.state == Open {
		a.ctrl.Hide()
	}
	conn := a.conn
	a.conn = nil
	a.playing = false
	a.setState(Closed)
	close(a.done)
	return conn
}

func (a *Adapter) setState(s State) {
	a.log.WithFields(logrus.Fields{"from": a.state, "to": s}).Info("stream state")
	a.state = s
}

// decode pulls the beat out of a message. Messages without the field are skipped.
func (a *Adapter) decode(data []byte) (float64, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		a.log.WithError(err).Warn("ignoring malformed message")
		return 0, false
	}
	if msg, ok := fields["error"]; ok {
		a.log.WithField("error", string(msg)).Warn("tracker reported an error")
	}
	raw, ok := fields[a.beatField]
	if !ok {
		a.log.WithField("field", a.beatField).Debug("message has no beat position")
		return 0, false
	}
	var beat float64
	if err := json.Unmarshal(raw, &beat); err != nil {
		a.log.WithError(err).Warn("beat position is not a number")
		return 0, false
	}
	return beat, true
}
