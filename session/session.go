// Package session ties one loaded score to its timeline, its cursor controller and
// the position stream that drives it.
package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/cursor"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/render"
	"github.com/xyfu66/score-following-app/stream"
	"github.com/xyfu66/score-following-app/timeline"
)

var ErrNoScore = errors.New("no score loaded")

type Session struct {
	renderer  render.Renderer
	dialer    stream.Dialer
	url       string
	beatField string
	log       *logrus.Entry

	scoreID string
	onsets  []float64
	index   *timeline.Index
	ctrl    *cursor.Controller
	adapter *stream.Adapter
}

func New(r render.Renderer, dialer stream.Dialer, url, beatField string) *Session {
	return &Session{
		renderer:  r,
		dialer:    dialer,
		url:       url,
		beatField: beatField,
		log:       logger.GetProjectLogger().WithField("component", "session"),
	}
}

// Load replaces the current score. The timeline is built here and nowhere else; it
// stays fixed until the next Load. scoreID and onsets are what the upload returned.
func (s *Session) Load(content []byte, scoreID string, onsets []float64) error {
	s.Stop()

	if err := s.renderer.Load(content); err != nil {
		return errors.Wrap(err, "could not load score")
	}
	events := timeline.Extract(s.renderer.Iterator())
	index := timeline.Build(events)
	if index.Empty() {
		s.log.WithField("id", scoreID).Warn("score has no events, the cursor will not move")
	} else if err := s.renderer.Render(); err != nil {
		return errors.Wrap(err, "could not render score")
	}

	s.scoreID = scoreID
	s.onsets = onsets
	s.index = index
	s.ctrl = cursor.NewController(index, s.renderer.Cursor())
	s.ctrl.Start()
	s.adapter = stream.NewAdapter(s.dialer, s.url, s.beatField, s.ctrl)

	s.log.WithFields(logrus.Fields{"id": scoreID, "events": len(events), "slots": index.Len()}).Info("score loaded")
	return nil
}

func (s *Session) Index() *timeline.Index {
	return s.index
}

// Play opens the position stream for the loaded score
func (s *Session) Play(ctx context.Context, input model.InputType, device string) error {
	if s.adapter == nil {
		return ErrNoScore
	}
	return s.adapter.Start(ctx, model.InitMessage{
		FileId:     s.scoreID,
		OnsetBeats: s.onsets,
		InputType:  input,
		Device:     device,
	})
}

func (s *Session) Stop() {
	if s.adapter != nil {
		s.adapter.Stop()
	}
}

func (s *Session) Playing() bool {
	return s.adapter != nil && s.adapter.Playing()
}

// Done is closed when playback stops for any reason
func (s *Session) Done() <-chan struct{} {
	if s.adapter == nil {
		done := make(chan struct{})
		close(done)
		return done
	}
	return s.adapter.Done()
}
