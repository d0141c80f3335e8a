package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/score"
	"github.com/xyfu66/score-following-app/store"
	"github.com/xyfu66/score-following-app/tracker"
	"gitlab.com/gomidi/midi/v2/smf"
)

// handleStream reads one init message, then writes a position message for every beat
// the chosen source produces. The stream ends when the source runs out or the client
// goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var init model.InitMessage
	if err := conn.ReadJSON(&init); err != nil {
		s.log.WithError(err).Warn("could not read init message")
		return
	}
	log := s.log.WithFields(logrus.Fields{"id": init.FileId, "input": init.InputType, "device": init.Device})

	src, err := s.source(init)
	if err != nil {
		log.WithError(err).Warn("refusing stream")
		conn.WriteJSON(model.StreamError{Error: err.Error()})
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseUnsupportedData, ""))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	// the only reader; it notices the client leaving
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info("streaming positions")
	err = src.Run(ctx, func(beat float64) error {
		s.positions.Set(init.FileId, beat)
		return conn.WriteJSON(model.PositionMessage{BeatPosition: beat})
	})
	switch {
	case err == nil:
		log.Info("source finished")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	case errors.Is(err, context.Canceled):
		log.Info("client went away")
	default:
		logger.Error(log, "stream failed", err)
	}
}

func (s *Server) source(init model.InitMessage) (tracker.Source, error) {
	if !init.InputType.Valid() {
		return nil, errors.Wrapf(tracker.ErrUnsupportedInput, "%q", init.InputType)
	}

	_, dat, perfDat, err := s.store.Load(init.FileId)
	if errors.Is(err, store.ErrScoreNotFound) {
		return nil, errors.Errorf("unknown score %q", init.FileId)
	}
	if err != nil {
		return nil, err
	}
	sc := score.New(nil)
	if err := sc.Load(dat); err != nil {
		return nil, err
	}
	var performance *smf.SMF
	if perfDat != nil {
		if performance, err = midi.ReadMidi(perfDat); err != nil {
			return nil, err
		}
	}
	return s.factory.ForInput(init, sc, performance)
}
