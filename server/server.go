// Package server is the tracker service: score upload, MIDI device listing and the
// websocket that streams beat positions for a score.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/store"
	"github.com/xyfu66/score-following-app/tracker"
)

type Server struct {
	store     *store.Disk
	devices   midi.DeviceLister
	factory   *tracker.Factory
	positions *tracker.PositionManager
	origins   []string
	upgrader  websocket.Upgrader
	log       *logrus.Entry
}

func New(st *store.Disk, devices midi.DeviceLister, factory *tracker.Factory, origins []string) *Server {
	s := &Server{
		store:     st,
		devices:   devices,
		factory:   factory,
		positions: tracker.NewPositionManager(),
		origins:   origins,
		log:       logger.GetProjectLogger().WithField("component", "server"),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/", s.handleRoot).Methods("GET")
	router.HandleFunc("/upload", s.handleUpload).Methods("POST")
	router.HandleFunc("/midi-devices", s.handleDevices).Methods("GET")
	router.HandleFunc("/positions/{id}", s.handlePosition).Methods("GET")
	router.HandleFunc("/ws", s.handleStream)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "score following tracker"})
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.ListInPorts()
	if err != nil {
		logger.Error(s.log, "could not list midi devices", err)
		writeError(w, http.StatusInternalServerError, "could not list midi devices")
		return
	}
	writeJSON(w, http.StatusOK, model.DevicesResponse{Devices: devices})
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.store.Record(id); err != nil {
		writeError(w, http.StatusNotFound, "score not found")
		return
	}
	beat, _ := s.positions.Get(id)
	writeJSON(w, http.StatusOK, model.PositionResponse{FileId: id, BeatPosition: beat})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
