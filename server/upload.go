package server

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/constants"
	"github.com/xyfu66/score-following-app/file"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/score"
)

// handleUpload takes a score in the "file" field and an optional performance
// recording in "performance", and answers with the score id and its onset beats.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form")
		return
	}

	dat, name, err := readPart(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	sc := score.New(nil)
	if err := sc.Load(dat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid midi file: "+err.Error())
		return
	}

	performance, _, err := readPart(r, "performance")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		performance = nil
	case err != nil:
		writeError(w, http.StatusBadRequest, "could not read performance file")
		return
	default:
		if _, err := midi.ReadMidi(performance); err != nil {
			writeError(w, http.StatusBadRequest, "invalid performance file: "+err.Error())
			return
		}
	}

	rec := model.ScoreRecord{
		ID:         file.NewID(),
		Filename:   name,
		OnsetBeats: sc.OnsetBeats(),
	}
	if err := s.store.Save(rec, dat, performance); err != nil {
		logger.Error(s.log.WithField("id", rec.ID), "could not save upload", err)
		writeError(w, http.StatusInternalServerError, "could not save score")
		return
	}

	s.log.WithFields(logrus.Fields{"id": rec.ID, "onsets": len(rec.OnsetBeats)}).Info("score uploaded")
	writeJSON(w, http.StatusOK, model.UploadResponse{
		FileId:             rec.ID,
		OnsetBeats:         rec.OnsetBeats,
		HasPerformanceFile: len(performance) > 0,
	})
}

func readPart(r *http.Request, field string) ([]byte, string, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	dat, err := io.ReadAll(f)
	if err != nil {
		return nil, "", errors.Wrapf(err, "could not read %v", field)
	}
	return dat, filename(hdr), nil
}

func filename(hdr *multipart.FileHeader) string {
	if hdr == nil {
		return ""
	}
	return hdr.Filename
}
