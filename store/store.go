// Package store keeps uploaded scores on disk. Score metadata goes to a pluggable
// backend: gob files next to the scores, or DynamoDB (see package db).
package store

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xyfu66/score-following-app/file"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/util"
)

var ErrScoreNotFound = errors.New("score not found")

type Metadata interface {
	Put(rec model.ScoreRecord) error
	Get(id string) (model.ScoreRecord, error)
}

// GobMetadata stores one gob encoded record per score
type GobMetadata struct {
	Dir string
}

func (g GobMetadata) Put(rec model.ScoreRecord) error {
	return util.CreateBinary(file.MetadataPath(g.Dir, rec.ID), rec)
}

func (g GobMetadata) Get(id string) (model.ScoreRecord, error) {
	rec, err := util.ReadBinary[model.ScoreRecord](file.MetadataPath(g.Dir, id))
	if os.IsNotExist(errors.Cause(err)) {
		return rec, ErrScoreNotFound
	}
	return rec, err
}

type Disk struct {
	dir  string
	meta Metadata
	log  *logrus.Entry
}

func NewDisk(dir string, meta Metadata) (*Disk, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = GobMetadata{Dir: dir}
	}
	return &Disk{
		dir:  dir,
		meta: meta,
		log:  logger.GetProjectLogger().WithField("component", "store"),
	}, nil
}

// Save writes the score, the performance if there is one, and then the record
func (d *Disk) Save(rec model.ScoreRecord, score, performance []byte) error {
	if err := os.WriteFile(file.ScorePath(d.dir, rec.ID), score, 0666); err != nil {
		return errors.Wrapf(err, "could not save score %v", rec.ID)
	}
	rec.HasPerformanceFile = len(performance) > 0
	if rec.HasPerformanceFile {
		if err := os.WriteFile(file.PerformancePath(d.dir, rec.ID), performance, 0666); err != nil {
			return errors.Wrapf(err, "could not save performance for %v", rec.ID)
		}
	}
	if err := d.meta.Put(rec); err != nil {
		return errors.Wrapf(err, "could not save metadata for %v", rec.ID)
	}
	d.log.WithFields(logrus.Fields{"id": rec.ID, "filename": rec.Filename, "performance": rec.HasPerformanceFile}).Info("saved score")
	return nil
}

func (d *Disk) Record(id string) (model.ScoreRecord, error) {
	if !file.ValidID(id) {
		return model.ScoreRecord{}, ErrScoreNotFound
	}
	return d.meta.Get(id)
}

// Load returns the score bytes and, when one was uploaded, the performance bytes
func (d *Disk) Load(id string) (model.ScoreRecord, []byte, []byte, error) {
	rec, err := d.Record(id)
	if err != nil {
		return rec, nil, nil, err
	}
	score, err := os.ReadFile(file.ScorePath(d.dir, id))
	if err != nil {
		return rec, nil, nil, errors.Wrapf(err, "could not read score %v", id)
	}
	if !rec.HasPerformanceFile {
		return rec, score, nil, nil
	}
	performance, err := os.ReadFile(file.PerformancePath(d.dir, id))
	if err != nil {
		return rec, nil, nil, errors.Wrapf(err, "could not read performance %v", id)
	}
	return rec, score, performance, nil
}
