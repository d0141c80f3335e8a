// Package file names the files an uploaded score is stored under.
package file

import (
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xyfu66/score-following-app/constants"
)

// NewID returns a fresh score id
func NewID() string {
	return uuid.NewString()
}

// ValidID is true for ids handed out by NewID. Anything else never reaches a path.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func ScorePath(dir, id string) string {
	return filepath.Join(dir, id+constants.ScoreExt)
}

func PerformancePath(dir, id string) string {
	return filepath.Join(dir, id+constants.PerformanceExt)
}

func MetadataPath(dir, id string) string {
	return filepath.Join(dir, id+constants.MetadataExt)
}
