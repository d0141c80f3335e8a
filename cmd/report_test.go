package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyfu66/score-following-app/file"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/store"
)

func TestAnalyzeUploads(t *testing.T) {
	dir := t.TempDir()
	st, err := store.NewDisk(dir, nil)
	require.NoError(t, err)

	require.NoError(t, st.Save(model.ScoreRecord{ID: file.NewID(), OnsetBeats: []float64{0, 1}}, []byte("abc"), []byte("perf")))
	require.NoError(t, st.Save(model.ScoreRecord{ID: file.NewID(), OnsetBeats: []float64{0, 1, 2}}, []byte("de"), nil))
	orphan := file.NewID()
	require.NoError(t, os.WriteFile(file.ScorePath(dir, orphan), []byte("x"), 0666))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0666))

	r, err := analyzeUploads(dir, st)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(2, r.numScores)
	assert.Equal(1, r.numPerformance)
	assert.Equal(int64(5), r.numBytes)
	assert.ElementsMatch([]int{2, 3}, r.onsetsPerScore)
	assert.Equal([]string{orphan}, r.missing)
}

func TestScoreFileRe(t *testing.T) {
	id := file.NewID()
	assert.True(t, scoreFileRe.MatchString(id+".mid"))
	assert.False(t, scoreFileRe.MatchString(id+".perf.mid"))
	assert.False(t, scoreFileRe.MatchString(id+".dat"))
}
