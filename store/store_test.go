package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xyfu66/score-following-app/file"
	"github.com/xyfu66/score-following-app/model"
)

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir(), nil)
	require.NoError(t, err)

	rec := model.ScoreRecord{ID: file.NewID(), Filename: "etude.mid", OnsetBeats: []float64{0, 1, 2.5}}
	require.NoError(t, d.Save(rec, []byte("score"), []byte("perf")))

	got, score, perf, err := d.Load(rec.ID)
	require.NoError(t, err)
	rec.HasPerformanceFile = true
	assert.Equal(t, rec, got)
	assert.Equal(t, []byte("score"), score)
	assert.Equal(t, []byte("perf"), perf)
}

func TestLoadWithoutPerformance(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir(), nil)
	require.NoError(t, err)

	rec := model.ScoreRecord{ID: file.NewID(), Filename: "a.mid"}
	require.NoError(t, d.Save(rec, []byte("score"), nil))

	got, _, perf, err := d.Load(rec.ID)
	require.NoError(t, err)
	assert.False(t, got.HasPerformanceFile)
	assert.Nil(t, perf)
}

func TestMissingScore(t *testing.T) {
	t.Parallel()

	d, err := NewDisk(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = d.Record(file.NewID())
	assert.ErrorIs(t, err, ErrScoreNotFound)

	_, _, _, err = d.Load("../secrets")
	assert.ErrorIs(t, err, ErrScoreNotFound)
}

type memMetadata map[string]model.ScoreRecord

func (m memMetadata) Put(rec model.ScoreRecord) error {
	m[rec.ID] = rec
	return nil
}

func (m memMetadata) Get(id string) (model.ScoreRecord, error) {
	rec, ok := m[id]
	if !ok {
		return rec, ErrScoreNotFound
	}
	return rec, nil
}

func TestCustomMetadataBackend(t *testing.T) {
	t.Parallel()

	meta := memMetadata{}
	d, err := NewDisk(t.TempDir(), meta)
	require.NoError(t, err)

	id := file.NewID()
	require.NoError(t, d.Save(model.ScoreRecord{ID: id}, []byte("s"), nil))
	assert.Contains(t, meta, id)
}
