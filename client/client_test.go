package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSendsMultipart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		dat, _ := io.ReadAll(f)
		assert.Equal(t, "etude.mid", hdr.Filename)
		assert.Equal(t, "score", string(dat))

		_, _, err = r.FormFile("performance")
		assert.ErrorIs(t, err, http.ErrMissingFile)

		w.Write([]byte(`{"file_id": "abc", "onset_beats": [0, 1.5], "has_performance_file": false}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).Upload(context.Background(), "etude.mid", []byte("score"), nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", res.FileId)
	assert.Equal(t, []float64{0, 1.5}, res.OnsetBeats)
}

func TestUploadSurfacesServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "invalid midi file"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Upload(context.Background(), "x.mid", []byte("nope"), []byte("perf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid midi file")
}

func TestMidiDevices(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/midi-devices", r.URL.Path)
		w.Write([]byte(`{"devices": [{"index": 0, "name": "VMPK Output"}]}`))
	}))
	defer srv.Close()

	devices, err := New(srv.URL + "/").MidiDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "VMPK Output", devices[0].Name)
}

func TestStreamURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"http://localhost:8000":    "ws://localhost:8000/ws",
		"https://tracker.example/": "wss://tracker.example/ws",
		"http://host/api":          "ws://host/api/ws",
	}
	for in, want := range cases {
		got, err := New(in).StreamURL()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
