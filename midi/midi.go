package midi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/xyfu66/score-following-app/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoTracks = errors.New("midi file has no tracks")

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading midi file")
	}
	return ReadMidi(dat)
}

// ReadMidi parses a standard midi file held in memory
func ReadMidi(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = fmt.Errorf("error parsing midi file... %v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "error parsing midi file")
	}
	if len(res.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	return res, nil
}

// TicksPerQuarter returns the resolution that turns absolute ticks into quarter beats
func TicksPerQuarter(s *smf.SMF) (float64, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return 0, errors.Errorf("unsupported time format %v", s.TimeFormat)
	}
	return float64(mt), nil
}

// DeviceLister lists the midi input ports a tracker could listen to
type DeviceLister interface {
	ListInPorts() ([]model.Device, error)
}

// Ports lists the ports of whichever driver has been registered
// (see the rtmididrv import in cmd).
type Ports struct{}

func (Ports) ListInPorts() ([]model.Device, error) {
	res := make([]model.Device, 0)
	for _, in := range gomidi.GetInPorts() {
		res = append(res, model.Device{Index: in.Number(), Name: in.String()})
	}
	return res, nil
}
