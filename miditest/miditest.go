// Package miditest builds small standard midi files for tests.
package miditest

import (
	"bytes"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Note is a single note of a voice, positioned in ticks
type Note struct {
	Key    uint8
	Start  uint32
	Length uint32
}

type tickedMsg struct {
	tick uint32
	off  bool
	msg  gomidi.Message
}

// Bytes encodes a file with one tempo track followed by one track per voice
func Bytes(tpq uint16, bpm float64, voices ...[]Note) ([]byte, error) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(tpq)

	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaTempo(bpm))
	tempoTrack.Close(0)
	if err := s.Add(tempoTrack); err != nil {
		return nil, err
	}

	for _, voice := range voices {
		var msgs []tickedMsg
		for _, n := range voice {
			msgs = append(msgs,
				tickedMsg{tick: n.Start, msg: gomidi.NoteOn(0, n.Key, 100)},
				tickedMsg{tick: n.Start + n.Length, off: true, msg: gomidi.NoteOff(0, n.Key)},
			)
		}
		// note offs go first when they share a tick with note ons
		sort.SliceStable(msgs, func(i, j int) bool {
			if msgs[i].tick != msgs[j].tick {
				return msgs[i].tick < msgs[j].tick
			}
			return msgs[i].off && !msgs[j].off
		})

		var track smf.Track
		var last uint32
		for _, m := range msgs {
			track.Add(m.tick-last, m.msg)
			last = m.tick
		}
		track.Close(0)
		if err := s.Add(track); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
