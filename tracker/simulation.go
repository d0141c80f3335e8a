package tracker

import (
	"context"
	"time"

	"github.com/xyfu66/score-following-app/util"
	"k8s.io/utils/clock"
)

// Simulation plays back a list of beats as if a performer hit every onset on time
type Simulation struct {
	beats   []float64
	offsets []time.Duration
	clock   clock.Clock
}

// NewSimulation plays beats at a steady tempo
func NewSimulation(beats []float64, bpm float64, clk clock.Clock) *Simulation {
	offsets := make([]time.Duration, len(beats))
	for i, beat := range beats {
		offsets[i] = time.Duration(beat * 60 / bpm * float64(time.Second))
	}
	return &Simulation{beats: beats, offsets: offsets, clock: clk}
}

// NewPerformanceSimulation plays beats at the onset times of a recorded performance.
// Onsets are paired with beats in order; whichever list is longer is cut short.
func NewPerformanceSimulation(beats []float64, onsets []time.Duration, clk clock.Clock) *Simulation {
	n := util.Min(len(beats), len(onsets))
	return &Simulation{beats: beats[:n], offsets: onsets[:n], clock: clk}
}

func (s *Simulation) Run(ctx context.Context, emit Emit) error {
	var elapsed time.Duration
	for i, beat := range s.beats {
		if wait := s.offsets[i] - elapsed; wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.clock.After(wait):
			}
			elapsed = s.offsets[i]
		}
		if err := emit(beat); err != nil {
			return err
		}
	}
	return nil
}
