package tracker

import (
	"math"
	"sync"
)

// PositionManager remembers the last beat streamed for every score
type PositionManager struct {
	mu        sync.RWMutex
	positions map[string]float64
}

func NewPositionManager() *PositionManager {
	return &PositionManager{positions: make(map[string]float64)}
}

// Set stores beat for id. NaN is stored as 0.
func (p *PositionManager) Set(id string, beat float64) {
	if math.IsNaN(beat) {
		beat = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positions[id] = beat
}

func (p *PositionManager) Get(id string) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	beat, ok := p.positions[id]
	return beat, ok
}

func (p *PositionManager) Delete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.positions, id)
}
