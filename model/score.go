package model

// Rest is the pitch value carried by rest events.
const Rest = -1

// ScoreEvent is one voice entry of a loaded score. Key is the MIDI key number
// (0-127), or Rest. Time and DurationBeats are in quarter-note beats.
type ScoreEvent struct {
	Key           int
	Time          float64
	DurationBeats float64
}

func (e ScoreEvent) IsRest() bool {
	return e.Key == Rest
}

// ScoreRecord is what gets persisted for an uploaded score.
type ScoreRecord struct {
	ID                 string
	Filename           string
	OnsetBeats         []float64
	HasPerformanceFile bool
}
