package model

type InputType string

const (
	InputAudio      InputType = "audio"
	InputMidi       InputType = "midi"
	InputSimulation InputType = "simulation"
)

func (t InputType) Valid() bool {
	switch t {
	case InputAudio, InputMidi, InputSimulation:
		return true
	}
	return false
}

// InitMessage is the first message a client sends once the stream is open.
type InitMessage struct {
	FileId     string    `json:"file_id"`
	OnsetBeats []float64 `json:"onset_beats"`
	InputType  InputType `json:"input_type"`
	Device     string    `json:"device"`
}

// PositionMessage is what the tracker streams back.
type PositionMessage struct {
	BeatPosition float64 `json:"beat_position"`
}

type StreamError struct {
	Error string `json:"error"`
}

// PositionEvent is a single decoded beat position. Not retained after it is applied.
type PositionEvent struct {
	BeatPosition float64
}
