package model

type UploadResponse struct {
	FileId             string    `json:"file_id"`
	OnsetBeats         []float64 `json:"onset_beats"`
	HasPerformanceFile bool      `json:"has_performance_file"`
}

type Device struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

type PositionResponse struct {
	FileId       string  `json:"file_id"`
	BeatPosition float64 `json:"beat_position"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
