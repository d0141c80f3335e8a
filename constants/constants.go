package constants

import "os"

func GetUploadDir() string {
	path := os.Getenv("UPLOAD_PATH")
	if path != "" {
		return path
	}
	return "./uploads"
}

const DefaultPort = "8000"

const DefaultServerURL = "http://localhost:8000"

// NOTE: this is the field the deployed tracker sends, others may differ
const DefaultBeatField = "beat_position"

const DefaultBPM = 120.0

const DefaultChordWindowMs = 40

// how many upcoming onsets a live chord is compared against
const FollowerLookahead = 3

const MaxUploadSize = 32 * 1024 * 1024

const ScoreExt = ".mid"
const PerformanceExt = ".perf.mid"
const MetadataExt = ".dat"
