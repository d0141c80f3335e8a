package model

type Notes = []uint8

// ExpectedChord is the set of pitches that start together at one onset.
type ExpectedChord struct {
	Beat  float64
	Notes Notes
}
