package dto

import "time"

// CanonicalResult is the outcome of canonicalizing one GL string.
type CanonicalResult struct {
	Input     string `json:"input"     yaml:"input"`
	Canonical string `json:"canonical" yaml:"canonical"`
	Changed   bool   `json:"changed"   yaml:"changed"`
}

// StreamStats summarizes one streaming canonicalization run.
type StreamStats struct {
	Lines    int           `json:"lines"`
	Changed  int           `json:"changed"`
	Chunks   int           `json:"chunks"`
	Duration time.Duration `json:"duration"`
}
