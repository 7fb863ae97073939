package models

import "time"

// Run represents one invocation of the downloader
type Run struct {
	ID               int64
	RunID            string
	VideoURL         string
	RequestedQuality string
	Status           string
	Error            string
	ExecutedAt       time.Time
}
