// Package models defines the download-tracker's persistence types.
package models

import "time"

// Entry is one tracked piece of content, keyed by its unique name.
// Counters are denormalized so the stats endpoint is a single scan.
type Entry struct {
	ID               int64
	Name             string
	Description      string
	UploadDate       time.Time
	Filename         string
	TotalDownloads   int64
	DownloadCountSDK int64
	DownloadCountUI  int64
}

// DownloadEvent is the append-only record of a single download.
type DownloadEvent struct {
	ID        int64
	ItemName  string
	Source    string // "sdk" or "ui"
	UserID    string
	Timestamp time.Time
}

// Stats is the per-entry aggregate the stats endpoint serves.
type Stats struct {
	SDK   int64 `json:"sdk"`
	UI    int64 `json:"ui"`
	Total int64 `json:"total"`
}
