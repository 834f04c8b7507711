package common

// DownloadSourceSDK and DownloadSourceUI are the accepted values for the
// "source" field of a tracked download event.
const (
	DownloadSourceSDK = "sdk"
	DownloadSourceUI  = "ui"
)
