// Package tasks implements long-running client operations.
//
// The [ExportEngine] walks listings page by page, fetching detail records
// under a rate limit so export runs never hammer the backend, and streams
// [ProgressUpdate] messages over a channel for the TUI and CLI to render.
package tasks
