// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Run is the persisted record of one code execution. It is an audit
// log entry, not part of the execution pipeline — the pipeline's own
// entities live and die within a single request.
//
// The `json:"..."` struct tags control how the record serializes on
// the /api/runs endpoints.
type Run struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"` // "success" or "error"
	Code          string    `json:"code"`
	Output        string    `json:"output,omitempty"`
	Error         string    `json:"error,omitempty"`
	ExitCode      int       `json:"exitCode"`
	TimedOut      bool      `json:"timedOut"`
	ExecutionTime float64   `json:"executionTime"` // seconds
	CreatedAt     time.Time `json:"createdAt"`
}
