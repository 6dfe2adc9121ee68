// Package analysis owns the job lifecycle of a link analysis: submit,
// concurrent checker dispatch, progress reporting, and the immutable
// final result handed to pollers.
package analysis

import (
	"github.com/scamlens/scamlens/internal/brand"
	"github.com/scamlens/scamlens/internal/checker"
	"github.com/scamlens/scamlens/internal/score"
)

// Job status values. A job moves pending -> running -> complete or error
// and never transitions out of a terminal state.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusError    = "error"
)

// Screenshots references visual evidence captured for a finished
// analysis. Capture itself is handled by an external service; the
// analyzer only carries the references through.
type Screenshots struct {
	Suspicious string `json:"suspicious,omitempty"`
	Official   string `json:"official,omitempty"`
}

// Result is the immutable outcome of one analysis. It is written exactly
// once, when every checker has settled or timed out, and read many times
// by pollers. The JSON field names are the schema the front end consumes.
type Result struct {
	JobID       string          `json:"jobId"`
	Status      string          `json:"status"`
	URL         string          `json:"url"`
	Domain      string          `json:"domain"`
	Brand       brand.Info      `json:"brand"`
	Verdict     score.Verdict   `json:"verdict"`
	Screenshots *Screenshots    `json:"screenshots,omitempty"`
	Checks      checker.Results `json:"checks"`
	RiskFactors []string        `json:"riskFactors"`
}

// statusPayload shapes for polling responses.
type runningPayload struct {
	JobID    string `json:"jobId"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Stage    string `json:"stage"`
}

type errorPayload struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// StatusPayload renders the polling response for the job's current
// state: progress while running, the full result once complete, the
// failure reason on error. Pending jobs report as running at progress 0.
func (j *Job) StatusPayload() interface{} {
	switch j.Status {
	case StatusComplete:
		return j.Result
	case StatusError:
		return errorPayload{JobID: j.ID, Status: StatusError, Error: j.Error}
	default:
		return runningPayload{JobID: j.ID, Status: StatusRunning, Progress: j.Progress, Stage: j.Stage}
	}
}
