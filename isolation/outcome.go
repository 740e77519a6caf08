// (c) Copyright Enthought, Inc. 2013

// Package isolation runs a leak check in a disposable worker and carries
// its outcome back over a one-shot channel. The worker is either a child
// process created by re-executing the current binary, which gives true
// crash isolation, or a goroutine, which trades that strength for
// portability.
package isolation

import "encoding/json"

// Worker outcome statuses.
const (
	StatusFinished = "finished"
	StatusFailed   = "failed"
)

// Outcome is the single message a worker delivers to its parent. It is
// written at most once by the worker and read at most once by the parent
// after the worker has been joined.
type Outcome struct {
	// Token echoes the identifier the parent issued for this run. A
	// message carrying an unknown token is discarded.
	Token string `json:"token"`
	// Status is either StatusFinished or StatusFailed.
	Status string `json:"status"`
	// Detail describes the failure when Status is StatusFailed.
	Detail string `json:"detail,omitempty"`
}

// Encode serializes the outcome for the cross-process channel.
func (o Outcome) Encode() ([]byte, error) {
	return json.Marshal(o)
}

// DecodeOutcome deserializes an outcome received from a worker.
func DecodeOutcome(data []byte) (Outcome, error) {
	var o Outcome
	err := json.Unmarshal(data, &o)

	return o, err
}
