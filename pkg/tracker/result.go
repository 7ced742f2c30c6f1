package tracker

import (
	"github.com/chainsafe/bridge-tracker/pkg/message"
)

// Status is the caller-facing tracking status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	// StatusNotFound is reported while the provider has no record yet.
	// Callers treat it like pending.
	StatusNotFound Status = "not_found"
)

// Result is the outcome of one tracking attempt.
type Result struct {
	Status            Status          `json:"status"`
	Record            *message.Record `json:"message,omitempty"`
	DestinationTxHash string          `json:"destinationTxHash,omitempty"`
	Error             string          `json:"error,omitempty"`
	IsSynthetic       bool            `json:"isSynthetic,omitempty"`
}

// Terminal reports whether tracking ends with this result.
func (r Result) Terminal() bool {
	return r.Status == StatusDelivered || r.Status == StatusFailed
}

// FromRecord maps a provider record onto a Result.
func FromRecord(rec *message.Record) Result {
	var status Status
	switch rec.Status {
	case message.StatusDelivered:
		status = StatusDelivered
	case message.StatusFailed:
		status = StatusFailed
	default:
		status = StatusPending
	}
	return Result{
		Status:            status,
		Record:            rec,
		DestinationTxHash: rec.DestTxHash,
		IsSynthetic:       rec.IsSynthetic,
	}
}
