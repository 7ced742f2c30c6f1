// Package message holds the domain model for one cross-chain message as
// reported by a message-bridge status provider.
package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tidwall/gjson"
)

// Status is the provider-native delivery status of a message.
type Status string

const (
	StatusInFlight  Status = "INFLIGHT"
	StatusDelivered Status = "DELIVERED"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether no further status change is expected.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// Record represents one cross-chain message.
// DestTxHash is set only once the message is DELIVERED.
type Record struct {
	ID            string
	SourceChainID int64
	DestChainID   int64
	SourceTxHash  string
	DestTxHash    string
	Status        Status
	SourceAddress string
	DestAddress   string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// IsSynthetic is true when the record was fabricated by the fallback
	// generator instead of being observed upstream.
	IsSynthetic bool
}

// payload is the wire shape shared by the upstream scan API and the
// gateway's fallback output. Timestamps are unix milliseconds.
type payload struct {
	GUID         string `json:"guid"`
	SrcChainID   int64  `json:"srcChainId"`
	DstChainID   int64  `json:"dstChainId"`
	SrcTxHash    string `json:"srcTxHash"`
	DstTxHash    string `json:"dstTxHash,omitempty"`
	Status       Status `json:"status"`
	SrcUaAddress string `json:"srcUaAddress,omitempty"`
	DstUaAddress string `json:"dstUaAddress,omitempty"`
	Created      int64  `json:"created"`
	Updated      int64  `json:"updated"`
	Mock         bool   `json:"_mock,omitempty"`
}

// MarshalJSON encodes the record in the provider wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(payload{
		GUID:         r.ID,
		SrcChainID:   r.SourceChainID,
		DstChainID:   r.DestChainID,
		SrcTxHash:    r.SourceTxHash,
		DstTxHash:    r.DestTxHash,
		Status:       r.Status,
		SrcUaAddress: r.SourceAddress,
		DstUaAddress: r.DestAddress,
		Created:      toMillis(r.CreatedAt),
		Updated:      toMillis(r.UpdatedAt),
		Mock:         r.IsSynthetic,
	})
}

// UnmarshalJSON decodes the provider wire shape.
func (r *Record) UnmarshalJSON(data []byte) error {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record{
		ID:            p.GUID,
		SourceChainID: p.SrcChainID,
		DestChainID:   p.DstChainID,
		SourceTxHash:  p.SrcTxHash,
		DestTxHash:    p.DstTxHash,
		Status:        p.Status,
		SourceAddress: p.SrcUaAddress,
		DestAddress:   p.DstUaAddress,
		CreatedAt:     fromMillis(p.Created),
		UpdatedAt:     fromMillis(p.Updated),
		IsSynthetic:   p.Mock,
	}
	return nil
}

// MarkDelivered moves the record to DELIVERED with the given destination hash.
func (r *Record) MarkDelivered(destTxHash string, at time.Time) {
	r.Status = StatusDelivered
	r.DestTxHash = destTxHash
	r.UpdatedAt = at
}

// Clone returns a copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Decode extracts a Record from a provider response body. Besides the flat
// record it accepts the {"message": {...}} and {"messages": [{...}, ...]}
// envelopes, taking the first message of a list.
func Decode(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON payload")
	}

	body := gjson.ParseBytes(raw)
	switch {
	case body.Get("message").IsObject():
		body = body.Get("message")
	case body.Get("messages").IsArray():
		first := body.Get("messages.0")
		if !first.Exists() {
			return nil, fmt.Errorf("empty messages list")
		}
		body = first
	}

	if !body.IsObject() {
		return nil, fmt.Errorf("payload is not an object")
	}
	if !body.Get("guid").Exists() && !body.Get("srcTxHash").Exists() {
		return nil, fmt.Errorf("payload has neither guid nor srcTxHash")
	}

	var rec Record
	if err := json.Unmarshal([]byte(body.Raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode message record: %w", err)
	}
	if rec.Status == "" {
		rec.Status = StatusInFlight
	}
	return &rec, nil
}

// DeriveDestTxHash derives a stable, hash-shaped destination transaction id
// for a message id. Used when a synthetic record is advanced to DELIVERED.
func DeriveDestTxHash(id string) string {
	return crypto.Keccak256Hash([]byte(id)).Hex()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
