// Package explorer builds links to human-readable explorer pages.
package explorer

import (
	"net/url"
	"strings"

	"github.com/chainsafe/bridge-tracker/pkg/config"
)

// Links builds explorer URLs. The zero value is not usable; use NewLinks.
type Links struct {
	messageBase     string
	destinationBase string
}

// NewLinks creates link builders from the explorer configuration.
func NewLinks(cfg *config.ExplorerConfig) Links {
	return Links{
		messageBase:     strings.TrimRight(cfg.MessageBaseURL, "/"),
		destinationBase: strings.TrimRight(cfg.DestinationBaseURL, "/"),
	}
}

// Message returns the message explorer page for a message id.
func (l Links) Message(id string) string {
	return l.messageBase + "/tx/" + url.PathEscape(id)
}

// DestinationTx returns the destination-chain explorer page for a
// transaction hash, or "" if the hash is not known yet.
func (l Links) DestinationTx(hash string) string {
	if hash == "" {
		return ""
	}
	return l.destinationBase + "/tx/" + url.PathEscape(hash)
}

// Set is the JSON form of the links for one message.
type Set struct {
	Message       string `json:"message"`
	DestinationTx string `json:"destinationTx,omitempty"`
}

// For returns the links for a message id and an optional destination hash.
func (l Links) For(id, destTxHash string) Set {
	return Set{
		Message:       l.Message(id),
		DestinationTx: l.DestinationTx(destTxHash),
	}
}
