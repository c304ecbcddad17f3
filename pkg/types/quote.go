// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Quote is a cleaned catechism paragraph. It is derived per request and
// never stored.
type Quote struct {
	// ID is the requested paragraph number exactly as the caller wrote it.
	ID string `json:"id" yaml:"id"`

	// Text is the cleaned, single-line paragraph body.
	Text string `json:"text" yaml:"text"`
}

// Outcome classifies the result of a lookup.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeNotLoaded Outcome = "not_loaded"
)

// Lookup is one handled request as recorded in the lookup log. It carries
// the identifier and outcome only, never the quote text.
type Lookup struct {
	// ID is the requested paragraph number.
	ID string `json:"id" yaml:"id"`

	// Outcome is found, not_found, or not_loaded.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Source names the transport the request came through (discord, http, cli).
	Source string `json:"source" yaml:"source"`

	// Truncated reports whether the reply hit the display limit.
	Truncated bool `json:"truncated" yaml:"truncated"`

	// At is when the request was handled.
	At time.Time `json:"at" yaml:"at"`
}

// LookupCount is an aggregate row from the lookup log.
type LookupCount struct {
	ID       string    `json:"id" yaml:"id"`
	Count    int       `json:"count" yaml:"count"`
	Found    int       `json:"found" yaml:"found"`
	LastSeen time.Time `json:"last_seen" yaml:"last_seen"`
}
