// Package model defines the core domain models used throughout the application.
package model

import "time"

// SourceType identifies where a raw message came from.
type SourceType string

// Message source constants.
const (
	SourceSMS          SourceType = "sms"
	SourceNotification SourceType = "notification"
	SourceEmail        SourceType = "email"
	SourceManual       SourceType = "manual"
)

// Platform identifies the mobile platform that produced an event.
type Platform string

// Platform constants.
const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// UnifiedMessage is the common envelope for any inbound text event,
// regardless of source. It is transient and never persisted.
type UnifiedMessage struct {
	Timestamp        time.Time
	Metadata         map[string]string
	ID               string
	RawText          string
	SenderIdentifier string
	SourceType       SourceType
	Platform         Platform
	ConfidenceHint   float64
}

// ProcessingMetadata is the audit trail of what normalization stripped or
// transformed. Diagnostic only; never used downstream for matching.
type ProcessingMetadata struct {
	NoiseRemoved   []string
	Normalizations []string
}

// NormalizedMessage is a UnifiedMessage after noise stripping and token
// standardization. CleanText is what detection operates on; OriginalRawText
// preserves the untouched input.
type NormalizedMessage struct {
	UnifiedMessage
	CleanText          string
	OriginalRawText    string
	ProcessingMetadata ProcessingMetadata
}
