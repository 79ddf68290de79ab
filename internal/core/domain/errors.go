package domain

import "errors"

// Parse/classify/convert errors (§7). All are local and non-fatal: Update
// never propagates them to the caller, it records a diagnostic and leaves
// FilterState unchanged or in a consistent partial state.
var (
	ErrTruncatedRadioTap    = errors.New("radiotap: truncated header")
	ErrUnknownVersion       = errors.New("radiotap: unknown version")
	ErrTruncatedBeacon      = errors.New("beacon: truncated frame")
	ErrTruncated80211Header = errors.New("80211: truncated header")
	ErrUnknownSubtype       = errors.New("80211: unknown subtype")
	ErrFrameTooShort        = errors.New("convert: frame too short")
	ErrNonConvertibleSubtype = errors.New("convert: non-convertible subtype")
)
