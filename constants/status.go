package constants

// RequestStatus is the canonical status for assembled provisioning requests.
type RequestStatus string

// Stable values (store these exact strings in DB).
const (
	RequestStatusParsed      RequestStatus = "PARSED"       // every field resolved
	RequestStatusNeedsReview RequestStatus = "NEEDS_REVIEW" // at least one sentinel present
)

// Sentinel values written into string fields when an extractor finds nothing.
// Absence is never represented by an empty field; downstream consumers index
// by field presence.
const (
	PONotFound   = "PO NOT FOUND - REVIEW"
	NameNotFound = "NAME NOT FOUND - REVIEW"

	// DefaultContactName is used when no provider contact could be determined.
	DefaultContactName = "Team"
)

// Source tags for extracted field values.
const (
	SourceAI    = "ai"    // model-derived
	SourceRegex = "regex" // pattern-derived
)
