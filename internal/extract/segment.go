package extract

import (
	"regexp"

	"github.com/mrmiscellaneous91/dsa-automation/internal/entity"
)

// foldIndex locates the first case-insensitive occurrence of substr in s
// and returns its byte bounds within s itself. Folding can change byte
// lengths (U+0130 lowers to a shorter sequence), so indexes taken from a
// lowered copy are not safe to slice the original with; the bounds returned
// here always are. Returns (-1, -1) when substr is absent.
func foldIndex(s, substr string) (start, end int) {
	if substr == "" {
		return -1, -1
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(substr))
	if err != nil {
		return -1, -1
	}
	loc := re.FindStringIndex(s)
	if loc == nil {
		return -1, -1
	}
	return loc[0], loc[1]
}

// Segment splits a combined text blob into body and attachment text at the
// first occurrence of the literal marker (case-insensitive). When the marker
// is absent the whole blob is body and attachment text is empty.
//
// Round-trip invariant: for body and attachment not themselves containing
// the marker, Segment(body+marker+attachment, marker) == (body, attachment).
func Segment(combined, marker string) (body, attachmentText string) {
	if marker == "" {
		return combined, ""
	}
	start, end := foldIndex(combined, marker)
	if start < 0 {
		return combined, ""
	}
	return combined[:start], combined[end:]
}

// SegmentEmail derives the segmented content for one inbound email.
// This must run before any extractor that restricts its search space: name
// extraction ignores attachment text to avoid picking up supplier-side names
// from tabular order data.
func SegmentEmail(in entity.InboundEmail, r *Rules) entity.EmailContent {
	body, att := Segment(in.CombinedBody, r.AttachmentMarker)
	return entity.EmailContent{
		Subject:        in.Subject,
		SenderAddress:  in.SenderAddress,
		Body:           body,
		AttachmentText: att,
	}
}
