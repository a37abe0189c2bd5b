package document

import (
	"time"
)

// MatchVerdict is the binary classification derived from a confidence score
type MatchVerdict string

const (
	VerdictMatched     MatchVerdict = "MATCHED"
	VerdictNeedsReview MatchVerdict = "NEEDS_REVIEW"
)

// MatchThreshold is the confidence score at or above which a document is
// considered matched. The verdict has no other derivation path.
const MatchThreshold = 80

// VerdictForScore derives the match verdict from a confidence score
func VerdictForScore(score int) MatchVerdict {
	if score >= MatchThreshold {
		return VerdictMatched
	}
	return VerdictNeedsReview
}

// PodDocument is an uploaded proof-of-delivery file reference plus the
// fields derived from it at upload time. It is immutable once produced;
// a new upload produces a new PodDocument.
type PodDocument struct {
	FileName      string       `json:"file_name"`
	Size          int64        `json:"size,omitempty"`
	ExtractedCode string       `json:"extracted_code,omitempty"`
	MatchPercent  int          `json:"match_percent"`
	Verdict       MatchVerdict `json:"verdict"`
	UploadedAt    time.Time    `json:"uploaded_at"`
}

// Matched returns true if the document's verdict is Matched
func (d PodDocument) Matched() bool {
	return d.Verdict == VerdictMatched
}
