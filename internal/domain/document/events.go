package document

import (
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants, dot-namespaced
const (
	EventTypePodMatched     = "pod.matched"
	EventTypePodNeedsReview = "pod.needs_review"
)

// PodMatchedEvent is raised after a POD upload has been matched
type PodMatchedEvent struct {
	shared.BaseDomainEvent
}

// NewPodMatchedEvent creates the event for a freshly matched document.
// The event type reflects the verdict.
func NewPodMatchedEvent(key string, doc PodDocument) *PodMatchedEvent {
	eventType := EventTypePodMatched
	if doc.Verdict == VerdictNeedsReview {
		eventType = EventTypePodNeedsReview
	}
	return &PodMatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, uuid.Nil, map[string]any{
			"key":            key,
			"file_name":      doc.FileName,
			"extracted_code": doc.ExtractedCode,
			"match_percent":  doc.MatchPercent,
			"verdict":        string(doc.Verdict),
		}),
	}
}
