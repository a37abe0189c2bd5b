package document

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/freightops/backend/internal/domain/document"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/freightops/backend/internal/infrastructure/docstore"
	"github.com/freightops/backend/internal/infrastructure/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
	return nil
}

func (h *recordingHandler) EventTypes() []string { return nil }

func newTestService(t *testing.T) (*Service, *docstore.Store, *recordingHandler) {
	t.Helper()
	store := docstore.New()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)
	matcher := domain.NewMatcher(domain.DefaultMatcherConfig())
	return NewService(matcher, store, bus, zap.NewNop(), 0), store, handler
}

func TestService_Upload(t *testing.T) {
	svc, store, handler := newTestService(t)

	doc, err := svc.Upload(context.Background(), "pods/ord-2026-001", "POD-ORD-2026-001.pdf", 4096)
	require.NoError(t, err)

	assert.Equal(t, "ORD-2026-001", doc.ExtractedCode)
	assert.Equal(t, domain.VerdictMatched, doc.Verdict)
	assert.Equal(t, int64(4096), doc.Size)

	h, ok := store.Get("pods/ord-2026-001")
	require.True(t, ok)
	assert.Equal(t, "POD-ORD-2026-001.pdf", h.FileName)
	assert.Equal(t, uint64(1), store.Version())

	require.Len(t, handler.events, 1)
	assert.Equal(t, domain.EventTypePodMatched, handler.events[0].EventType())
}

func TestService_UploadWithoutCode(t *testing.T) {
	svc, _, handler := newTestService(t)

	doc, err := svc.Upload(context.Background(), "pods/misc", "random-scan.pdf", 1024)
	require.NoError(t, err)

	assert.Empty(t, doc.ExtractedCode)
	assert.Equal(t, domain.VerdictNeedsReview, doc.Verdict)

	require.Len(t, handler.events, 1)
	assert.Equal(t, domain.EventTypePodNeedsReview, handler.events[0].EventType())
}

func TestService_UploadValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "", "file.pdf", 10)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Upload(context.Background(), "key", "", 10)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestService_UploadDeterministicAcrossRetries(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "key", "POD-ORD-2026-042.pdf", 10)
	require.NoError(t, err)
	second, err := svc.Upload(ctx, "key", "POD-ORD-2026-042.pdf", 10)
	require.NoError(t, err)

	assert.Equal(t, first.MatchPercent, second.MatchPercent)
	assert.Equal(t, first.Verdict, second.Verdict)
}

func TestService_UploadHonoursCancellation(t *testing.T) {
	store := docstore.New()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	matcher := domain.NewMatcher(domain.DefaultMatcherConfig())
	svc := NewService(matcher, store, bus, zap.NewNop(), 500*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.Upload(ctx, "key", "POD-ORD-2026-001.pdf", 10)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, uint64(0), store.Version())
}

func TestService_RemoveAndVersion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "key", "POD-ORD-2026-001.pdf", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), svc.Version())

	svc.Remove("key")
	_, ok := svc.Get("key")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), svc.Version())
}
