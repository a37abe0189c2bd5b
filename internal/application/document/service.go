package document

import (
	"context"
	"time"

	"github.com/freightops/backend/internal/domain/document"
	"github.com/freightops/backend/internal/domain/shared"
	"github.com/freightops/backend/internal/infrastructure/docstore"
	"go.uber.org/zap"
)

// Service handles POD uploads: it applies the simulated OCR delay, runs
// the matcher, records the file handle in the document store and
// publishes the match outcome on the event bus
type Service struct {
	matcher  *document.Matcher
	store    *docstore.Store
	bus      shared.EventPublisher
	logger   *zap.Logger
	ocrDelay time.Duration
}

// NewService creates a document service
func NewService(matcher *document.Matcher, store *docstore.Store, bus shared.EventPublisher, logger *zap.Logger, ocrDelay time.Duration) *Service {
	return &Service{
		matcher:  matcher,
		store:    store,
		bus:      bus,
		logger:   logger,
		ocrDelay: ocrDelay,
	}
}

// Upload matches an uploaded POD file and stores its handle under the
// given key. The returned PodDocument is immutable; re-uploading the
// same key produces a new one.
func (s *Service) Upload(ctx context.Context, key, fileName string, size int64) (document.PodDocument, error) {
	if key == "" || fileName == "" {
		return document.PodDocument{}, shared.ErrInvalidInput
	}

	// Simulated OCR is the only suspension point in the matching path
	if err := sleepCtx(ctx, s.ocrDelay); err != nil {
		return document.PodDocument{}, err
	}

	doc := s.matcher.Match(fileName)
	doc.Size = size

	s.store.Set(key, docstore.Handle{
		FileName:   fileName,
		Size:       size,
		UploadedAt: doc.UploadedAt,
	})

	if err := s.bus.Publish(ctx, document.NewPodMatchedEvent(key, doc)); err != nil {
		s.logger.Error("failed to publish match event", zap.Error(err))
	}

	s.logger.Info("pod document matched",
		zap.String("key", key),
		zap.String("file_name", fileName),
		zap.String("extracted_code", doc.ExtractedCode),
		zap.Int("match_percent", doc.MatchPercent),
		zap.String("verdict", string(doc.Verdict)),
	)

	return doc, nil
}

// Get returns the stored handle for a key
func (s *Service) Get(key string) (docstore.Handle, bool) {
	return s.store.Get(key)
}

// Remove deletes the stored handle for a key. Idempotent.
func (s *Service) Remove(key string) {
	s.store.Remove(key)
}

// Version returns the store's change counter
func (s *Service) Version() uint64 {
	return s.store.Version()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
