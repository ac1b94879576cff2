package ai

import (
	"context"
	"errors"
	"sync"

	"chatmood/backend/internal/models"
	"chatmood/backend/pkg/logger"
)

var (
	// ErrModelNotReady is returned when Classify is called before a
	// successful Initialize
	ErrModelNotReady = errors.New("sentiment model not initialized")
	// ErrInitializing is returned when an initialization is already in
	// flight; the second caller must not race the first
	ErrInitializing = errors.New("sentiment model initialization already in progress")
)

// ModelScorer is the capability the bridge guards
type ModelScorer interface {
	Health(ctx context.Context) error
	Classify(ctx context.Context, text string) (models.Sentiment, error)
}

// Bridge is the process-wide handle to the external sentiment model. The
// model is prepared once and reused for every corpus; the handle lives for
// the process lifetime and holds no other external resources.
type Bridge struct {
	mu           sync.Mutex
	scorer       ModelScorer
	ready        bool
	initializing bool
	log          *logger.Logger
}

// NewBridge creates an uninitialized bridge around a scorer capability
func NewBridge(scorer ModelScorer, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Bridge{scorer: scorer, log: log}
}

// Initialize prepares the model handle. Repeated calls after success are
// no-ops; a call while another initialization is in flight is rejected with
// ErrInitializing instead of racing it.
func (b *Bridge) Initialize(ctx context.Context, onProgress func(models.Progress)) error {
	b.mu.Lock()
	if b.ready {
		b.mu.Unlock()
		return nil
	}
	if b.initializing {
		b.mu.Unlock()
		return ErrInitializing
	}
	b.initializing = true
	b.mu.Unlock()

	report := func(current int, status string) {
		if onProgress != nil {
			onProgress(models.Progress{Current: current, Total: 100, Status: status})
		}
	}

	report(0, "Loading sentiment model...")
	err := b.scorer.Health(ctx)

	b.mu.Lock()
	b.initializing = false
	if err == nil {
		b.ready = true
	}
	b.mu.Unlock()

	if err != nil {
		b.log.LogError(err, "sentiment model initialization failed")
		return err
	}

	report(100, "Model ready")
	b.log.Info("sentiment model ready")
	return nil
}

// Ready reports whether Classify calls are accepted
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Classify scores one text through the guarded capability
func (b *Bridge) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	if !b.Ready() {
		return models.Sentiment{}, ErrModelNotReady
	}
	return b.scorer.Classify(ctx, text)
}
