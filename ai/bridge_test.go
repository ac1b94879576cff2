package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatmood/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScorer scripts the model capability
type fakeScorer struct {
	healthErr error
	healthing chan struct{} // when set, Health blocks until release is closed
	release   chan struct{}
	verdict   models.Sentiment
}

func (f *fakeScorer) Health(ctx context.Context) error {
	if f.healthing != nil {
		close(f.healthing)
		<-f.release
	}
	return f.healthErr
}

func (f *fakeScorer) Classify(ctx context.Context, text string) (models.Sentiment, error) {
	return f.verdict, nil
}

func TestBridgeClassifyBeforeInitialize(t *testing.T) {
	b := NewBridge(&fakeScorer{}, nil)
	assert.False(t, b.Ready())

	_, err := b.Classify(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrModelNotReady)
}

func TestBridgeInitialize(t *testing.T) {
	scorer := &fakeScorer{verdict: models.Sentiment{Label: models.LabelPositive, Score: 0.9}}
	b := NewBridge(scorer, nil)

	var events []models.Progress
	err := b.Initialize(context.Background(), func(p models.Progress) {
		events = append(events, p)
	})
	require.NoError(t, err)
	assert.True(t, b.Ready())

	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Current)
	assert.Equal(t, 100, events[1].Current)

	verdict, err := b.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, models.LabelPositive, verdict.Label)

	// Repeat initialization is a no-op
	require.NoError(t, b.Initialize(context.Background(), nil))
}

func TestBridgeInitializeFailure(t *testing.T) {
	b := NewBridge(&fakeScorer{healthErr: errors.New("connection refused")}, nil)

	err := b.Initialize(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, b.Ready())

	// A later attempt may succeed once the service comes up
	b2 := NewBridge(&fakeScorer{}, nil)
	require.NoError(t, b2.Initialize(context.Background(), nil))
	assert.True(t, b2.Ready())
}

func TestBridgeRejectsConcurrentInitialize(t *testing.T) {
	scorer := &fakeScorer{
		healthing: make(chan struct{}),
		release:   make(chan struct{}),
	}
	b := NewBridge(scorer, nil)

	done := make(chan error, 1)
	go func() {
		done <- b.Initialize(context.Background(), nil)
	}()

	// Wait until the first call is inside the health probe
	<-scorer.healthing

	err := b.Initialize(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInitializing)

	close(scorer.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("first initialization never finished")
	}
	assert.True(t, b.Ready())
}
