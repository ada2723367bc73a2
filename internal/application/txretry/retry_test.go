package txretry

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDo_RetriesOnceThenSucceeds(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 1, zerolog.Nop(), "test", func() error {
		calls++
		if calls == 1 {
			return domain.ErrConcurrencyConflict
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_SurfacesSecondConflict(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 1, zerolog.Nop(), "test", func() error {
		calls++
		return domain.ErrConcurrencyConflict
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Equal(t, 2, calls)
}

func TestDo_DoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Do(context.Background(), 3, zerolog.Nop(), "test", func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, 5, zerolog.Nop(), "test", func() error {
		calls++
		return domain.ErrConcurrencyConflict
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
