package txretry

import (
	"context"
	"errors"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/rs/zerolog"
)

// Do ejecuta fn y la repite hasta "retries" veces mientras falle con domain.ErrConcurrencyConflict.
// fn debe ser una unidad atómica completa (abrir tx, leer, mutar, persistir) para que el reintento relea el estado.
func Do(ctx context.Context, retries int, log zerolog.Logger, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= retries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn().Str("op", op).Int("attempt", attempt+1).Msg("conflicto de concurrencia, reintentando")
	}
}
