package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, domain.ErrDuplicate},
		{"serialization", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrencyConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConcurrencyConflict},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, domain.ErrConcurrencyConflict},
		{"malformed uuid", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", tt.err), tt.want)
		})
	}

	other := errors.New("conexión cerrada")
	got := mapError("create stock", other)
	assert.ErrorIs(t, got, other)
	assert.NotErrorIs(t, got, domain.ErrDuplicate)
	assert.EqualError(t, got, "create stock: conexión cerrada")
	assert.NoError(t, mapError("op", nil))
}
