package clock

import (
	"fmt"
	"time"
	_ "time/tzdata" // contenedores sin /usr/share/zoneinfo
)

// DefaultTimezone zona horaria de negocio por defecto (Ecuador continental).
const DefaultTimezone = "America/Guayaquil"

// Clock fuente de tiempo inyectable.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Business reloj del sistema expresado en la zona horaria de la empresa.
type Business struct {
	loc *time.Location
}

// NewBusiness carga la zona horaria; vacía usa DefaultTimezone.
func NewBusiness(timezone string) (*Business, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", timezone, err)
	}
	return &Business{loc: loc}, nil
}

func (b *Business) Now() time.Time           { return time.Now().In(b.loc) }
func (b *Business) Location() *time.Location { return b.loc }

// Fixed reloj detenido, para pruebas.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

func (f Fixed) Location() *time.Location { return f.At.Location() }
