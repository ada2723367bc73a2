package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusiness_DefaultTimezone(t *testing.T) {
	c, err := NewBusiness("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, c.Location().String())
	assert.Equal(t, DefaultTimezone, c.Now().Location().String())
}

func TestNewBusiness_InvalidTimezone(t *testing.T) {
	_, err := NewBusiness("America/NoExiste")
	assert.Error(t, err)
}

func TestFixed(t *testing.T) {
	at := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	c := Fixed{At: at}
	assert.Equal(t, at, c.Now())
	assert.Equal(t, time.UTC, c.Location())
}
