package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate("s3cr3t", "usr-1", "biz-1", "inventory-pro", 5)
	require.NoError(t, err)

	userID, businessID, err := Parse("s3cr3t", "inventory-pro", tok)
	require.NoError(t, err)
	assert.Equal(t, "usr-1", userID)
	assert.Equal(t, "biz-1", businessID)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := Generate("s3cr3t", "usr-1", "biz-1", "inventory-pro", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", "inventory-pro", tok)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("s3cr3t", "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("s3cr3t", "usr-1", "biz-1", "inventory-pro", -1)
	require.NoError(t, err)
	_, _, err = Parse("s3cr3t", "", expired)
	assert.Error(t, err, "token expirado")

	noBiz, err := Generate("s3cr3t", "usr-1", "", "", 5)
	require.NoError(t, err)
	_, _, err = Parse("s3cr3t", "", noBiz)
	assert.Error(t, err, "sin business_id")
}
