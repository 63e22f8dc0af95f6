package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-connection-string://")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to database")
}

func TestStore_CloseNilPool(t *testing.T) {
	s := &Store{}
	assert.NotPanics(t, func() { s.Close() })
}
