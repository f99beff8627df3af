package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostgresDB_EmptyDSN(t *testing.T) {
	_, err := NewPostgresDB(context.Background(), " ", PoolOptions{})
	assert.EqualError(t, err, "db: empty DSN")
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 10, orDefault(-3, 10))
	assert.Equal(t, 4, orDefault(4, 10))
}
