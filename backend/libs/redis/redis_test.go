package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{Addr: "  "})
	assert.ErrorIs(t, err, ErrEmptyAddr)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "redis: ping 127.0.0.1:1")
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{ReadTimeout: time.Second}.withDefaults()
	assert.Equal(t, 5*time.Second, o.DialTimeout)
	assert.Equal(t, time.Second, o.ReadTimeout)
	assert.Equal(t, 3*time.Second, o.WriteTimeout)
}
