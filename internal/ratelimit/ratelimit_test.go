package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	limiter := New(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("client-a"), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow("client-a"))
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter := New(1, 1)

	assert.True(t, limiter.Allow("client-a"))
	assert.False(t, limiter.Allow("client-a"))

	// A different key has its own bucket.
	assert.True(t, limiter.Allow("client-b"))
}

func TestAllow_ConcurrentKeys(t *testing.T) {
	limiter := New(100, 10)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				limiter.Allow("shared")
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
