package retry

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spetersoncode/relay"
)

// mockAPIError simulates a backend error with a status code.
type mockAPIError struct {
	code int
	msg  string
}

func (e *mockAPIError) Error() string   { return e.msg }
func (e *mockAPIError) StatusCode() int { return e.code }

// mockNetError simulates a network error with timeout/temporary flags.
type mockNetError struct {
	msg       string
	timeout   bool
	temporary bool
}

func (e *mockNetError) Error() string   { return e.msg }
func (e *mockNetError) Timeout() bool   { return e.timeout }
func (e *mockNetError) Temporary() bool { return e.temporary }

var _ net.Error = (*mockNetError)(nil)

func TestIsTransientStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected bool
	}{
		{200, false},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
		{429, true}, // Rate limit
		{500, true}, // Internal server error
		{502, true}, // Bad gateway
		{503, true}, // Service unavailable
		{504, true}, // Gateway timeout
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, isTransientStatusCode(tt.code))
		})
	}
}

func TestIsTransientCategorizedError(t *testing.T) {
	t.Run("explicit transient wins", func(t *testing.T) {
		err := relay.NewTransientError("overloaded", 503, nil)
		assert.True(t, IsTransient(err))
	})

	t.Run("explicit permanent wins even with transient-looking message", func(t *testing.T) {
		err := relay.NewPermanentError("timeout parsing response", 0, nil)
		assert.False(t, IsTransient(err))
	})

	t.Run("categorization survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("dispatch: %w", relay.NewTransientError("rate limited", 429, nil))
		assert.True(t, IsTransient(err))
	})
}

func TestIsTransientStatusCoder(t *testing.T) {
	assert.True(t, IsTransient(&mockAPIError{code: 500, msg: "internal"}))
	assert.True(t, IsTransient(&mockAPIError{code: 429, msg: "slow down"}))
	assert.False(t, IsTransient(&mockAPIError{code: 404, msg: "missing"}))
}

func TestIsTransientNetworkErrors(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.False(t, IsTransient(nil))
	})

	t.Run("timeout", func(t *testing.T) {
		assert.True(t, IsTransient(&mockNetError{msg: "i/o deadline exceeded", timeout: true}))
	})

	t.Run("url error wrapping timeout", func(t *testing.T) {
		err := &url.Error{Op: "Post", URL: "http://backend/chat", Err: &mockNetError{msg: "tcp dial", timeout: true}}
		assert.True(t, IsTransient(err))
	})

	t.Run("connection reset", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNRESET))
	})

	t.Run("connection refused", func(t *testing.T) {
		assert.True(t, IsTransient(syscall.ECONNREFUSED))
	})

	t.Run("message pattern fallback", func(t *testing.T) {
		assert.True(t, IsTransient(errors.New("upstream returned 502 bad gateway")))
	})

	t.Run("plain error is not transient", func(t *testing.T) {
		assert.False(t, IsTransient(errors.New("invalid persona payload")))
	})
}
