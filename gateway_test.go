package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"i4.energy/across/fonagw/fona"
)

func testGateway(t *testing.T) *Gateway {
	t.Helper()
	config := &Config{RatePerMin: 30, MaxRetries: 3}
	sessionConfig, err := fona.NewConfigBuilder().
		WithPort("/dev/ttyTEST").
		WithDialer(&fona.ScriptDialer{Transport: fona.NewScriptTransport()}).
		Build()
	require.NoError(t, err)
	return NewGateway(config, fona.New(sessionConfig), discardLogger())
}

func TestGatewayEnqueue(t *testing.T) {
	g := testGateway(t)

	t.Run("Assigns an id when none is supplied", func(t *testing.T) {
		id := g.Enqueue(SendRequest{To: "+32470123456", Message: "hello"})
		assert.NotEmpty(t, id)

		status, ok := g.Status(id)
		require.True(t, ok)
		assert.Equal(t, JobQueued, status.State)
		assert.Equal(t, "+32470123456", status.To)
	})

	t.Run("Keeps a caller-supplied id", func(t *testing.T) {
		id := g.Enqueue(SendRequest{To: "+32470123456", Message: "hello", ID: "job-7"})
		assert.Equal(t, "job-7", id)

		_, ok := g.Status("job-7")
		assert.True(t, ok)
	})

	t.Run("Unknown id has no status", func(t *testing.T) {
		_, ok := g.Status("nope")
		assert.False(t, ok)
	})
}

func TestRateAllow(t *testing.T) {
	r := NewRate(3)

	for i := 0; i < 3; i++ {
		assert.True(t, r.Allow(), "send %d should be allowed", i)
	}
	assert.False(t, r.Allow(), "window capacity exceeded")
}

func TestRateWindowSlides(t *testing.T) {
	r := NewRate(1)
	require.True(t, r.Allow())
	require.False(t, r.Allow())

	// Age the recorded send out of the window.
	r.win = []time.Time{time.Now().Add(-2 * time.Minute)}
	assert.True(t, r.Allow())
}
