package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc) (int, statusResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	endpoint(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var body statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	svc := New()

	// Not ready until the gate opens.
	code, body := probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)

	svc.SetReady(true)
	code, body = probe(t, svc.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.True(t, svc.IsReady())

	// Draining flips it back.
	svc.SetReady(false)
	assert.False(t, svc.IsReady())
}

func TestFailureThreshold(t *testing.T) {
	svc := New()
	failing := func(_ context.Context) error { return errors.New("db down") }
	svc.AddReadinessCheck("db", time.Second, failing)
	svc.SetReady(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, time.Hour) // runs once immediately; ticker never fires
	defer svc.Stop()

	// One failure is not enough to flip the check.
	require.Eventually(t, func() bool {
		code, _ := probe(t, svc.ReadyEndpoint)
		return code == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	// Run the check to the threshold by restarting the scheduler.
	svc.Stop()
	svc.Start(ctx, time.Hour)
	svc.Stop()
	svc.Start(ctx, time.Hour)

	require.Eventually(t, func() bool {
		code, body := probe(t, svc.ReadyEndpoint)
		return code == http.StatusServiceUnavailable && body.Checks["db"] == "db down"
	}, time.Second, 10*time.Millisecond)
	assert.False(t, svc.IsReady())
}

func TestRecoveryOnFirstSuccess(t *testing.T) {
	c := newCheck("flaky", time.Second, func(_ context.Context) error {
		return errors.New("boom")
	})
	ctx := context.Background()

	for i := 0; i < failureThreshold; i++ {
		c.run(ctx)
	}
	assert.False(t, c.healthy.Load())

	c.fn = func(_ context.Context) error { return nil }
	c.run(ctx)
	assert.True(t, c.healthy.Load(), "one success must recover the check")
	assert.Equal(t, 0, c.fails)
}

func TestLiveEndpointReportsFailures(t *testing.T) {
	svc := New()
	svc.AddLivenessCheck("stuck", time.Second, func(_ context.Context) error {
		return errors.New("deadlock suspected")
	})

	// Drive the check past the threshold directly.
	svc.mu.RLock()
	c := svc.liveness[0]
	svc.mu.RUnlock()
	for i := 0; i < failureThreshold; i++ {
		c.run(context.Background())
	}

	code, body := probe(t, svc.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "deadlock suspected", body.Checks["stuck"])
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
