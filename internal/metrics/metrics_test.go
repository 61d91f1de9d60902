package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("GET", "/api/wows", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/wows", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)
	m.IncLogin(LoginFailure)
	m.IncWrite(OpDelete)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/wows", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues(LoginFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writes.WithLabelValues(OpDelete)))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Second)
	m.IncLogin(LoginSuccess)
	m.IncWrite(OpCreate)

	empty := New(nil)
	empty.IncWrite(OpUpdate)
}
