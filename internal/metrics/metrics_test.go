package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/markers/:id", "404"))

	RecordHTTPRequest("GET", "/api/markers/:id", 404, 5*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/markers/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRecordAuth(t *testing.T) {
	ok := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "success"))
	failed := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure"))

	RecordAuth("login", nil)
	RecordAuth("login", errors.New("bad password"))

	assert.Equal(t, ok+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure")))
}
