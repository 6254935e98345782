package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertMetricLine matches name{...labels...} value, tolerating the OTel scope
// labels the Prometheus exporter adds.
func assertMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusSuccess, StatusOf(nil))
	assert.Equal(t, StatusError, StatusOf(errors.New("boom")))
}

func TestBusinessMetrics_Export(t *testing.T) {
	provider, err := NewProvider("vk_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "vk_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordOperation(ctx, "auth", "token_issue", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "token_issue", StatusSuccess)
	bm.RecordOperation(ctx, "auth", "token_issue", StatusError)
	bm.RecordOperation(ctx, "secrets", "secret_get", StatusSuccess)
	bm.RecordDuration(ctx, "auth", "token_issue", 40*time.Millisecond, StatusSuccess)
	bm.RecordDuration(ctx, "auth", "token_issue", 60*time.Millisecond, StatusSuccess)

	output := scrape(t, provider)

	assertMetricLine(t, output, `vk_test_operations_total`,
		`domain="auth".*operation="token_issue".*status="success"`, `2`)
	assertMetricLine(t, output, `vk_test_operations_total`,
		`domain="auth".*operation="token_issue".*status="error"`, `1`)
	assertMetricLine(t, output, `vk_test_operations_total`,
		`domain="secrets".*operation="secret_get".*status="success"`, `1`)
	assertMetricLine(t, output, `vk_test_operation_duration_seconds_count`,
		`domain="auth".*operation="token_issue".*status="success"`, `2`)
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.IsType(t, &NoOpBusinessMetrics{}, bm)

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "secrets", "secret_create", StatusSuccess)
		bm.RecordDuration(context.Background(), "secrets", "secret_create", time.Millisecond, StatusError)
	})
}
