package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/sellsyctl/sellsy"
)

func TestRecorder_ObserveCall(t *testing.T) {
	r := NewRecorder()

	r.ObserveCall("Infos.getInfos", sellsy.OutcomeSuccess, 120*time.Millisecond)
	r.ObserveCall("Infos.getInfos", sellsy.OutcomeSuccess, 80*time.Millisecond)
	r.ObserveCall("Client.getList", sellsy.OutcomeAPIError, 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.calls.WithLabelValues("Infos.getInfos", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("Client.getList", "api_error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.calls.WithLabelValues("Client.getList", "request_failure")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveCall("Infos.getInfos", sellsy.OutcomeRequestFailure, time.Second)

	path := filepath.Join(t.TempDir(), "sellsy.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sellsy_api_calls_total{method="Infos.getInfos",outcome="request_failure"} 1`)
	assert.Contains(t, string(data), "sellsy_api_call_duration_seconds_bucket")
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.ObserveCall("Infos.getInfos", sellsy.OutcomeSuccess, time.Millisecond)

	count, err := testutil.GatherAndCount(a.Registry(), "sellsy_api_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(b.Registry(), "sellsy_api_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
