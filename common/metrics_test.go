package common_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/guarzo/nequiapi/common"
)

func TestMetrics_Record(t *testing.T) {
	m, err := common.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.RecordAuth(common.ResultSuccess)
	m.RecordAuth(common.ResultCached)
	m.RecordAuth(common.ResultCached)
	m.RecordGateway("cashIn", nil, time.Millisecond)
	m.RecordGateway("cashIn", errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(m.AuthRequests.WithLabelValues(common.ResultCached)); got != 2 {
		t.Errorf("expected 2 cached, got %v", got)
	}
	if got := testutil.ToFloat64(m.GatewayRequests.WithLabelValues("cashIn", common.ResultFailure)); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
}

func TestMetrics_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := common.NewMetrics(reg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := common.NewMetrics(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *common.Metrics
	m.RecordAuth(common.ResultSuccess)
	m.RecordGateway("cashIn", nil, time.Second)
}
