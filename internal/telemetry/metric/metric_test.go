package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fakeEngine struct {
	lsm, vlog int64
}

func (f *fakeEngine) Size() (int64, int64) { return f.lsm, f.vlog }

func TestNewRegistry_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected at least one registered metric family")
	}
}

func TestNewRegistry_NilRegisterer(t *testing.T) {
	r := NewRegistry(nil)
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	r.SnapshotContextsOpen.Inc()
}

func TestRegistry_SnapshotMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistry(reg)

	r.SnapshotContextsOpen.Set(3)
	r.SnapshotReadersOpen.Set(5)
	r.BytesServed.WithLabelValues("data").Add(1024)
	r.FramesServed.WithLabelValues("meta").Inc()

	if got := gaugeValue(t, r.SnapshotContextsOpen); got != 3 {
		t.Errorf("SnapshotContextsOpen = %v, want 3", got)
	}
	if got := counterValue(t, r.BytesServed.WithLabelValues("data")); got != 1024 {
		t.Errorf("BytesServed[data] = %v, want 1024", got)
	}
}

func TestRegistry_WriterMetrics(t *testing.T) {
	r := NewRegistry(nil)

	r.WriterKeysWritten.Add(10)
	r.WriterBytesWritten.Add(2048)
	r.WriterCommits.Inc()
	r.WriterAborts.Inc()

	if got := counterValue(t, r.WriterKeysWritten); got != 10 {
		t.Errorf("WriterKeysWritten = %v, want 10", got)
	}
	if got := counterValue(t, r.WriterCommits); got != 1 {
		t.Errorf("WriterCommits = %v, want 1", got)
	}
}

func TestRegistry_RaftMetrics(t *testing.T) {
	r := NewRegistry(nil)

	r.RaftApplyDuration.Observe(0.01)
	r.RaftCommitIndex.WithLabelValues("7").Set(42)
	r.RaftLeaderChanges.Inc()

	if got := gaugeValue(t, r.RaftCommitIndex.WithLabelValues("7")); got != 42 {
		t.Errorf("RaftCommitIndex[7] = %v, want 42", got)
	}
}

func TestRegistry_HTTPMetrics(t *testing.T) {
	r := NewRegistry(nil)

	r.RequestsTotal.WithLabelValues("GET", "/healthz", "2xx").Inc()
	r.RequestDuration.WithLabelValues("/healthz").Observe(0.002)

	if got := counterValue(t, r.RequestsTotal.WithLabelValues("GET", "/healthz", "2xx")); got != 1 {
		t.Errorf("RequestsTotal = %v, want 1", got)
	}
}

func TestNewCollector_NilEngines(t *testing.T) {
	c := NewCollector(nil, nil)
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected gathered metric families")
	}
}

func TestNewCollector_WithEngines(t *testing.T) {
	data := &fakeEngine{lsm: 100, vlog: 200}
	meta := &fakeEngine{lsm: 10, vlog: 20}
	c := NewCollector(data, meta)

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "regiond_engine_data_lsm_bytes" {
			found = true
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 100 {
				t.Errorf("regiond_engine_data_lsm_bytes = %v, want 100", got)
			}
		}
	}
	if !found {
		t.Error("expected regiond_engine_data_lsm_bytes metric family")
	}
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}
