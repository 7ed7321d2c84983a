package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLevelObserver(t *testing.T) {
	var o LevelObserver

	before := testutil.ToFloat64(EquivalenceRunsTotal.WithLabelValues("taxon", "ok"))
	o.ObserveRun("taxon", "ok")
	if got := testutil.ToFloat64(EquivalenceRunsTotal.WithLabelValues("taxon", "ok")); got != before+1 {
		t.Errorf("runs = %v, want %v", got, before+1)
	}

	o.ObserveLevel("protein_kegg", 12, 3*time.Millisecond)
	if testutil.CollectAndCount(EquivalenceLevelDuration) == 0 {
		t.Error("expected level duration observation")
	}
	if testutil.CollectAndCount(EquivalenceLevelMatches) == 0 {
		t.Error("expected level match observation")
	}
}

func TestRegisterQueryMetrics_Idempotent(t *testing.T) {
	RegisterQueryMetrics()
	RegisterQueryMetrics()
}

func TestStoreObserver(t *testing.T) {
	var o StoreObserver
	o.ObserveCommand("ft.search", 2*time.Millisecond, true)
	o.ObserveCommand("FT.SEARCH", time.Millisecond, false)

	if got := testutil.ToFloat64(StoreCommandsTotal.WithLabelValues("FT.SEARCH", "ok")); got < 1 {
		t.Errorf("ok commands = %v", got)
	}
	if got := testutil.ToFloat64(StoreCommandsTotal.WithLabelValues("FT.SEARCH", "error")); got < 1 {
		t.Errorf("failed commands = %v", got)
	}
}
