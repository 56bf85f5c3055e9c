package metrics

import (
	"testing"

	coremetrics "github.com/etna-dt/twinhub/core/metrics"
)

type recordSink struct {
	count int
}

func (r *recordSink) RecordCommandResult([]coremetrics.CommandResult) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordCommandResult(nil); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("results not forwarded")
	}
}
