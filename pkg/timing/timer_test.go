package timing

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStopwatch_Elapsed(t *testing.T) {
	sw := NewStopwatch()
	time.Sleep(2 * time.Millisecond)
	if sw.Elapsed() <= 0 {
		t.Fatalf("expected positive elapsed duration")
	}
	sw.Reset()
	if sw.Elapsed() >= 2*time.Millisecond {
		t.Fatalf("reset should restart the clock")
	}
}

func TestExecutionTimer_StartFinishReport(t *testing.T) {
	timer := NewExecutionTimer("lpsreach")
	timer.Start("exploration")
	time.Sleep(1 * time.Millisecond)
	timer.Finish("exploration")

	var buf bytes.Buffer
	require.NoError(t, timer.WriteReportTo(&buf))

	var docs []struct {
		Tool   string             `yaml:"tool"`
		Timing map[string]float64 `yaml:"timing"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "lpsreach", docs[0].Tool)
	assert.Greater(t, docs[0].Timing["exploration"], 0.0)
}

func TestExecutionTimer_DoubleStartPanics(t *testing.T) {
	timer := NewExecutionTimer("t")
	timer.Start("p")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on double start")
		}
	}()
	timer.Start("p")
}

func TestExecutionTimer_FinishWithoutStartPanics(t *testing.T) {
	timer := NewExecutionTimer("t")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on finish without start")
		}
	}()
	timer.Finish("never-started")
}

func TestExecutionTimer_Time(t *testing.T) {
	timer := NewExecutionTimer("t")
	ran := false
	timer.Time("phase", func() { ran = true })
	assert.True(t, ran)

	var buf bytes.Buffer
	require.NoError(t, timer.WriteReportTo(&buf))
	assert.Contains(t, buf.String(), "phase:")
}
