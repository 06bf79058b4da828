package results

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kmc-sim/kmc-sim/config"
	"github.com/kmc-sim/kmc-sim/kmc"
	"github.com/kmc-sim/kmc-sim/worker"
)

func TestWriteSummaryExcitonDiffusion(t *testing.T) {
	outcomes := []worker.Outcome{
		{Index: 0, Acc: &kmc.Accumulators{SingletsRecombined: 3, DiffusionLengthsNM: []float64{1, 2}}},
		{Index: 1, Acc: &kmc.Accumulators{TripletsRecombined: 2, DiffusionLengthsNM: []float64{3}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, outcomes, config.TestSelection{ExcitonDiffusion: true}, 2, 2*time.Minute))
	out := buf.String()
	require.Contains(t, out, "2 workers")
	require.Contains(t, out, "5 total excitons tested")
}

func TestWriteSummaryReportsErrors(t *testing.T) {
	outcomes := []worker.Outcome{
		{Index: 0, Acc: &kmc.Accumulators{}},
		{Index: 1, Err: assertErr},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, outcomes, config.TestSelection{Dynamics: true}, 2, time.Minute))
	require.Contains(t, buf.String(), "Errors occurred")
}

var assertErr = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }
