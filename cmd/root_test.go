package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kmc-sim/kmc-sim/config"
	"github.com/kmc-sim/kmc-sim/kmc"
	"github.com/kmc-sim/kmc-sim/kmc/drivers"
)

func TestRunCmdFlagsRegistered(t *testing.T) {
	for _, name := range []string{"params", "config", "seed", "workers", "log", "results"} {
		flag := runCmd.Flags().Lookup(name)
		require.NotNilf(t, flag, "%s flag must be registered", name)
	}
}

func TestDriverForSelectsExactlyOneDriver(t *testing.T) {
	d := driverFor(config.TestSelection{ToF: true, ToFPolaronKind: kmc.KindHolePolaron})()
	_, ok := d.(*drivers.TimeOfFlight)
	require.True(t, ok, "ToF selection must build a *drivers.TimeOfFlight")
}

func TestTransientAxisNilForExcitonDiffusion(t *testing.T) {
	require.Nil(t, transientAxis(config.TestSelection{ExcitonDiffusion: true}))
}

func TestTransientAxisBuiltForToF(t *testing.T) {
	axis := transientAxis(config.TestSelection{ToF: true, ToFTransientStart: 1e-9, ToFExpirySeconds: 1e-6, ToFPtsPerDecade: 5})
	require.NotNil(t, axis)
	require.Greater(t, axis.NumBins(), 0)
}
