package kmc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForSubsystemIsDeterministicAndCached(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	a := rng.ForSubsystem(SubsystemGeneration)
	b := rng.ForSubsystem(SubsystemGeneration)
	require.Same(t, a, b, "repeated calls for the same subsystem return the cached stream")

	rerun := NewPartitionedRNG(NewSimulationKey(42))
	require.Equal(t, a.Float64(), rerun.ForSubsystem(SubsystemGeneration).Float64())
}

func TestForSubsystemIsolatesStreamsByName(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	gen := rng.ForSubsystem(SubsystemGeneration).Float64()
	wait := rng.ForSubsystem(SubsystemWaitTime).Float64()
	require.NotEqual(t, gen, wait)
}

func TestDisorderSubsystemUsesMasterSeedDirectly(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(7))
	b := NewPartitionedRNG(NewSimulationKey(7))
	require.Equal(t, a.ForSubsystem(SubsystemDisorder).Float64(), b.ForSubsystem(SubsystemDisorder).Float64())

	direct := rand.New(rand.NewSource(7))
	require.Equal(t, direct.Float64(), NewPartitionedRNG(NewSimulationKey(7)).ForSubsystem(SubsystemDisorder).Float64())
}

func TestSubsystemParticleIsPerID(t *testing.T) {
	require.NotEqual(t, SubsystemParticle(1), SubsystemParticle(2))
}

func TestKeyReturnsOriginalSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(99))
	require.Equal(t, SimulationKey(99), rng.Key())
}
