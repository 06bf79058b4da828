package kmc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func TestNewLatticeNeatIsAllDonor(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 2, W: 2, H: 2, UnitNM: 1, Architecture: ArchitectureNeat}, constRand(0))
	require.Equal(t, 8, lat.NumSites())
	for i := 0; i < lat.NumSites(); i++ {
		require.Equal(t, Donor, lat.Site(SiteID(i)).Type)
	}
}

func TestNewLatticeBilayerSplitsByThickness(t *testing.T) {
	lat := NewLattice(LatticeConfig{
		L: 1, W: 1, H: 4, UnitNM: 1,
		Architecture: ArchitectureBilayer, DonorThickness: 2,
	}, constRand(0))
	id, ok := lat.SiteAt(0, 0, 1)
	require.True(t, ok)
	require.Equal(t, Donor, lat.Site(id).Type)
	id, ok = lat.SiteAt(0, 0, 2)
	require.True(t, ok)
	require.Equal(t, Acceptor, lat.Site(id).Type)
}

func TestNewLatticeBlendUsesRNGThreshold(t *testing.T) {
	lat := NewLattice(LatticeConfig{
		L: 1, W: 1, H: 2, UnitNM: 1,
		Architecture: ArchitectureBlend, AcceptorConc: 0.5,
	}, constRand(0.9)) // always >= threshold -> donor
	for i := 0; i < lat.NumSites(); i++ {
		require.Equal(t, Donor, lat.Site(SiteID(i)).Type)
	}
}

func TestSiteAtWrapsOnPeriodicAxis(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 3, W: 3, H: 3, UnitNM: 1, PeriodicX: true}, constRand(0))
	id, ok := lat.SiteAt(-1, 0, 0)
	require.True(t, ok)
	want, _ := lat.SiteAt(2, 0, 0)
	require.Equal(t, want, id)
}

func TestSiteAtRejectsOutOfRangeOnNonPeriodicAxis(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 3, W: 3, H: 3, UnitNM: 1}, constRand(0))
	_, ok := lat.SiteAt(-1, 0, 0)
	require.False(t, ok)
	_, ok = lat.SiteAt(3, 0, 0)
	require.False(t, ok)
}

func TestIsElectrodeOnlyWhenZNonPeriodic(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 2, W: 2, H: 3, UnitNM: 1}, constRand(0))
	bottom, _ := lat.SiteAt(0, 0, 0)
	top, _ := lat.SiteAt(0, 0, 2)
	mid, _ := lat.SiteAt(0, 0, 1)
	require.True(t, lat.IsElectrode(bottom))
	require.True(t, lat.IsElectrode(top))
	require.False(t, lat.IsElectrode(mid))

	periodic := NewLattice(LatticeConfig{L: 2, W: 2, H: 3, UnitNM: 1, PeriodicZ: true}, constRand(0))
	bottom, _ = periodic.SiteAt(0, 0, 0)
	require.False(t, periodic.IsElectrode(bottom))
}

func TestNeighborsRespectsManhattanRadiusAndExcludesSelf(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 5, W: 5, H: 5, UnitNM: 1, PeriodicX: true, PeriodicY: true, PeriodicZ: true}, constRand(0))
	center, _ := lat.SiteAt(2, 2, 2)
	neighbors := lat.Neighbors(center, 1)
	require.Len(t, neighbors, 6) // 6 face neighbors at Manhattan radius 1
	for _, n := range neighbors {
		require.NotEqual(t, center, n)
	}
}

func TestDisplacementUsesMinimumImageConvention(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 10, W: 10, H: 10, UnitNM: 2, PeriodicX: true}, constRand(0))
	a, _ := lat.SiteAt(0, 0, 0)
	b, _ := lat.SiteAt(9, 0, 0)
	dx, _, _ := lat.Displacement(a, b)
	require.Equal(t, -2.0, dx) // wraps the short way: -1 site * 2nm
}

func TestDistanceNonPeriodic(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 5, W: 5, H: 5, UnitNM: 1}, constRand(0))
	a, _ := lat.SiteAt(0, 0, 0)
	b, _ := lat.SiteAt(3, 4, 0)
	require.InDelta(t, 5.0, lat.Distance(a, b), 1e-9)
}

func TestImportMorphologyOverridesTypeAndEnergy(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 2, W: 1, H: 1, UnitNM: 1, Architecture: ArchitectureNeat}, constRand(0))
	energy := 0.25
	src := fakeMorphology{{0, Acceptor, &energy}, {1, Donor, nil}}
	require.NoError(t, ImportMorphology(lat, src))
	require.Equal(t, Acceptor, lat.Site(0).Type)
	require.Equal(t, 0.25, lat.Site(0).Energy)
}

func TestImportMorphologyRejectsOutOfRangeIndex(t *testing.T) {
	lat := NewLattice(LatticeConfig{L: 1, W: 1, H: 1, UnitNM: 1}, constRand(0))
	src := fakeMorphology{{5, Donor, nil}}
	require.Error(t, ImportMorphology(lat, src))
}

type morphologyEntry struct {
	index  int
	t      SiteType
	energy *float64
}

type fakeMorphology []morphologyEntry

func (f fakeMorphology) Each(fn func(index int, t SiteType, energy *float64) error) error {
	for _, e := range f {
		if err := fn(e.index, e.t, e.energy); err != nil {
			return err
		}
	}
	return nil
}
