package config

import (
	"strings"
	"testing"

	"github.com/kmc-sim/kmc-sim/kmc"
	"github.com/stretchr/testify/require"
)

func TestFileMorphologyParsesTypeAndOptionalEnergy(t *testing.T) {
	src := NewFileMorphology(strings.NewReader("donor\nacceptor 0.25\nDonor\n"))

	var got []struct {
		idx    int
		t      kmc.SiteType
		energy *float64
	}
	err := src.Each(func(index int, t kmc.SiteType, energy *float64) error {
		got = append(got, struct {
			idx    int
			t      kmc.SiteType
			energy *float64
		}{index, t, energy})
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, kmc.Donor, got[0].t)
	require.Nil(t, got[0].energy)
	require.Equal(t, kmc.Acceptor, got[1].t)
	require.NotNil(t, got[1].energy)
	require.Equal(t, 0.25, *got[1].energy)
	require.Equal(t, kmc.Donor, got[2].t, "site type token is case-insensitive")
}

func TestFileMorphologySkipsBlankLines(t *testing.T) {
	src := NewFileMorphology(strings.NewReader("donor\n\nacceptor\n"))
	var indices []int
	err := src.Each(func(index int, t kmc.SiteType, energy *float64) error {
		indices = append(indices, index)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, indices)
}

func TestFileMorphologyRejectsUnknownType(t *testing.T) {
	src := NewFileMorphology(strings.NewReader("metal\n"))
	err := src.Each(func(int, kmc.SiteType, *float64) error { return nil })
	require.Error(t, err)
}

func TestFileMorphologyRejectsBadEnergy(t *testing.T) {
	src := NewFileMorphology(strings.NewReader("donor notanumber\n"))
	err := src.Each(func(int, kmc.SiteType, *float64) error { return nil })
	require.Error(t, err)
}

func TestMorphologySetPathSubstitutesHash(t *testing.T) {
	got, err := MorphologySetPath("morph#.txt", 3)
	require.NoError(t, err)
	require.Equal(t, "morph3.txt", got)
}

func TestMorphologySetPathRejectsMissingHash(t *testing.T) {
	_, err := MorphologySetPath("morph.txt", 3)
	require.Error(t, err)
}
