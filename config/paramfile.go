package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RawParams holds every value from a parameter file in file order (§6).
// Field grouping and order mirror the fixed order the reader is required
// to populate in: KMC algorithm flags; periodicity and geometry;
// architecture; morphology import; test selection and parameters;
// exciton parameters; polaron parameters; lattice energetics; disorder;
// Coulomb. Donor/acceptor are read as separate values per the original
// format even where kmc.Params collapses them (see ToParams).
type RawParams struct {
	EnableFRM             bool
	EnableSelectiveRecalc bool
	RecalcCutoff          int
	EnableFullRecalc      bool

	PeriodicX, PeriodicY, PeriodicZ bool
	Length, Width, Height           int
	UnitSize                        float64
	Temperature                     float64
	InternalPotential               float64

	EnableNeat              bool
	EnableBilayer           bool
	ThicknessDonor          int
	ThicknessAcceptor       int
	EnableRandomBlend       bool
	AcceptorConc            float64
	ImportMorphologySingle  bool
	MorphologyFilename      string
	ImportMorphologySet     bool
	MorphologySetFormat     string
	NTestMorphologies       int
	NMorphologySetSize      int

	NTests                    int
	EnableExcitonDiffusion    bool
	EnableToF                bool
	ToFPolaronIsHole          bool
	ToFInitialPolarons        int
	ToFTransientStart         float64
	ToFTransientEnd           float64
	ToFPtsPerDecade           int
	EnableIQE                 bool
	IQETimeCutoff             float64
	EnableExtractionMapOutput bool
	EnableDynamics            bool
	EnableDynamicsExtraction  bool
	DynamicsInitialConc       float64
	DynamicsTransientStart    float64
	DynamicsTransientEnd      float64
	DynamicsPtsPerDecade      int

	ExcitonGenRateDonor, ExcitonGenRateAcceptor         float64
	SingletLifetimeDonor, SingletLifetimeAcceptor       float64
	TripletLifetimeDonor, TripletLifetimeAcceptor       float64
	SingletHopDonor, SingletHopAcceptor                 float64
	SingletLocalizationDonor, SingletLocalizationAcceptor float64
	TripletHopDonor, TripletHopAcceptor                 float64
	TripletLocalizationDonor, TripletLocalizationAcceptor float64
	EnableFRETTripletAnnihilation                       bool
	AnnihilationEEDonor, AnnihilationEEAcceptor         float64
	AnnihilationEPDonor, AnnihilationEPAcceptor         float64
	FRETCutoff                                          int
	BindingEnergyDonor, BindingEnergyAcceptor           float64
	DissociationRateDonor, DissociationRateAcceptor     float64
	DissociationCutoff                                  int
	ISCRateDonor, ISCRateAcceptor                       float64
	RISCRateDonor, RISCRateAcceptor                     float64
	ESTDonor, ESTAcceptor                               float64

	EnablePhaseRestriction                 bool
	PolaronHopDonor, PolaronHopAcceptor     float64
	PolaronLocalizationDonor, PolaronLocalizationAcceptor float64
	EnableMillerAbrahams                   bool
	EnableMarcus                           bool
	ReorgEnergyDonor, ReorgEnergyAcceptor   float64
	PolaronRecombinationRate                float64
	PolaronHopCutoff                        int
	EnableGaussianDelocalization             bool
	PolaronDelocalizationLength              float64

	HOMODonor, LUMODonor       float64
	HOMOAcceptor, LUMOAcceptor float64

	EnableGaussianDOS              bool
	EnergyStdevDonor, EnergyStdevAcceptor float64
	EnableExponentialDOS           bool
	UrbachDonor, UrbachAcceptor     float64
	EnableCorrelatedDisorder        bool
	CorrelationLength                float64
	EnableGaussianKernel             bool
	EnablePowerKernel                bool
	PowerKernelExponent              int

	DielectricDonor, DielectricAcceptor float64
	CoulombCutoff                        int
}

// ParseParameterFile reads the line-oriented format of §6: one value per
// active line, lines starting with "--" or "##" are comments, and the
// value is the leading token before a "/". Values are consumed in the
// fixed order RawParams documents; running out of lines or hitting a
// malformed token reports which field the reader was populating when it
// failed.
func ParseParameterFile(r io.Reader) (*RawParams, error) {
	tokens, err := scanTokens(r)
	if err != nil {
		return nil, err
	}
	c := &cursor{tokens: tokens}

	p := &RawParams{}
	p.EnableFRM = c.boolField("first reaction method flag")
	p.EnableSelectiveRecalc = c.boolField("selective recalculation flag")
	p.RecalcCutoff = c.intField("recalculation cutoff")
	p.EnableFullRecalc = c.boolField("full recalculation flag")

	p.PeriodicX = c.boolField("x-periodic boundary flag")
	p.PeriodicY = c.boolField("y-periodic boundary flag")
	p.PeriodicZ = c.boolField("z-periodic boundary flag")
	p.Length = c.intField("lattice length")
	p.Width = c.intField("lattice width")
	p.Height = c.intField("lattice height")
	p.UnitSize = c.floatField("unit size")
	p.Temperature = c.floatField("temperature")
	p.InternalPotential = c.floatField("internal potential")

	p.EnableNeat = c.boolField("neat architecture flag")
	p.EnableBilayer = c.boolField("bilayer architecture flag")
	p.ThicknessDonor = c.intField("donor thickness")
	p.ThicknessAcceptor = c.intField("acceptor thickness")
	p.EnableRandomBlend = c.boolField("random blend architecture flag")
	p.AcceptorConc = c.floatField("acceptor concentration")
	p.ImportMorphologySingle = c.boolField("morphology import flag")
	p.MorphologyFilename = c.stringField("morphology filename")
	p.ImportMorphologySet = c.boolField("morphology set import flag")
	p.MorphologySetFormat = c.stringField("morphology set format")
	p.NTestMorphologies = c.intField("morphology test count")
	p.NMorphologySetSize = c.intField("morphology set size")

	p.NTests = c.intField("exciton diffusion test count")
	p.EnableExcitonDiffusion = c.boolField("exciton diffusion test flag")
	p.EnableToF = c.boolField("time-of-flight test flag")
	p.ToFPolaronIsHole = c.polaronTypeField("time-of-flight polaron type")
	p.ToFInitialPolarons = c.intField("time-of-flight initial polarons")
	p.ToFTransientStart = c.floatField("time-of-flight transient start")
	p.ToFTransientEnd = c.floatField("time-of-flight transient end")
	p.ToFPtsPerDecade = c.intField("time-of-flight points per decade")
	p.EnableIQE = c.boolField("IQE test flag")
	p.IQETimeCutoff = c.floatField("IQE time cutoff")
	p.EnableExtractionMapOutput = c.boolField("extraction map output flag")
	p.EnableDynamics = c.boolField("dynamics test flag")
	p.EnableDynamicsExtraction = c.boolField("dynamics extraction flag")
	p.DynamicsInitialConc = c.floatField("dynamics initial exciton concentration")
	p.DynamicsTransientStart = c.floatField("dynamics transient start")
	p.DynamicsTransientEnd = c.floatField("dynamics transient end")
	p.DynamicsPtsPerDecade = c.intField("dynamics points per decade")

	p.ExcitonGenRateDonor = c.floatField("exciton generation rate, donor")
	p.ExcitonGenRateAcceptor = c.floatField("exciton generation rate, acceptor")
	p.SingletLifetimeDonor = c.floatField("singlet lifetime, donor")
	p.SingletLifetimeAcceptor = c.floatField("singlet lifetime, acceptor")
	p.TripletLifetimeDonor = c.floatField("triplet lifetime, donor")
	p.TripletLifetimeAcceptor = c.floatField("triplet lifetime, acceptor")
	p.SingletHopDonor = c.floatField("singlet hopping rate, donor")
	p.SingletHopAcceptor = c.floatField("singlet hopping rate, acceptor")
	p.SingletLocalizationDonor = c.floatField("singlet localization length, donor")
	p.SingletLocalizationAcceptor = c.floatField("singlet localization length, acceptor")
	p.TripletHopDonor = c.floatField("triplet hopping rate, donor")
	p.TripletHopAcceptor = c.floatField("triplet hopping rate, acceptor")
	p.TripletLocalizationDonor = c.floatField("triplet localization length, donor")
	p.TripletLocalizationAcceptor = c.floatField("triplet localization length, acceptor")
	p.EnableFRETTripletAnnihilation = c.boolField("FRET triplet annihilation flag")
	p.AnnihilationEEDonor = c.floatField("exciton-exciton annihilation rate, donor")
	p.AnnihilationEEAcceptor = c.floatField("exciton-exciton annihilation rate, acceptor")
	p.AnnihilationEPDonor = c.floatField("exciton-polaron annihilation rate, donor")
	p.AnnihilationEPAcceptor = c.floatField("exciton-polaron annihilation rate, acceptor")
	p.FRETCutoff = c.intField("FRET cutoff")
	p.BindingEnergyDonor = c.floatField("exciton binding energy, donor")
	p.BindingEnergyAcceptor = c.floatField("exciton binding energy, acceptor")
	p.DissociationRateDonor = c.floatField("dissociation rate, donor")
	p.DissociationRateAcceptor = c.floatField("dissociation rate, acceptor")
	p.DissociationCutoff = c.intField("dissociation cutoff")
	p.ISCRateDonor = c.floatField("ISC rate, donor")
	p.ISCRateAcceptor = c.floatField("ISC rate, acceptor")
	p.RISCRateDonor = c.floatField("RISC rate, donor")
	p.RISCRateAcceptor = c.floatField("RISC rate, acceptor")
	p.ESTDonor = c.floatField("singlet-triplet gap, donor")
	p.ESTAcceptor = c.floatField("singlet-triplet gap, acceptor")

	p.EnablePhaseRestriction = c.boolField("polaron phase restriction flag")
	p.PolaronHopDonor = c.floatField("polaron hopping rate, donor")
	p.PolaronHopAcceptor = c.floatField("polaron hopping rate, acceptor")
	p.PolaronLocalizationDonor = c.floatField("polaron localization length, donor")
	p.PolaronLocalizationAcceptor = c.floatField("polaron localization length, acceptor")
	p.EnableMillerAbrahams = c.boolField("Miller-Abrahams flag")
	p.EnableMarcus = c.boolField("Marcus flag")
	p.ReorgEnergyDonor = c.floatField("reorganization energy, donor")
	p.ReorgEnergyAcceptor = c.floatField("reorganization energy, acceptor")
	p.PolaronRecombinationRate = c.floatField("polaron recombination rate")
	p.PolaronHopCutoff = c.intField("polaron hopping cutoff")
	p.EnableGaussianDelocalization = c.boolField("Gaussian polaron delocalization flag")
	p.PolaronDelocalizationLength = c.floatField("polaron delocalization length")

	p.HOMODonor = c.floatField("HOMO, donor")
	p.LUMODonor = c.floatField("LUMO, donor")
	p.HOMOAcceptor = c.floatField("HOMO, acceptor")
	p.LUMOAcceptor = c.floatField("LUMO, acceptor")

	p.EnableGaussianDOS = c.boolField("Gaussian DOS flag")
	p.EnergyStdevDonor = c.floatField("energetic disorder, donor")
	p.EnergyStdevAcceptor = c.floatField("energetic disorder, acceptor")
	p.EnableExponentialDOS = c.boolField("exponential DOS flag")
	p.UrbachDonor = c.floatField("Urbach energy, donor")
	p.UrbachAcceptor = c.floatField("Urbach energy, acceptor")
	p.EnableCorrelatedDisorder = c.boolField("correlated disorder flag")
	p.CorrelationLength = c.floatField("disorder correlation length")
	p.EnableGaussianKernel = c.boolField("Gaussian kernel flag")
	p.EnablePowerKernel = c.boolField("power-law kernel flag")
	p.PowerKernelExponent = c.intField("power-law kernel exponent")

	p.DielectricDonor = c.floatField("dielectric constant, donor")
	p.DielectricAcceptor = c.floatField("dielectric constant, acceptor")
	p.CoulombCutoff = c.intField("Coulomb cutoff")

	if c.err != nil {
		return nil, c.err
	}
	return p, nil
}

// scanTokens reads every non-comment line and extracts the leading token
// before "/" (§6). A line with no "/" contributes its entire trimmed
// content as the token.
func scanTokens(r io.Reader) ([]string, error) {
	var tokens []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "--") || strings.HasPrefix(line, "##") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		pos := strings.Index(line, "/")
		var value string
		if pos < 0 {
			value = strings.TrimSpace(line)
		} else {
			value = strings.TrimSpace(line[:pos])
		}
		tokens = append(tokens, value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("config: reading parameter file: %w", err)
	}
	return tokens, nil
}

// cursor walks tokens in order, recording the first conversion error so
// every subsequent field-reading call becomes a no-op (bufio.Scanner's
// sticky-error idiom) rather than reading past a file that is already
// known to be malformed.
type cursor struct {
	tokens []string
	pos    int
	err    error
}

func (c *cursor) next(field string) string {
	if c.err != nil {
		return ""
	}
	if c.pos >= len(c.tokens) {
		c.err = fmt.Errorf("config: parameter file ended before %s", field)
		return ""
	}
	tok := c.tokens[c.pos]
	c.pos++
	return tok
}

func (c *cursor) boolField(field string) bool {
	tok := c.next(field)
	if c.err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(tok)) {
	case "true":
		return true
	case "false":
		return false
	default:
		c.err = fmt.Errorf("config: %s: %q is not a boolean", field, tok)
		return false
	}
}

func (c *cursor) intField(field string) int {
	tok := c.next(field)
	if c.err != nil {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(tok))
	if err != nil {
		c.err = fmt.Errorf("config: %s: %q is not an integer", field, tok)
		return 0
	}
	return v
}

func (c *cursor) floatField(field string) float64 {
	tok := c.next(field)
	if c.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
	if err != nil {
		c.err = fmt.Errorf("config: %s: %q is not a number", field, tok)
		return 0
	}
	return v
}

func (c *cursor) stringField(field string) string {
	return c.next(field)
}

func (c *cursor) polaronTypeField(field string) bool {
	tok := strings.ToLower(strings.TrimSpace(c.next(field)))
	if c.err != nil {
		return false
	}
	switch tok {
	case "hole":
		return true
	case "electron":
		return false
	default:
		c.err = fmt.Errorf("config: %s: %q is not \"electron\" or \"hole\"", field, tok)
		return false
	}
}
