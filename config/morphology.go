package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kmc-sim/kmc-sim/kmc"
)

// FileMorphology implements kmc.MorphologySource over the plain-text
// format: one line per site index in ascending order, each line either
// "donor" / "acceptor", or "donor <energy>" / "acceptor <energy>" to
// additionally pin that site's energy (§6 "format is an opaque blob
// delegated to the file-handling collaborator" — the lattice only needs
// the iteration interface, never this format itself).
type FileMorphology struct {
	r io.Reader
}

// NewFileMorphology wraps r as a MorphologySource.
func NewFileMorphology(r io.Reader) *FileMorphology { return &FileMorphology{r: r} }

func (m *FileMorphology) Each(fn func(index int, t kmc.SiteType, energy *float64) error) error {
	sc := bufio.NewScanner(m.r)
	index := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		var t kmc.SiteType
		switch strings.ToLower(fields[0]) {
		case "donor":
			t = kmc.Donor
		case "acceptor":
			t = kmc.Acceptor
		default:
			return fmt.Errorf("config: morphology line %d: unknown site type %q", index, fields[0])
		}
		var energy *float64
		if len(fields) > 1 {
			v, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return fmt.Errorf("config: morphology line %d: bad energy %q", index, fields[1])
			}
			energy = &v
		}
		if err := fn(index, t, energy); err != nil {
			return err
		}
		index++
	}
	return sc.Err()
}

// MorphologySetPath formats the prefix#suffix morphology-set naming
// convention of §6 for morphology number n: "prefix#suffix" with n
// substituted for "#".
func MorphologySetPath(format string, n int) (string, error) {
	pos := strings.Index(format, "#")
	if pos < 0 {
		return "", fmt.Errorf("config: morphology set format %q missing '#'", format)
	}
	return fmt.Sprintf("%s%d%s", format[:pos], n, format[pos+1:]), nil
}
