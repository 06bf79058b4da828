package results

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteExtractionMap writes one worker's (x, y, count) extraction map
// (§6), one row per column that recorded at least one collection event.
func WriteExtractionMap(w io.Writer, m map[[2]int]int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y", "count"}); err != nil {
		return err
	}
	for xy, count := range m {
		row := []string{strconv.Itoa(xy[0]), strconv.Itoa(xy[1]), strconv.Itoa(count)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
