package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/mathviz/internal/walk"
)

// WriteCSV writes the history as step,observed,theoretical rows.
func WriteCSV(w io.Writer, history walk.StatHistory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "observed", "theoretical"}); err != nil {
		return err
	}
	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Step),
			strconv.FormatFloat(s.Observed, 'f', 6, 64),
			strconv.FormatFloat(s.Theoretical, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full report, history included.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
