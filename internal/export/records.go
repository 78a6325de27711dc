package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"apexvle/internal/apex"
)

// Records writes pre-formatted records under header to path, truncating it.
func Records(path string, header []string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := NewWriter(f, header, false, nil)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for i, rec := range records {
		if len(rec) != len(header) {
			return fmt.Errorf("record %d has %d fields, header has %d", i, len(rec), len(header))
		}
		if err := w.WriteRecord(rec); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return w.Flush()
}

// DatabankHeader is the column set written by DatabankRecords.
var DatabankHeader = []string{"DatabankID", "Name", "Description"}

// DatabankRecords formats databanks for Records.
func DatabankRecords(banks []apex.Databank) [][]string {
	out := make([][]string, len(banks))
	for i, b := range banks {
		out[i] = []string{strconv.FormatInt(b.ID, 10), b.Name, b.Description}
	}
	return out
}

// CoeffSetHeader is the column set written by CoeffSetRecords.
var CoeffSetHeader = []string{"SetID", "Databank", "Model", "ChemID1", "ChemID2", "Param", "Index", "Value"}

// CoeffSetRecords flattens coefficient sets to one record per parameter element.
func CoeffSetRecords(sets []apex.CoeffSet, banks []apex.Databank) [][]string {
	names := make(map[int64]string, len(banks))
	for _, b := range banks {
		names[b.ID] = b.Name
	}
	var out [][]string
	for _, s := range sets {
		bank := names[s.DatabankID]
		if bank == "" {
			bank = strconv.FormatInt(s.DatabankID, 10)
		}
		for _, p := range s.Params {
			out = append(out, []string{
				strconv.FormatInt(s.SetID, 10),
				bank,
				s.Model,
				strconv.FormatInt(s.ChemID1, 10),
				strconv.FormatInt(s.ChemID2, 10),
				p.Name,
				strconv.Itoa(p.Index),
				strconv.FormatFloat(p.Value, 'g', -1, 64),
			})
		}
	}
	return out
}
