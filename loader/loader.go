// Package loader reads the seven CSV extracts into in-memory tables,
// inferring a primitive type per column. It does no filtering or validation:
// empty fields become NULL and stay NULL (assisterID is legitimately null
// when a goal had no assisting player).
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/padraicbc/footstats/config"
	"github.com/padraicbc/footstats/table"
)

// ErrSourceUnavailable marks a missing or unreadable input file. Fatal, no
// retry.
var ErrSourceUnavailable = errors.New("source unavailable")

// Load reads one CSV file into a table. The first record is the header row.
// Column types are inferred over all data rows: integer if every non-empty
// value parses as an integer, float if every non-empty value parses as a
// number, text otherwise.
func Load(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: no header row", ErrSourceUnavailable, path)
	}

	header := records[0]
	data := records[1:]
	kinds := inferKinds(header, data)

	cols := make([]table.Column, len(header))
	for i, name := range header {
		cols[i] = table.Column{Name: name, Kind: kinds[i]}
	}
	t := table.New(cols...)

	for _, rec := range data {
		row := make([]any, len(cols))
		for i, field := range rec {
			if field == "" {
				continue // NULL
			}
			switch kinds[i] {
			case table.Integer:
				n, _ := strconv.ParseInt(field, 10, 64)
				row[i] = n
			case table.Float:
				x, _ := strconv.ParseFloat(field, 64)
				row[i] = x
			default:
				row[i] = field
			}
		}
		if err := t.Append(row); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return t, nil
}

// LoadAll reads the seven relation files named in the config, keyed by
// relation name. Any missing file fails the whole load.
func LoadAll(cfg *config.Config) (map[string]*table.Table, error) {
	out := make(map[string]*table.Table, len(cfg.RelationFiles))
	for name, file := range cfg.RelationFiles {
		path := filepath.Join(cfg.CSVDir, file)
		t, err := Load(path)
		if err != nil {
			return nil, err
		}
		zap.L().Info("loaded relation",
			zap.String("relation", name),
			zap.Int("rows", t.NumRows()),
			zap.Int("columns", len(t.Columns)),
			zap.Ints("nulls", t.NullCount()),
		)
		out[name] = t
	}
	return out, nil
}

// inferKinds walks every data row once per column, narrowing from integer to
// float to text. Empty fields carry no type information.
func inferKinds(header []string, data [][]string) []table.Kind {
	kinds := make([]table.Kind, len(header))
	seen := make([]bool, len(header))
	for _, rec := range data {
		for i, field := range rec {
			if i >= len(kinds) || field == "" {
				continue
			}
			seen[i] = true
			switch kinds[i] {
			case table.Integer:
				if _, err := strconv.ParseInt(field, 10, 64); err == nil {
					continue
				}
				if _, err := strconv.ParseFloat(field, 64); err == nil {
					kinds[i] = table.Float
				} else {
					kinds[i] = table.Text
				}
			case table.Float:
				if _, err := strconv.ParseFloat(field, 64); err != nil {
					kinds[i] = table.Text
				}
			}
		}
	}
	// A column with no non-empty values stays integer by the zero value;
	// make it text so NULL-only columns round-trip without surprises.
	for i, s := range seen {
		if !s {
			kinds[i] = table.Text
		}
	}
	return kinds
}
