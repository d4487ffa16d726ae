package wells

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Default interval table column names, matching the source well database
// export schema.
const (
	DefaultWellIDColumn = "wellid"
	DefaultFromColumn   = "from_depth"
	DefaultToColumn     = "to_depth"
)

// ReadIntervalCSV reads a depth-interval table keyed by well ID. Columns
// beyond the three named ones carry through as interval attributes. Rows
// with an unparseable depth keep the interval with a NaN depth, which
// Prepare later drops; an empty well ID drops the row.
func ReadIntervalCSV(r io.Reader, wellIDCol, fromCol, toCol string) (map[string][]Interval, error) {
	if wellIDCol == "" {
		wellIDCol = DefaultWellIDColumn
	}
	if fromCol == "" {
		fromCol = DefaultFromColumn
	}
	if toCol == "" {
		toCol = DefaultToColumn
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read interval header: %w", err)
	}

	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{wellIDCol, fromCol, toCol} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("interval table missing column %q (have: %s)", required, strings.Join(header, ", "))
		}
	}

	out := map[string][]Interval{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read interval row %d: %w", line, err)
		}

		id := strings.TrimSpace(record[col[wellIDCol]])
		if id == "" {
			continue
		}
		iv := Interval{
			From: parseDepth(record[col[fromCol]]),
			To:   parseDepth(record[col[toCol]]),
		}
		for name, idx := range col {
			if name == wellIDCol || name == fromCol || name == toCol {
				continue
			}
			if v := strings.TrimSpace(record[idx]); v != "" {
				if iv.Attributes == nil {
					iv.Attributes = map[string]any{}
				}
				iv.Attributes[name] = v
			}
		}
		out[id] = append(out[id], iv)
	}
	return out, nil
}

func parseDepth(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// AttachIntervals joins an interval table onto wells by ID. Wells without
// a table entry keep an empty interval list.
func AttachIntervals(ws []Well, byID map[string][]Interval) []Well {
	out := make([]Well, len(ws))
	for i, w := range ws {
		w.Intervals = byID[w.ID]
		out[i] = w
	}
	return out
}
