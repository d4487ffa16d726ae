package gis

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/paulmach/orb/encoding/wkt"
)

// WKTColumn is the header of the geometry column in CSV exports.
const WKTColumn = "WKT_Geometry"

// WriteCSV writes features as CSV rows: one column per property name seen
// anywhere in the batch, sorted for a stable header, plus a trailing WKT
// geometry column. Missing properties leave empty cells; nil geometries
// leave an empty WKT cell.
func WriteCSV(w io.Writer, feats []Feature) error {
	keys := map[string]bool{}
	for _, f := range feats {
		for k := range f.Properties {
			keys[k] = true
		}
	}
	header := make([]string, 0, len(keys)+1)
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)
	header = append(header, WKTColumn)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for i, f := range feats {
		for j, k := range header[:len(header)-1] {
			row[j] = cellValue(f.Properties[k])
		}
		if f.Geometry != nil {
			row[len(row)-1] = wkt.MarshalString(f.Geometry)
		} else {
			row[len(row)-1] = ""
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func cellValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	case bool:
		return strconv.FormatBool(n)
	}
	return fmt.Sprintf("%v", v)
}
