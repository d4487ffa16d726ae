package render

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteSection persists a section bundle as indented JSON so a later
// render run can pick it up without redoing any projection.
func WriteSection(w io.Writer, sec Section) error {
	data, err := json.MarshalIndent(sec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode section: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write section: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write section: %w", err)
	}
	return nil
}

// ReadSection loads a section bundle written by WriteSection.
func ReadSection(r io.Reader) (Section, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Section{}, fmt.Errorf("read section: %w", err)
	}
	var sec Section
	if err := json.Unmarshal(data, &sec); err != nil {
		return Section{}, fmt.Errorf("parse section: %w", err)
	}
	return sec, nil
}

// MergeSections combines bundles produced by separate runs over the same
// section line: profiles, wells, events and grid lines concatenate in
// argument order, and the first non-empty ID, title and axis labels win.
func MergeSections(secs ...Section) Section {
	var out Section
	for _, s := range secs {
		if out.ID == "" {
			out.ID = s.ID
		}
		if out.Title == "" {
			out.Title = s.Title
		}
		if out.XLabel == "" {
			out.XLabel = s.XLabel
		}
		if out.YLabel == "" {
			out.YLabel = s.YLabel
		}
		out.Profiles = append(out.Profiles, s.Profiles...)
		out.Wells = append(out.Wells, s.Wells...)
		out.Events = append(out.Events, s.Events...)
		out.Grid = append(out.Grid, s.Grid...)
	}
	return out
}
