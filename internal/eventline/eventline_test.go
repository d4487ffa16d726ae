package eventline

import (
	"math"
	"testing"

	"github.com/strata-data/xsection/internal/geometry"
	"github.com/strata-data/xsection/internal/section"
)

const tol = 1e-9

func mustProjector(t *testing.T, vertices ...geometry.Point) *section.Projector {
	t.Helper()
	proj, err := section.NewProjector(section.Line{ID: "A", Vertices: vertices}, section.DefaultDisplayParams())
	if err != nil {
		t.Fatalf("NewProjector() error = %v", err)
	}
	return proj
}

func defaultBand() Band { return Band{Min: 0, Max: 2500} }

func TestBandValidate(t *testing.T) {
	tests := []struct {
		name    string
		band    Band
		wantErr bool
	}{
		{"valid", Band{0, 2500}, false},
		{"negative floor", Band{-500, 1000}, false},
		{"empty", Band{100, 100}, true},
		{"inverted", Band{200, 100}, true},
		{"nan", Band{math.NaN(), 100}, true},
		{"infinite", Band{0, math.Inf(1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.band.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromLines(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(10, 0))
	sources := []LineSource{
		{ID: "fault-1", Vertices: []geometry.Point{geometry.Pt(7, -5), geometry.Pt(7, 5)}, Attributes: map[string]any{"kind": "fault"}},
		{ID: "fault-2", Vertices: []geometry.Point{geometry.Pt(2, -1), geometry.Pt(3, 1)}},
		{ID: "misses", Vertices: []geometry.Point{geometry.Pt(4, 2), geometry.Pt(8, 6)}},
	}

	events, err := FromLines(proj, sources, defaultBand())
	if err != nil {
		t.Fatalf("FromLines() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	// Ordered by station: fault-2 crosses at 2.5, fault-1 at 7.
	if events[0].SourceID != "fault-2" || math.Abs(events[0].Station-2.5) > tol {
		t.Errorf("event 0 = %s at %v, want fault-2 at 2.5", events[0].SourceID, events[0].Station)
	}
	if events[1].SourceID != "fault-1" || math.Abs(events[1].Station-7) > tol {
		t.Errorf("event 1 = %s at %v, want fault-1 at 7", events[1].SourceID, events[1].Station)
	}
	if events[1].Attributes["kind"] != "fault" {
		t.Errorf("attributes did not carry through: %v", events[1].Attributes)
	}
	if events[0].Band != defaultBand() {
		t.Errorf("band = %+v", events[0].Band)
	}
}

func TestFromPolygonsEntryAndExit(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(10, 0))
	// Square straddling the line from x=3 to x=6: the traverse produces
	// an entry event and an exit event.
	square := RingSource{
		ID: "till-unit",
		Rings: [][]geometry.Point{{
			geometry.Pt(3, -2), geometry.Pt(6, -2), geometry.Pt(6, 2), geometry.Pt(3, 2), geometry.Pt(3, -2),
		}},
	}

	events, err := FromPolygons(proj, []RingSource{square}, defaultBand())
	if err != nil {
		t.Fatalf("FromPolygons() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (entry and exit)", len(events))
	}
	if math.Abs(events[0].Station-3) > tol || math.Abs(events[1].Station-6) > tol {
		t.Errorf("stations = %v, %v, want 3, 6", events[0].Station, events[1].Station)
	}
}

func TestFromPointsSnapTolerance(t *testing.T) {
	proj := mustProjector(t, geometry.Pt(0, 0), geometry.Pt(10, 0))
	feats := []section.Feature{
		{ID: "on-line", Location: geometry.Pt(4, 0), Elevation: 100},
		{ID: "near", Location: geometry.Pt(6, 0.5), Elevation: 100},
		{ID: "far", Location: geometry.Pt(8, 3), Elevation: 100},
	}

	events, err := FromPoints(proj, feats, 1.0, defaultBand())
	if err != nil {
		t.Fatalf("FromPoints() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].SourceID != "on-line" || events[1].SourceID != "near" {
		t.Errorf("events = %s, %s", events[0].SourceID, events[1].SourceID)
	}

	if _, err := FromPoints(proj, feats, -1, defaultBand()); err == nil {
		t.Error("negative tolerance must error")
	}
}

func TestEventsMirrorUnderRotatedScene(t *testing.T) {
	// Rotating the whole scene 180 degrees mirrors event stations.
	line := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0)}
	src := LineSource{ID: "f", Vertices: []geometry.Point{geometry.Pt(3, -1), geometry.Pt(3, 1)}}

	fwd, err := FromLines(mustProjector(t, line...), []LineSource{src}, defaultBand())
	if err != nil {
		t.Fatalf("FromLines() error = %v", err)
	}

	rot := func(p geometry.Point) geometry.Point { return geometry.Pt(-p.X, -p.Y) }
	rotSrc := LineSource{ID: "f", Vertices: []geometry.Point{rot(src.Vertices[0]), rot(src.Vertices[1])}}
	rev, err := FromLines(mustProjector(t, rot(line[0]), rot(line[1])), []LineSource{rotSrc}, defaultBand())
	if err != nil {
		t.Fatalf("FromLines(rotated) error = %v", err)
	}

	if len(fwd) != 1 || len(rev) != 1 {
		t.Fatalf("event counts: %d, %d, want 1 each", len(fwd), len(rev))
	}
	total := geometry.Length(line)
	if math.Abs(rev[0].Station-(total-fwd[0].Station)) > tol {
		t.Errorf("rotated station = %v, want %v", rev[0].Station, total-fwd[0].Station)
	}
}

func TestMergeOrdersByStation(t *testing.T) {
	a := []Event{{SourceID: "a", Station: 7}}
	b := []Event{{SourceID: "b", Station: 2}, {SourceID: "c", Station: 9}}
	merged := Merge(a, b)
	want := []string{"b", "a", "c"}
	if len(merged) != 3 {
		t.Fatalf("got %d events, want 3", len(merged))
	}
	for i, id := range want {
		if merged[i].SourceID != id {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].SourceID, id)
		}
	}
}
