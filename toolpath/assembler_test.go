package toolpath

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/maiereni/drl2rml/drill"
	"github.com/maiereni/drl2rml/rmlprotocol"
)

func holes(points ...[2]float32) []drill.Event {
	out := make([]drill.Event, len(points))
	for i, p := range points {
		out[i] = drill.DrillHole{X: p[0], Y: p[1]}
	}
	return out
}

func oneTool(points ...[2]float32) []drill.Event {
	events := []drill.Event{
		drill.Tool{ID: "1", Diameter: 0.4},
		drill.EndHeader{},
		drill.SelectTool{ID: "1"},
	}
	return append(events, holes(points...)...)
}

func TestCollectPathOrdersByY(t *testing.T) {
	events := oneTool([2]float32{1, 40.64}, [2]float32{2, 73.66}, [2]float32{3, 55.88})
	path := CollectPath(drill.Tool{ID: "1"}, events)

	var got []float32
	for _, h := range path.Holes {
		got = append(got, h.Y)
	}
	if diff := cmp.Diff([]float32{40.64, 55.88, 73.66}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectPathEqualY(t *testing.T) {
	events := oneTool([2]float32{1, 5}, [2]float32{2, 5}, [2]float32{3, 5})
	path := CollectPath(drill.Tool{ID: "1"}, events)

	var got []float32
	for _, h := range path.Holes {
		got = append(got, h.X)
	}
	if diff := cmp.Diff([]float32{3, 2, 1}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectPathSelection(t *testing.T) {
	events := []drill.Event{
		drill.Tool{ID: "1", Diameter: 0.4},
		drill.Tool{ID: "2", Diameter: 0.8},
		drill.SelectTool{ID: "1"},
		drill.DrillHole{X: 1, Y: 1},
		drill.SelectTool{ID: "2"},
		drill.DrillHole{X: 2, Y: 2},
		drill.SelectTool{ID: "1"},
		drill.SetDrillMode{Mode: "05"},
		drill.DrillHole{X: 3, Y: 3},
		drill.SelectTool{ID: "1"},
		drill.DrillHole{X: 4, Y: 4},
	}

	tests := []struct {
		id       string
		expected []drill.DrillHole
	}{
		{"1", []drill.DrillHole{{X: 1, Y: 1}, {X: 4, Y: 4}}},
		{"2", []drill.DrillHole{{X: 2, Y: 2}}},
		{"3", nil},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			path := CollectPath(drill.Tool{ID: tt.id}, events)
			if diff := cmp.Diff(tt.expected, path.Holes); diff != "" {
				t.Errorf("holes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGenerateFull(t *testing.T) {
	events := oneTool([2]float32{1, 40.64}, [2]float32{2, 73.66}, [2]float32{3, 55.88})
	args := RoutingArguments{Z0: 1, Z1: -1, UnitConversion: 1}

	result, err := Generate(events, args)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	got, ok := result.Get("T1 0.4mm")
	if !ok {
		t.Fatalf("no output for tool, keys %v", result.Keys())
	}
	want := "^IN\nF 15\n" +
		"M 1,40.6\n!ZM -1\n!ZM 1\n" +
		"M 3,55.9\n!ZM -1\n!ZM 1\n" +
		"M 2,73.7\n!ZM -1\n!ZM 1\n" +
		"H\n!MC 0\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if e := result.Entry("T1 0.4mm"); e.Blocks != 1 || e.Holes != 3 {
		t.Errorf("got %d blocks %d holes, want 1 block 3 holes", e.Blocks, e.Holes)
	}
}

func TestGenerateBatches(t *testing.T) {
	var points [][2]float32
	for i := 0; i < 12; i++ {
		points = append(points, [2]float32{1, float32(i)})
	}
	args := RoutingArguments{Z0: 1, Z1: -2, UnitConversion: 1, Stepping: 5}

	result, err := Generate(oneTool(points...), args)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	text, _ := result.Get("T1 0.4mm")
	blocks := strings.Split(strings.TrimSuffix(text, BlockSeparator), BlockSeparator)

	var sizes []int
	for _, b := range blocks {
		sizes = append(sizes, strings.Count(b, "!ZM -2;"))
	}
	if diff := cmp.Diff([]int{5, 5, 2}, sizes); diff != "" {
		t.Errorf("batch sizes mismatch (-want +got):\n%s", diff)
	}
	for _, b := range blocks {
		if strings.Contains(b, "H;") {
			t.Errorf("stepping block should not return home: %q", b)
		}
	}
	if e := result.Entry("T1 0.4mm"); e.Blocks != 3 {
		t.Errorf("got %d blocks, want 3", e.Blocks)
	}
}

func TestGenerateExtremes(t *testing.T) {
	events := oneTool([2]float32{10, 20}, [2]float32{30, 5})
	args := RoutingArguments{Z0: 1, Z1: -2, UnitConversion: 1, Stepping: 10, WriteExtremes: true}

	result, err := Generate(events, args)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	got, _ := result.Get("T1 0.4mm")
	want := "^IN;F 15;M 0,0;!ZM -2;!ZM 1;M 30,20;!ZM -2;!ZM 1;!MC 0;\r\n" +
		"^IN;F 15;M 30,5;!ZM -2;!ZM 1;M 10,20;!ZM -2;!ZM 1;!MC 0;\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if diff := cmp.Diff(Extent{MaxX: 30, MaxY: 20, DeepestZ: -2}, result.Entry("T1 0.4mm").Extent); diff != "" {
		t.Errorf("extent mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateConversionAndSpeed(t *testing.T) {
	speed := float32(5)
	events := oneTool([2]float32{100, 200})
	args := RoutingArguments{Z0: 10, Z1: -20, UnitConversion: 10, SpeedZ: &speed, Stepping: 1}

	result, err := Generate(events, args)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	got, _ := result.Get("T1 0.4mm")
	want := "^IN;F 15;V 5;M 10,20;!ZM -2;!ZM 1;!MC 0;\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateSample(t *testing.T) {
	f := strings.NewReader("M48\nMETRIC\nT1C0.400\nT2C0.800\nT3C1.000\n%\nG90\nG05\nT1\nX1Y-1\nX2Y-2\nT2\nX3Y-3\nT0\nM30\n")
	args := DefaultRoutingArguments()
	args.Z1 = -1
	args.OffsetX = 10

	result, err := NewAssembler().GenerateFromReader(f, args)
	if err != nil {
		t.Fatalf("GenerateFromReader error: %v", err)
	}
	if diff := cmp.Diff([]string{"T1 0.4mm", "T2 0.8mm", "T3 1mm"}, result.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	t2, _ := result.Get("T2 0.8mm")
	if !strings.Contains(t2, "M 13,-3\n") {
		t.Errorf("offset not applied: %q", t2)
	}
	if t3, ok := result.Get("T3 1mm"); !ok || t3 != "" {
		t.Errorf("tool without holes: got %q, %v", t3, ok)
	}

	var counts []int
	for _, e := range result.Entries() {
		counts = append(counts, e.Holes)
	}
	if diff := cmp.Diff([]int{2, 1, 0}, counts); diff != "" {
		t.Errorf("hole counts mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateErrors(t *testing.T) {
	events := oneTool([2]float32{1, 1})

	if _, err := Generate(events, RoutingArguments{}); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("zero conversion: got %v, want ErrInvalidArguments", err)
	}

	args := DefaultRoutingArguments()
	args.Z1 = -9000000
	if _, err := Generate(events, args); !errors.Is(err, rmlprotocol.ErrValidation) {
		t.Errorf("depth out of bounds: got %v, want ErrValidation", err)
	}
}

func TestPlotGenerator(t *testing.T) {
	a := &Assembler{Generator: rmlprotocol.PlotSequence{}}
	events := oneTool([2]float32{123, 234.1})
	args := RoutingArguments{Z1: -200.1, UnitConversion: 1, Stepping: 1}

	result, err := a.Generate(events, args)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	got, _ := result.Get("T1 0.4mm")
	want := "^IN;F 15;@ -200,0;^ PU 123,234.1;^ PD;^ PU;!MC 0;\r\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"T1 0.4mm", "rnl1-T1.out"},
		{"T12 3mm", "rnl1-T12.out"},
		{"plain", "rnl1-plain.out"},
	}
	for _, tt := range tests {
		if got := FileName(tt.label); got != tt.expected {
			t.Errorf("got %q, want %q", got, tt.expected)
		}
	}
}
