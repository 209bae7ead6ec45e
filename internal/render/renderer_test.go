package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abelbrown/medview/internal/analytics"
)

func dist(labels []string, values []float64) *analytics.Distribution {
	return &analytics.Distribution{Labels: labels, Values: values}
}

func testPayload() *analytics.Payload {
	total := 42
	return &analytics.Payload{
		TotalPatients:         &total,
		AgeDistribution:       dist([]string{"0-18", "19-40"}, []float64{10, 32}),
		GenderDistribution:    dist([]string{"F", "M", "X", "U", "O", "N", "Z"}, []float64{20, 15, 2, 1, 1, 2, 1}),
		DiagnosesDistribution: dist([]string{"J06", "I10", "E11"}, []float64{9, 7, 3}),
		PrescriptionFrequency: dist([]string{"Amoxicillin"}, []float64{4}),
		ExamFrequency:         dist([]string{}, []float64{}),
		ReferralFrequency:     dist([]string{"Cardio", "Derm"}, []float64{2, 1}),
		TemporalDistribution:  dist([]string{"2024-01", "2024-02", "2024-03", "2024-04"}, []float64{12, 30, 18, 25}),
	}
}

func TestRenderCreatesEverySlot(t *testing.T) {
	r := New(false, nil)
	if r.Visible() {
		t.Fatal("dashboard should start hidden")
	}
	if err := r.Render(testPayload()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !r.Visible() {
		t.Error("dashboard should be visible after render")
	}

	live := r.Live()
	if len(live) != len(Slots) {
		t.Fatalf("expected %d live charts, got %d", len(Slots), len(live))
	}
	for i, c := range live {
		if c.Slot != Slots[i] {
			t.Errorf("chart %d bound to %v, want %v", i, c.Slot, Slots[i])
		}
	}

	age := r.Chart("age")
	if age.Slot.Kind != KindBar || len(age.Dataset.Data) != 2 {
		t.Errorf("age chart = %v with %d categories", age.Slot.Kind, len(age.Dataset.Data))
	}
}

func TestRenderTwiceKeepsSevenInstances(t *testing.T) {
	r := New(false, nil)
	p := testPayload()
	if err := r.Render(p); err != nil {
		t.Fatal(err)
	}
	first := r.Live()

	if err := r.Render(p); err != nil {
		t.Fatal(err)
	}
	second := r.Live()

	if len(second) != 7 {
		t.Fatalf("expected 7 live charts, got %d", len(second))
	}
	for i := range first {
		if !first[i].Destroyed() {
			t.Errorf("previous %s instance still alive", first[i].Slot.Name)
		}
		if second[i] == first[i] {
			t.Errorf("%s instance was reused instead of recreated", second[i].Slot.Name)
		}
		if second[i].Destroyed() {
			t.Errorf("current %s instance marked destroyed", second[i].Slot.Name)
		}
	}
	if r.Created() != 14 || r.Destroyed() != 7 {
		t.Errorf("created=%d destroyed=%d, want 14/7", r.Created(), r.Destroyed())
	}
}

func TestRenderRejectsMalformedPayloadWithoutChanges(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	before := r.Live()

	bad := testPayload()
	bad.ReferralFrequency = nil
	err := r.Render(bad)
	if !errors.Is(err, analytics.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}

	after := r.Live()
	for i := range before {
		if after[i] != before[i] || after[i].Destroyed() {
			t.Errorf("slot %s changed on a rejected payload", before[i].Slot.Name)
		}
	}

	if err := New(false, nil).Render(nil); !errors.Is(err, analytics.ErrMissingField) {
		t.Errorf("nil payload: %v", err)
	}
}

func TestStylePolicy(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}

	for _, c := range r.Live() {
		if c.Dataset.Border != SeriesBorder || c.Dataset.BorderWidth != 1 {
			t.Errorf("%s border = %v/%v", c.Slot.Name, c.Dataset.Border, c.Dataset.BorderWidth)
		}
		switch c.Slot.Kind {
		case KindLine:
			if c.Dataset.Tension != 0.4 {
				t.Errorf("line tension = %v", c.Dataset.Tension)
			}
		default:
			if c.Dataset.Tension != 0 {
				t.Errorf("%s tension = %v", c.Slot.Name, c.Dataset.Tension)
			}
		}
		if c.Options.ShowLegend != (c.Slot.Kind == KindPie) {
			t.Errorf("%s legend shown = %v", c.Slot.Name, c.Options.ShowLegend)
		}
		if c.Slot.Kind == KindPie {
			if c.Options.X != nil || c.Options.Y != nil {
				t.Errorf("pie chart has axes")
			}
		} else {
			if c.Options.Y == nil || !c.Options.Y.BeginAtZero {
				t.Errorf("%s y axis must begin at zero", c.Slot.Name)
			}
			if c.FillAt(0) != SeriesFill {
				t.Errorf("%s fill = %v", c.Slot.Name, c.FillAt(0))
			}
		}
	}
}

func TestPiePaletteCycles(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	pie := r.Chart("gender")
	for i := range pie.Dataset.Data {
		if pie.FillAt(i) != PiePalette[i%5] {
			t.Errorf("category %d color = %v, want %v", i, pie.FillAt(i), PiePalette[i%5])
		}
	}
	if pie.FillAt(5) != pie.FillAt(0) {
		t.Error("sixth category should reuse the first color")
	}
	if PiePalette[0].A != 179 || SeriesBorder.A != 255 {
		t.Errorf("alpha = %d/%d", PiePalette[0].A, SeriesBorder.A)
	}
}

func TestApplyThemeRoundTrip(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	live := r.Live()

	r.ApplyTheme(true)
	for _, c := range live {
		if c.Options.LegendColor != FontColor(true) {
			t.Errorf("%s legend not restyled", c.Slot.Name)
		}
		if c.Options.Y != nil && (c.Options.Y.TickColor != FontColor(true) || c.Options.Y.GridColor != GridColor(true)) {
			t.Errorf("%s axes not restyled", c.Slot.Name)
		}
		if c.Revision != 2 {
			t.Errorf("%s revision = %d, want 2", c.Slot.Name, c.Revision)
		}
	}

	r.ApplyTheme(false)
	for i, c := range r.Live() {
		if c != live[i] {
			t.Errorf("%s was recreated by a theme change", c.Slot.Name)
		}
		if c.Options.LegendColor != FontColor(false) {
			t.Errorf("%s legend color not restored", c.Slot.Name)
		}
		if c.Options.X != nil && c.Options.X.GridColor != GridColor(false) {
			t.Errorf("%s grid color not restored", c.Slot.Name)
		}
	}
}

func TestNewChartsUseCurrentMode(t *testing.T) {
	r := New(true, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	if got := r.Chart("age").Options.LegendColor; got != FontColor(true) {
		t.Errorf("first render should use dark colors, got %v", got)
	}
	if Hex(FontColor(false)) != "#333333" || Hex(FontColor(true)) != "#e0e0e0" {
		t.Errorf("font tokens = %s/%s", Hex(FontColor(false)), Hex(FontColor(true)))
	}
}

func TestPNGForEveryKind(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"age", "gender", "timeline"} {
		var buf bytes.Buffer
		if err := r.Chart(name).PNG(&buf, 640, 320); err != nil {
			t.Fatalf("%s PNG: %v", name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Errorf("%s output is not a PNG", name)
		}
	}
}

func TestExportWritesFiles(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(t.TempDir(), "charts")

	paths, err := Export(context.Background(), r.Snapshot(), dir, 640, 320)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// exams has no categories and is skipped.
	if len(paths) != 6 {
		t.Fatalf("expected 6 files, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "age.png" || filepath.Base(paths[len(paths)-1]) != "timeline.png" {
		t.Errorf("paths out of slot order: %v", paths)
	}
	for _, p := range paths {
		if fi, err := os.Stat(p); err != nil || fi.Size() == 0 {
			t.Errorf("missing export %s: %v", p, err)
		}
	}
}

func TestExportSingleMonthAndZeroPie(t *testing.T) {
	p := testPayload()
	p.TemporalDistribution = dist([]string{"2025-03"}, []float64{3})
	p.GenderDistribution = dist([]string{"F", "M"}, []float64{0, 0})

	r := New(false, nil)
	if err := r.Render(p); err != nil {
		t.Fatal(err)
	}
	if r.Chart("gender").Drawable() {
		t.Error("an all-zero pie has nothing to draw")
	}
	if !r.Chart("timeline").Drawable() {
		t.Error("a one-point timeline should be drawable")
	}

	var buf bytes.Buffer
	if err := r.Chart("timeline").PNG(&buf, 640, 320); err != nil {
		t.Fatalf("one-point timeline PNG: %v", err)
	}

	paths, err := Export(context.Background(), r.Snapshot(), t.TempDir(), 640, 320)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	// exams is empty and gender sums to zero.
	if len(paths) != 5 {
		t.Fatalf("expected 5 files, got %d: %v", len(paths), paths)
	}
	if filepath.Base(paths[len(paths)-1]) != "timeline.png" {
		t.Errorf("timeline missing from %v", paths)
	}
	for _, path := range paths {
		if filepath.Base(path) == "gender.png" {
			t.Error("zero pie should be skipped")
		}
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	snap := r.Snapshot()
	r.ApplyTheme(true)
	if snap[0].Options.Y.TickColor != FontColor(false) {
		t.Error("snapshot should not see later theme changes")
	}
}

func TestSmooth(t *testing.T) {
	xs, ys := smooth([]float64{1, 2}, 0.4)
	if len(xs) != 2 || ys[1] != 2 {
		t.Errorf("two points should pass through, got %v %v", xs, ys)
	}

	xs, ys = smooth([]float64{0, 10, 0, 10}, 0.4)
	if len(xs) != 3*smoothSteps+1 {
		t.Errorf("expected %d points, got %d", 3*smoothSteps+1, len(xs))
	}
	if ys[0] != 0 || ys[smoothSteps] != 10 || ys[len(ys)-1] != 10 {
		t.Errorf("spline must pass through the data points: %v", ys)
	}
	for _, y := range ys {
		if y < 0 {
			t.Fatalf("negative interpolated value %v", y)
		}
	}
}

func TestDraw(t *testing.T) {
	r := New(false, nil)
	if err := r.Render(testPayload()); err != nil {
		t.Fatal(err)
	}
	if out := r.Chart("age").Draw(60); !strings.Contains(out, "0-18") || !strings.Contains(out, "32") {
		t.Errorf("bar drawing missing labels/values:\n%s", out)
	}
	if out := r.Chart("gender").Draw(60); !strings.Contains(out, "%") {
		t.Errorf("pie drawing missing shares:\n%s", out)
	}
	if out := r.Chart("timeline").Draw(60); !strings.Contains(out, "2024-04") {
		t.Errorf("line drawing missing last label:\n%s", out)
	}
	if out := r.Chart("exams").Draw(60); !strings.Contains(out, "no data") {
		t.Errorf("empty chart drawing:\n%s", out)
	}
}
