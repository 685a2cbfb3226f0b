package fonts

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomediumitalic"
)

func TestParseCSS(t *testing.T) {
	tests := []struct {
		in   string
		want Spec
	}{
		{"30px Impact", Spec{Family: "Impact", Size: 30}},
		{"16px Arial", Spec{Family: "Arial", Size: 16}},
		{"bold 64px Go", Spec{Family: "Go", Size: 64, Weight: Bold}},
		{`italic 600 12pt "Open Sans", sans-serif`, Spec{Family: "Open Sans", Size: 16, Weight: Medium, Italic: true}},
		{"normal normal 20px/1.5 mono", Spec{Family: "mono", Size: 20}},
		{"700 10px", Spec{Size: 10, Weight: Bold}},
	}
	for _, tt := range tests {
		got, err := ParseCSS(tt.in)
		if err != nil {
			t.Errorf("ParseCSS(%q) error: %v", tt.in, err)
			continue
		}
		if got.Family != tt.want.Family || got.Weight != tt.want.Weight || got.Italic != tt.want.Italic ||
			math.Abs(got.Size-tt.want.Size) > 1e-9 {
			t.Errorf("ParseCSS(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseCSSErrors(t *testing.T) {
	if _, err := ParseCSS("bold Impact"); err == nil {
		t.Error("expected an error for a shorthand without size")
	}
	if _, err := ParseCSS("bold"); !errors.Is(err, ErrNoSize) {
		t.Errorf("expected ErrNoSize, got %v", err)
	}
	if _, err := ParseCSS(""); !errors.Is(err, ErrNoSize) {
		t.Errorf("expected ErrNoSize for empty input, got %v", err)
	}
}

func TestFaceFallsBackToGo(t *testing.T) {
	r := NewRegistry()
	if r.Has("Impact") {
		t.Fatal("Impact should not be registered")
	}
	if !r.Has("sans-serif") || !r.Has("Go") {
		t.Fatal("built-in families missing")
	}

	impact, err := r.Face(Spec{Family: "Impact", Size: 30})
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	goFace, err := r.Face(Spec{Family: "go", Size: 30})
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if a, b := font.MeasureString(impact, "Awesome!"), font.MeasureString(goFace, "Awesome!"); a != b {
		t.Errorf("fallback width %v differs from Go regular %v", a, b)
	}
}

func TestFaceWeightsDiffer(t *testing.T) {
	r := NewRegistry()
	regular, _ := r.Face(Spec{Family: "go", Size: 40})
	bold, _ := r.Face(Spec{Family: "go", Size: 40, Weight: Bold})
	if font.MeasureString(regular, "Wide Words") >= font.MeasureString(bold, "Wide Words") {
		t.Error("expected bold text to be wider than regular")
	}
	// Mono has no medium cut; the nearest variant must still resolve.
	if _, err := r.Face(Spec{Family: "monospace", Size: 12, Weight: Medium}); err != nil {
		t.Errorf("medium monospace: %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Brand-Bold.ttf"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	n, err := r.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if n != 1 {
		t.Fatalf("registered %d fonts, want 1", n)
	}
	if !r.Has("brand") {
		t.Error("brand family not registered")
	}
	if _, err := r.Face(Spec{Family: "Brand", Size: 20, Weight: Bold}); err != nil {
		t.Errorf("Face: %v", err)
	}
}

func TestLoadDirRejectsBadFont(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Broken.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistry().LoadDir(dir); err == nil {
		t.Error("expected an error for an unparsable font")
	}
}

func TestVariantFromName(t *testing.T) {
	tests := []struct {
		name   string
		family string
		weight Weight
		italic bool
	}{
		{"Impact.ttf", "Impact", Regular, false},
		{"Arial-Bold.ttf", "Arial", Bold, false},
		{"Arial-BoldItalic.ttf", "Arial", Bold, true},
		{"Inter-SemiBold.ttf", "Inter", Medium, false},
		{"Inter-Italic.ttf", "Inter", Regular, true},
	}
	for _, tt := range tests {
		f, w, i := variantFromName(tt.name)
		if f != tt.family || w != tt.weight || i != tt.italic {
			t.Errorf("variantFromName(%q) = %q %v %v", tt.name, f, w, i)
		}
	}
}

func TestFallbackOrderIsNearestWeightFirst(t *testing.T) {
	tests := []struct {
		want variant
		head []variant
	}{
		{variant{Medium, true}, []variant{{Medium, true}, {Medium, false}, {Regular, true}, {Bold, true}}},
		{variant{Regular, false}, []variant{{Regular, false}, {Regular, true}, {Medium, false}, {Medium, true}, {Bold, false}, {Bold, true}}},
		{variant{Bold, false}, []variant{{Bold, false}, {Bold, true}, {Medium, false}, {Medium, true}}},
	}
	for _, tt := range tests {
		order := fallbackOrder(tt.want)
		if len(order) != 6 {
			t.Fatalf("fallbackOrder(%v) lists %d variants, want 6", tt.want, len(order))
		}
		for i, v := range tt.head {
			if order[i] != v {
				t.Errorf("fallbackOrder(%v)[%d] = %v, want %v", tt.want, i, order[i], v)
			}
		}
	}
}

func TestFaceResolvesStablyWithPartialFamily(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Brand-MediumItalic.ttf"), gomediumitalic.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Brand-BoldItalic.ttf"), gobold.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRegistry()
	if _, err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}

	want := r.families["brand"][variant{Medium, true}]
	for i := 0; i < 50; i++ {
		if got := pick(r.families["brand"], variant{Regular, false}); got != want {
			t.Fatalf("call %d picked a different variant", i)
		}
	}

	const sample = "Stable fallback"
	medium, err := r.Face(Spec{Family: "Brand", Size: 24, Weight: Medium, Italic: true})
	if err != nil {
		t.Fatal(err)
	}
	wantWidth := font.MeasureString(medium, sample)
	for i := 0; i < 20; i++ {
		f, err := r.Face(Spec{Family: "Brand", Size: 24})
		if err != nil {
			t.Fatal(err)
		}
		if got := font.MeasureString(f, sample); got != wantWidth {
			t.Fatalf("call %d: width %v, want %v (medium italic)", i, got, wantWidth)
		}
	}
}
