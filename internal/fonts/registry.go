// Package fonts resolves font specs to faces, backed by the embedded Go fonts
// and optionally a directory of TrueType files.
package fonts

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	FamilyGo   = "go"
	FamilyMono = "go mono"
)

type variant struct {
	weight Weight
	italic bool
}

type entry struct {
	data   []byte
	parsed *truetype.Font
}

// Registry maps families and variants to TrueType data. Parsed fonts are
// cached; faces are created fresh for every call to Face.
type Registry struct {
	mu       sync.Mutex
	families map[string]map[variant]*entry
	aliases  map[string]string
}

// NewRegistry returns a registry holding the Go font families.
func NewRegistry() *Registry {
	r := &Registry{
		families: map[string]map[variant]*entry{},
		aliases: map[string]string{
			"":           FamilyGo,
			"sans":       FamilyGo,
			"sans-serif": FamilyGo,
			"serif":      FamilyGo,
			"system-ui":  FamilyGo,
			"mono":       FamilyMono,
			"monospace":  FamilyMono,
			"gomono":     FamilyMono,
		},
	}
	builtin := []struct {
		family string
		v      variant
		data   []byte
	}{
		{FamilyGo, variant{Regular, false}, goregular.TTF},
		{FamilyGo, variant{Medium, false}, gomedium.TTF},
		{FamilyGo, variant{Bold, false}, gobold.TTF},
		{FamilyGo, variant{Regular, true}, goitalic.TTF},
		{FamilyGo, variant{Medium, true}, gomediumitalic.TTF},
		{FamilyGo, variant{Bold, true}, gobolditalic.TTF},
		{FamilyMono, variant{Regular, false}, gomono.TTF},
		{FamilyMono, variant{Bold, false}, gomonobold.TTF},
		{FamilyMono, variant{Regular, true}, gomonoitalic.TTF},
		{FamilyMono, variant{Bold, true}, gomonobolditalic.TTF},
	}
	for _, b := range builtin {
		r.add(b.family, b.v, b.data)
	}
	return r
}

func (r *Registry) add(family string, v variant, data []byte) {
	family = strings.ToLower(family)
	if r.families[family] == nil {
		r.families[family] = map[variant]*entry{}
	}
	r.families[family][v] = &entry{data: data}
}

// Register adds TrueType data for a family variant. The data is parsed
// immediately so a bad file is reported here rather than at render time.
func (r *Registry) Register(family string, weight Weight, italic bool, data []byte) error {
	f, err := truetype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s %s: %w", family, weight, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(family, variant{weight, italic}, data)
	r.families[strings.ToLower(family)][variant{weight, italic}].parsed = f
	return nil
}

// LoadDir registers every .ttf file in dir. The family and variant come from
// the file name: "Impact.ttf", "Arial-Bold.ttf", "Arial-BoldItalic.ttf".
// It returns the number of fonts registered.
func (r *Registry) LoadDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.ttf"))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return n, fmt.Errorf("read font %s: %w", p, err)
		}
		family, weight, italic := variantFromName(filepath.Base(p))
		if err := r.Register(family, weight, italic, data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func variantFromName(name string) (string, Weight, bool) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	family, style, found := strings.Cut(name, "-")
	if !found {
		return family, Regular, false
	}
	s := strings.ToLower(style)
	italic := strings.Contains(s, "italic") || strings.Contains(s, "oblique")
	weight := Regular
	switch {
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"), strings.Contains(s, "medium"):
		weight = Medium
	case strings.Contains(s, "bold"), strings.Contains(s, "black"), strings.Contains(s, "heavy"):
		weight = Bold
	}
	return family, weight, italic
}

// Face returns a new face for spec. Unknown families fall back to the Go
// font; missing variants fall back to the nearest registered one.
func (r *Registry) Face(spec Spec) (font.Face, error) {
	f, err := r.font(spec)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Has reports whether family resolves to a registered family without
// falling back.
func (r *Registry) Has(family string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.families[r.canonical(family)]
	return ok
}

func (r *Registry) canonical(family string) string {
	family = strings.ToLower(strings.TrimSpace(family))
	if alias, ok := r.aliases[family]; ok {
		return alias
	}
	return family
}

func (r *Registry) font(spec Spec) (*truetype.Font, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	variants, ok := r.families[r.canonical(spec.Family)]
	if !ok {
		variants = r.families[FamilyGo]
	}
	e := pick(variants, variant{spec.Weight, spec.Italic})
	if e.parsed == nil {
		f, err := truetype.Parse(e.data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", spec, err)
		}
		e.parsed = f
	}
	return e.parsed, nil
}

var allVariants = []variant{
	{Regular, false}, {Regular, true},
	{Medium, false}, {Medium, true},
	{Bold, false}, {Bold, true},
}

// fallbackOrder lists every variant, nearest weight first, then matching
// slant, then lighter before heavier.
func fallbackOrder(want variant) []variant {
	order := slices.Clone(allVariants)
	key := func(v variant) (int, int, Weight) {
		dw := int(v.weight) - int(want.weight)
		if dw < 0 {
			dw = -dw
		}
		slant := 0
		if v.italic != want.italic {
			slant = 1
		}
		return dw, slant, v.weight
	}
	slices.SortStableFunc(order, func(a, b variant) int {
		ad, as, aw := key(a)
		bd, bs, bw := key(b)
		return cmp.Or(cmp.Compare(ad, bd), cmp.Compare(as, bs), cmp.Compare(aw, bw))
	})
	return order
}

// pick returns the first registered variant in fallbackOrder(want).
func pick(variants map[variant]*entry, want variant) *entry {
	for _, v := range fallbackOrder(want) {
		if e, ok := variants[v]; ok {
			return e
		}
	}
	return nil
}
