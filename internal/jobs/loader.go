package jobs

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	imagepkg "github.com/youruser/ogcanvas/internal/image"
)

const dateLayout = "2006-01-02"

// LoadDir loads every .csv file in dir, in name order.
func LoadDir(dir string) ([]Job, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no job CSVs found in %s", dir)
	}
	sort.Strings(files)

	var all []Job
	for _, f := range files {
		js, err := LoadCSV(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		all = append(all, js...)
	}
	return all, nil
}

// checkName rejects names that would leave the output directory.
func checkName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("empty name")
	case strings.ContainsAny(name, `/\`), strings.Contains(name, ".."):
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

// LoadCSV reads jobs from a CSV file with a header row. Recognised columns
// are name, title, description, date (YYYY-MM-DD), width, height,
// background, background_color, text_color, qr_text and format; others are
// ignored. Names may not contain path separators or "..". An empty width or
// height takes the OpenGraph default for that dimension.
func LoadCSV(path string) ([]Job, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv %s has no name column", path)
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}
	atoi := func(row []string, name string, line int) (int, error) {
		s := get(row, name)
		if s == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%s line %d: %s: %w", path, line, name, err)
		}
		return v, nil
	}

	out := []Job{}
	for i, row := range rows[1:] {
		line := i + 2
		j := Job{
			Name:            get(row, "name"),
			Title:           get(row, "title"),
			Description:     get(row, "description"),
			Background:      get(row, "background"),
			BackgroundColor: get(row, "background_color"),
			TextColor:       get(row, "text_color"),
			QRText:          get(row, "qr_text"),
			Format:          imagepkg.Format(get(row, "format")),
		}
		if err := checkName(j.Name); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if s := get(row, "date"); s != "" {
			d, err := time.Parse(dateLayout, s)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: date: %w", path, line, err)
			}
			j.Date = d
		}
		if j.Width, err = atoi(row, "width", line); err != nil {
			return nil, err
		}
		if j.Height, err = atoi(row, "height", line); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}
