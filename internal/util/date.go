package util

import "time"

// PrettyDate formats t as "Month Year", e.g. "March 2024".
func PrettyDate(t time.Time) string {
	return t.Format("January 2006")
}
