package utils

import (
	"path/filepath"
	"strings"
	"time"
)

// TimestampedFilename sanitizes an uploaded filename and appends the upload
// timestamp before the extension, e.g. "scores 2024.csv" becomes
// "scores_2024_20240115_093045.csv".
func TimestampedFilename(name string, at time.Time) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := sanitize(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "upload"
	}
	return stem + "_" + at.Format("20060102_150405") + strings.ToLower(ext)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
