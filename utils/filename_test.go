package utils

import (
	"testing"
	"time"
)

func TestTimestampedFilename(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 45, 0, time.UTC)

	tests := []struct {
		name string
		want string
	}{
		{"scores.csv", "scores_20240115_093045.csv"},
		{"scores 2024.XLSX", "scores_2024_20240115_093045.xlsx"},
		{"../../etc/passwd.csv", "passwd_20240115_093045.csv"},
		{"résumé.csv", "r_sum_20240115_093045.csv"},
		{".csv", "upload_20240115_093045.csv"},
	}

	for _, tt := range tests {
		if got := TimestampedFilename(tt.name, at); got != tt.want {
			t.Errorf("TimestampedFilename(%q): got %q, want %q", tt.name, got, tt.want)
		}
	}
}
