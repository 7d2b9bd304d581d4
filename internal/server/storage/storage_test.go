package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuffixedName(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		want    string
	}{
		{"report.pdf", 0, "report.pdf"},
		{"report.pdf", 1, "report_1.pdf"},
		{"report.pdf", 12, "report_12.pdf"},
		{"noext", 1, "noext_1"},
		{"archive.tar.gz", 1, "archive.tar_1.gz"},
		{".hidden", 2, "_2.hidden"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, SuffixedName(tc.name, tc.attempt), "%s attempt %d", tc.name, tc.attempt)
	}
}
