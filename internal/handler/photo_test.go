package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
		ok   bool
	}{
		{"empty", "", nil, true},
		{"single", "nature", []string{"nature"}, true},
		{"trims whitespace", " nature , city ", []string{"nature", "city"}, true},
		{"deduplicates", "a,b,a,b,a", []string{"a", "b"}, true},
		{"drops empty parts", "a,,b,", []string{"a", "b"}, true},
		{"at the cap", "a,b,c,d,e", []string{"a", "b", "c", "d", "e"}, true},
		{"over the cap", "a,b,c,d,e,f", nil, false},
		{"duplicates do not count toward cap", "a,a,b,b,c,c,d,d,e,e", []string{"a", "b", "c", "d", "e"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTags(tc.raw)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
