package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLettersBoundaries(t *testing.T) {
	got := Letters(27)
	if len(got) != 27 {
		t.Fatalf("expected 27 labels, got %d", len(got))
	}
	assert.Equal(t, "A", got[0])
	assert.Equal(t, "Z", got[25])
	assert.Equal(t, "AA", got[26])
}

func TestLettersDeepSequence(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{703, "AAB"},
	}
	got := Letters(704)
	for _, tt := range tests {
		if got[tt.index] != tt.want {
			t.Errorf("Letters(704)[%d] = %q, want %q", tt.index, got[tt.index], tt.want)
		}
	}
}

func TestLettersPrefixStable(t *testing.T) {
	short := Letters(40)
	long := Letters(41)
	assert.Equal(t, short, long[:40])
}
