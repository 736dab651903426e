package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"Street":  `%street%`,
		"a_c":     `%a\_c%`,
		"100%":    `%100\%%`,
		`C:\road`: `%c:\\road%`,
	}
	for term, want := range cases {
		assert.Equal(t, want, containsPattern(term), term)
	}
}
