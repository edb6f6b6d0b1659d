package refcode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

func TestGenerate_Format(t *testing.T) {
	code := Generate("PKT", testDate)

	parts := strings.Split(code, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "PKT", parts[0])
	assert.Equal(t, "20251015", parts[1])
	assert.Len(t, parts[2], codeSuffixLength)
}

func TestGenerate_NormalizesPrefix(t *testing.T) {
	code := Generate("  pkt ", testDate)

	assert.True(t, strings.HasPrefix(code, "PKT-"))
}

func TestGenerate_EmptyPrefixFallsBack(t *testing.T) {
	code := Generate("", testDate)

	assert.True(t, strings.HasPrefix(code, "TRM-"))
}

func TestGenerate_UniqueSuffixes(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := Generate("PKT", testDate)
		_, dup := seen[code]
		require.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
}
