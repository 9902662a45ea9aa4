package randcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	g := New(6)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code := g.Generate()
		assert.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code must be decimal: %s", code)
		}
		seen[code] = struct{}{}
	}

	// 100 draws from a million-code space should not all collide
	assert.Greater(t, len(seen), 1)
}
