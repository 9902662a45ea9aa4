package randcode

import (
	"crypto/rand"
	"math/big"
)

const digits = "0123456789"

type Generator struct {
	length int
}

func New(length int) *Generator {
	return &Generator{length: length}
}

// Generate returns a uniform random fixed-width decimal string.
// Leading zeros are allowed, so the code space is the full 10^length.
func (g *Generator) Generate() string {
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			panic(err)
		}
		b[i] = digits[n.Int64()]
	}

	return string(b)
}
