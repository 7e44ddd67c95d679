package geo

import (
	"math/rand"

	"github.com/pkg/errors"

	"bankgen/internal/util"
)

// Area codes that must never be generated. Codes with a leading zero are
// also rejected.
var reservedCodes = map[string]struct{}{
	"911": {},
	"411": {},
	"800": {},
}

// CodeRegistry hands out 3-digit phone area codes that are unique across the
// whole country, skipping reserved ranges.
type CodeRegistry struct {
	rand   *rand.Rand
	issued map[string]struct{}
}

// NewCodeRegistry creates an empty registry.
func NewCodeRegistry(r *rand.Rand) *CodeRegistry {
	return &CodeRegistry{rand: r, issued: make(map[string]struct{})}
}

// GenCode returns a fresh non-reserved area code.
func (c *CodeRegistry) GenCode() (string, error) {
	for i := 0; i < maxPickTries; i++ {
		code := util.RandDigits(c.rand, 3)
		if Reserved(code) {
			continue
		}
		if _, dup := c.issued[code]; dup {
			continue
		}
		c.issued[code] = struct{}{}
		return code, nil
	}
	return "", errors.Errorf("area code space exhausted after %d issued", len(c.issued))
}

// ReserveCode marks an externally loaded code as taken.
func (c *CodeRegistry) ReserveCode(code string) {
	c.issued[code] = struct{}{}
}

// Reserved reports whether an area code may never be issued.
func Reserved(code string) bool {
	if len(code) == 0 || code[0] == '0' {
		return true
	}
	_, ok := reservedCodes[code]
	return ok
}
