// Package unique issues fixed-width numeric identifiers that never repeat
// within a namespace.
package unique

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"bankgen/internal/util"
)

// MaxDraws bounds the retry loop. The identifier space vastly exceeds the
// number of draws any run performs, so hitting the cap indicates a defect
// (or a namespace sized far too small) rather than bad luck.
const MaxDraws = 1 << 20

// Namespace issues unique digit strings of a fixed width.
type Namespace struct {
	width  int
	rand   *rand.Rand
	issued map[string]struct{}
}

// NewNamespace creates a namespace issuing width-digit identifiers.
// The all-zero string is reserved and never issued.
func NewNamespace(r *rand.Rand, width int) *Namespace {
	return &Namespace{
		width:  width,
		rand:   r,
		issued: make(map[string]struct{}),
	}
}

// Width returns the digit width of issued identifiers.
func (n *Namespace) Width() int {
	return n.width
}

// Issued returns how many identifiers have been handed out.
func (n *Namespace) Issued() int {
	return len(n.issued)
}

// Next returns a fresh identifier, retrying on collision until a free value
// is found. The reserved all-zero value is skipped.
func (n *Namespace) Next() (string, error) {
	zero := strings.Repeat("0", n.width)
	for i := 0; i < MaxDraws; i++ {
		id := util.RandDigits(n.rand, n.width)
		if id == zero {
			continue
		}
		if _, dup := n.issued[id]; dup {
			continue
		}
		n.issued[id] = struct{}{}
		return id, nil
	}
	return "", errors.Errorf("namespace width %d exhausted after %d draws (%d issued)", n.width, MaxDraws, len(n.issued))
}

// Reserve marks an identifier as already issued, for values loaded from
// outside the namespace.
func (n *Namespace) Reserve(id string) {
	n.issued[id] = struct{}{}
}
