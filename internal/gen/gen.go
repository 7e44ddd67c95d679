// Package gen produces the customer, employee, account, card, branch, and
// store records of a dataset. Every attribute is drawn from one injected
// random source so a fixed seed reproduces the full population.
package gen

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/config"
	"bankgen/internal/geo"
	"bankgen/internal/unique"
)

// Identifier widths for each namespace.
const (
	SSNWidth     = 9
	PhoneWidth   = 7
	AccountWidth = 12
	CardWidth    = 16
	RoutingWidth = 10
)

// maxSelectTries bounds filtered random selection (unique customer, active
// supervisor). Exhausting it means the configured population cannot satisfy
// the filter, which is a configuration error, not a retry candidate.
const maxSelectTries = 1 << 16

// Generator builds entities against a geography and identifier namespaces.
type Generator struct {
	Rand    *rand.Rand
	Config  config.Config
	Country *geo.Country
	AsOf    time.Time

	ssn      *unique.Namespace
	phone    *unique.Namespace
	accounts *unique.Namespace
	cards    *unique.Namespace
	routing  *unique.Namespace
}

// New constructs a Generator. asOf is the frozen "now" snapshot every date
// comparison uses.
func New(cfg config.Config, r *rand.Rand, country *geo.Country, asOf time.Time) *Generator {
	return &Generator{
		Rand:     r,
		Config:   cfg,
		Country:  country,
		AsOf:     asOf,
		ssn:      unique.NewNamespace(r, SSNWidth),
		phone:    unique.NewNamespace(r, PhoneWidth),
		accounts: unique.NewNamespace(r, AccountWidth),
		cards:    unique.NewNamespace(r, CardWidth),
		routing:  unique.NewNamespace(r, RoutingWidth),
	}
}

// NewAccountID issues an account id from the shared account namespace, so
// branch house accounts and store counterparties can never collide with
// customer accounts.
func (g *Generator) NewAccountID() (string, error) {
	return g.accounts.Next()
}

// NewRoutingNumber issues a routing number from the shared registry.
func (g *Generator) NewRoutingNumber() (string, error) {
	return g.routing.Next()
}

// pickUnique draws uniform indices below n until accept approves one,
// failing once the try budget is spent.
func (g *Generator) pickUnique(n int, what string, accept func(int) bool) (int, error) {
	if n <= 0 {
		return 0, errors.Errorf("select %s: empty pool", what)
	}
	for i := 0; i < maxSelectTries; i++ {
		idx := g.Rand.Intn(n)
		if accept(idx) {
			return idx, nil
		}
	}
	return 0, errors.Errorf("select %s: no candidate after %d tries; population or percentages too small", what, maxSelectTries)
}
