package gen

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/model"
	"bankgen/internal/seedfile"
	"bankgen/internal/util"
)

var emailDomains = []string{
	"yahoo.com",
	"gmail.com",
	"hotmail.com",
	"outlook.com",
	"mail.com",
	"mail.google.com",
	"mymail.org",
}

// Customers builds one customer per seed row: random birthdate within the
// configured age band, a unique SSN and phone number, a synthesized email,
// and address indices into the geography.
func (g *Generator) Customers(rows []seedfile.CustomerRow) ([]model.Customer, error) {
	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		c, err := g.customer(row)
		if err != nil {
			return nil, errors.Wrapf(err, "customer %s %s", row.First, row.Last)
		}
		customers = append(customers, c)
	}
	util.Debugf("customers: %d generated", len(customers))
	return customers, nil
}

func (g *Generator) customer(row seedfile.CustomerRow) (model.Customer, error) {
	ssn, err := g.ssn.Next()
	if err != nil {
		return model.Customer{}, err
	}
	phone, err := g.phone.Next()
	if err != nil {
		return model.Customer{}, err
	}
	state, city, street, err := g.Country.RandAddress()
	if err != nil {
		return model.Customer{}, err
	}

	// Uniform day offset within the age band, redrawn if year-boundary
	// rounding lands the customer under the minimum age.
	minAge, maxAge := g.Config.Ages.CustomerMin, g.Config.Ages.CustomerMax
	var dob = g.AsOf
	for {
		dob = util.RandDateBack(g.Rand, g.AsOf, 365*minAge, 365*maxAge)
		if !dob.AddDate(minAge, 0, 0).After(g.AsOf) {
			break
		}
	}

	return model.Customer{
		First:  row.First,
		Last:   row.Last,
		Sex:    row.Gender,
		DOB:    dob,
		SSN:    ssn,
		Phone:  phone,
		Email:  g.email(row.First, row.Last),
		State:  state,
		City:   city,
		Street: street,
		House:  util.RandIntRange(g.Rand, 100, 999),
	}, nil
}

// email joins a prefix of the first name, the last name, and a random
// three-digit suffix under a random provider domain.
func (g *Generator) email(first, last string) string {
	cut := util.RandIntRange(g.Rand, 0, 3)
	if cut > len(first) {
		cut = len(first)
	}
	local := strings.ReplaceAll(first[:cut], "'", "") + strings.ReplaceAll(last, "'", "")
	domain := emailDomains[g.Rand.Intn(len(emailDomains))]
	return fmt.Sprintf("%s%d@%s", local, util.RandIntRange(g.Rand, 100, 999), domain)
}

// Age returns a customer's age in whole years at the run snapshot.
func (g *Generator) Age(c model.Customer) int {
	years := g.AsOf.Year() - c.DOB.Year()
	if g.AsOf.Before(c.DOB.AddDate(years, 0, 0)) {
		years--
	}
	return years
}

// Maturity returns the date a customer becomes eligible at the given age.
func Maturity(c model.Customer, years int) time.Time {
	return c.DOB.AddDate(years, 0, 0)
}
