// Package sim replays simulated time over each offline account, emitting the
// payroll credits, periodic fees, and store purchases that make up its
// transaction history. Accounts never interact; the only mutable state is
// each account's own balance.
package sim

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/config"
	"bankgen/internal/model"
	"bankgen/internal/util"
)

// Simulator walks accounts from open date to close-or-snapshot.
type Simulator struct {
	Rand   *rand.Rand
	Config config.Simulator
	AsOf   time.Time
}

// New constructs a simulator around the shared random source and the frozen
// run snapshot.
func New(cfg config.Simulator, r *rand.Rand, asOf time.Time) *Simulator {
	return &Simulator{Rand: r, Config: cfg, AsOf: asOf}
}

// OpeningDeposits emits one synthetic counter deposit per account, dated at
// the open date and crediting exactly the starting balance, routed through
// the branch of the owning customer's home state. The starting balance is
// already on the account, so no balance mutation happens here.
func (s *Simulator) OpeningDeposits(d *model.Dataset) ([]model.Transaction, error) {
	deposits := make([]model.Transaction, 0, len(d.Offline))
	for i, acct := range d.Offline {
		branch, err := s.homeBranch(d, i)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, s.transaction(
			acct.ID, branch.Routing, acct.ID,
			"COUNTER DEPOSIT", acct.Balance(), acct.Open, model.Credit,
		))
	}
	return deposits, nil
}

// Simulate walks every account and returns its generated activity, appended
// after the opening deposits.
func (s *Simulator) Simulate(d *model.Dataset) ([]model.Transaction, error) {
	transactions, err := s.OpeningDeposits(d)
	if err != nil {
		return nil, err
	}
	if len(d.Stores) == 0 {
		return nil, errors.New("simulate: no stores to purchase from")
	}
	for i := range d.Offline {
		branch, err := s.homeBranch(d, i)
		if err != nil {
			return nil, err
		}
		account, err := s.walk(d.Offline[i], branch, d.Stores, &transactions)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", d.Offline[i].ID)
		}
		util.Debugf("simulate: account %s done (%d transactions so far)", account, len(transactions))
	}
	return transactions, nil
}

// walk advances simulated time in random 1..StepDaysMax day steps until the
// close date or the run snapshot, whichever comes first. Pay and fee counters
// carry their overshoot through a modulo reset so periodicity stays
// drift-free. Debits are emitted only when coverage at their own date allows
// it: purchases that cannot be funded are silently dropped, and an unfunded
// fee is waived for that period.
func (s *Simulator) walk(acct *model.Offline, branch model.Branch, stores []model.Store, out *[]model.Transaction) (string, error) {
	until := s.AsOf
	if acct.Close != nil && acct.Close.Before(until) {
		until = *acct.Close
	}

	payLower := util.RandIntRange(s.Rand, s.Config.PayLowerMin, s.Config.PayLowerMax)
	payUpper := util.RandIntRange(s.Rand, s.Config.PayUpperMin, s.Config.PayUpperMax)
	payCounter, feeCounter := 0, 0
	credits := recentCredits{}
	date := acct.Open

	for date.Before(until) {
		step := util.RandIntRange(s.Rand, 1, s.Config.StepDaysMax)
		purchases := util.RandIntRange(s.Rand, 1, s.Config.PurchasesPerDayMax)
		credits.prune(date.AddDate(0, 0, -s.Config.StepDaysMax))

		// Fee first: it is backdated by the counter remainder, so its funding
		// check must not see this step's payroll credit, which may replay
		// after it.
		if feeCounter >= s.Config.FeePeriodDays && acct.MonthlyFee > 0 {
			feeCounter %= s.Config.FeePeriodDays
			feeDate := date.AddDate(0, 0, -feeCounter)
			if s.covered(acct, credits, feeDate, acct.MonthlyFee) {
				*out = append(*out, s.transaction(
					acct.ID, branch.Routing, branch.Account,
					"ACCOUNT MONTHLY FEE", acct.MonthlyFee, feeDate, model.Debit,
				))
				acct.Debit(acct.MonthlyFee)
			}
		} else {
			feeCounter += step
		}

		if payCounter >= s.Config.PayPeriodDays {
			payCounter %= s.Config.PayPeriodDays
			desc := "COUNTER DEPOSIT"
			if util.Chance(s.Rand, 50) {
				desc = "DIRECT DEPOSIT"
			}
			amount := float64(util.RandIntRange(s.Rand, payLower, payUpper))
			payDate := date.AddDate(0, 0, -payCounter)
			*out = append(*out, s.transaction(
				acct.ID, branch.Routing, acct.ID,
				desc, amount, payDate, model.Credit,
			))
			acct.Credit(amount)
			credits.add(payDate, amount)
		} else {
			payCounter += step
		}

		for k := 0; k < purchases; k++ {
			store := stores[s.Rand.Intn(len(stores))]
			price := store.Price(s.Rand)
			if !s.covered(acct, credits, date, price) {
				continue
			}
			*out = append(*out, s.transaction(
				acct.ID, store.Routing, store.Account,
				strings.ToUpper(store.Name), price, date, model.Debit,
			))
			acct.Debit(price)
		}

		if acct.Balance() < 0 {
			return "", errors.Errorf("balance went negative on %s", util.FormatDate(date))
		}
		date = date.AddDate(0, 0, step)
	}
	return acct.ID, nil
}

// covered reports whether a debit dated at the given day replays without
// driving the balance negative: the current balance minus any credits dated
// after the debit must cover the amount.
func (s *Simulator) covered(acct *model.Offline, credits recentCredits, date time.Time, amount float64) bool {
	return acct.Balance()-credits.after(date) >= amount
}

// recentCredits tracks credits young enough to postdate a backdated debit.
type recentCredits []struct {
	date   time.Time
	amount float64
}

func (rc *recentCredits) add(date time.Time, amount float64) {
	*rc = append(*rc, struct {
		date   time.Time
		amount float64
	}{date, amount})
}

func (rc *recentCredits) prune(cutoff time.Time) {
	kept := (*rc)[:0]
	for _, c := range *rc {
		if c.date.After(cutoff) {
			kept = append(kept, c)
		}
	}
	*rc = kept
}

func (rc recentCredits) after(date time.Time) float64 {
	total := 0.0
	for _, c := range rc {
		if c.date.After(date) {
			total += c.amount
		}
	}
	return total
}

// transaction stamps the pending flag against the frozen snapshot: anything
// dated within the trailing window is still settling.
func (s *Simulator) transaction(account, route, recv, desc string, amount float64, date time.Time, typ model.TxnType) model.Transaction {
	return model.Transaction{
		Account:     account,
		RecvRouting: route,
		RecvAccount: recv,
		Description: desc,
		Amount:      amount,
		Date:        date,
		Type:        typ,
		Pending:     util.DaysBetween(date, s.AsOf) < s.Config.PendingWindowDays,
	}
}

func (s *Simulator) homeBranch(d *model.Dataset, i int) (model.Branch, error) {
	cid := d.Owners[i].Customer
	if cid < 0 || cid >= len(d.Customers) {
		return model.Branch{}, errors.Errorf("account %s has no owner", d.Offline[i].ID)
	}
	state := d.Customers[cid].State
	if state < 0 || state >= len(d.Branches) {
		return model.Branch{}, errors.Errorf("customer %d: no branch for state %d", cid, state)
	}
	return d.Branches[state], nil
}
