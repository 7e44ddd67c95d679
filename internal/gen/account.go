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

// credentialStrip removes characters not allowed in usernames.
var credentialStrip = strings.NewReplacer("-", "", "'", "")

// OnlineAccounts samples the configured fraction of customers into online
// accounts, each with generated credentials and a distinct recovery question
// set drawn from the shared pool.
func (g *Generator) OnlineAccounts(customers []model.Customer, questions []seedfile.QuestionRow) ([]model.Online, error) {
	count := len(customers) * g.Config.Population.OnlinePercent / 100
	if count > 0 && len(questions) < g.Config.Accounts.RecoveryCount {
		return nil, errors.Errorf("online accounts need %d recovery questions, have %d", g.Config.Accounts.RecoveryCount, len(questions))
	}
	epoch, err := g.Config.OnlineEpoch()
	if err != nil {
		return nil, err
	}

	accounts := make([]model.Online, 0, count)
	taken := make(map[int]struct{}, count)
	for i := 0; i < count; i++ {
		cid, err := g.pickUnique(len(customers), "online account customer", func(idx int) bool {
			_, dup := taken[idx]
			return !dup
		})
		if err != nil {
			return nil, err
		}
		taken[cid] = struct{}{}
		acct, err := g.online(customers[cid], cid, questions, epoch)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	util.Debugf("online accounts: %d generated", len(accounts))
	return accounts, nil
}

func (g *Generator) online(c model.Customer, cid int, questions []seedfile.QuestionRow, epoch time.Time) (model.Online, error) {
	username := fmt.Sprintf("%c%s%d", c.First[0], c.Last, util.RandIntRange(g.Rand, 100, 999))
	username = strings.ToLower(credentialStrip.Replace(username))

	recovery := make([]model.Recovery, 0, g.Config.Accounts.RecoveryCount)
	used := make(map[int]struct{}, g.Config.Accounts.RecoveryCount)
	for k := 0; k < g.Config.Accounts.RecoveryCount; k++ {
		qi, err := g.pickUnique(len(questions), "recovery question", func(idx int) bool {
			_, dup := used[idx]
			return !dup
		})
		if err != nil {
			return model.Online{}, err
		}
		used[qi] = struct{}{}
		recovery = append(recovery, model.Recovery{
			Question: qi,
			Answer:   g.Rand.Intn(len(questions[qi].Answers)),
		})
	}

	// Creation date is uniform over [max(epoch, eligibility), asOf].
	earliest := epoch
	if m := Maturity(c, g.Config.Ages.CustomerMin); m.After(earliest) {
		earliest = m
	}
	days := util.DaysBetween(earliest, g.AsOf)
	if days < 0 {
		return model.Online{}, errors.Errorf("customer %d not yet eligible for an online account", cid)
	}
	created := util.RandDateBack(g.Rand, g.AsOf, 0, days)

	return model.Online{
		Customer: cid,
		Username: username,
		Password: util.RandDigits(g.Rand, 5),
		Created:  created,
		Recovery: recovery,
	}, nil
}

// OfflineAccounts samples the configured fraction of customers into offline
// accounts, pairing each account with exactly one owner. Overlap with online
// account holders is allowed; within offline accounts a customer appears once.
func (g *Generator) OfflineAccounts(customers []model.Customer) ([]*model.Offline, []model.Owner, error) {
	count := len(customers) * g.Config.Population.OfflinePercent / 100
	accounts := make([]*model.Offline, 0, count)
	owners := make([]model.Owner, 0, count)
	taken := make(map[int]struct{}, count)

	for i := 0; i < count; i++ {
		cid, err := g.pickUnique(len(customers), "offline account customer", func(idx int) bool {
			_, dup := taken[idx]
			return !dup
		})
		if err != nil {
			return nil, nil, err
		}
		taken[cid] = struct{}{}
		acct, err := g.offline(customers[cid])
		if err != nil {
			return nil, nil, err
		}
		accounts = append(accounts, acct)
		owners = append(owners, model.Owner{Account: acct.ID, Customer: cid})
		util.Debugf("offline account %s: customer %d", acct.ID, cid)
	}
	return accounts, owners, nil
}

func (g *Generator) offline(c model.Customer) (*model.Offline, error) {
	id, err := g.accounts.Next()
	if err != nil {
		return nil, err
	}

	acct := &model.Offline{
		ID:         id,
		MonthlyFee: g.Config.Accounts.MonthlyFees[g.Rand.Intn(len(g.Config.Accounts.MonthlyFees))],
	}
	acct.SetStartingBalance(float64(util.RandIntRange(g.Rand, g.Config.Accounts.BalanceMin, g.Config.Accounts.BalanceMax)))

	if util.Chance(g.Rand, g.Config.Accounts.CheckingPercent) {
		acct.Type = model.Checking
	} else {
		acct.Type = model.Savings
		acct.Compounding = model.Compounding(util.RandIntRange(g.Rand, int(model.CompMonthly), int(model.CompAnnually)))
		acct.Rate = g.interestRate(acct.Compounding)
	}

	// Open date is uniform over [eligibility, asOf]; a close date is only
	// possible when the account was not opened on the snapshot day.
	maturity := Maturity(c, g.Config.Ages.CustomerMin)
	days := util.DaysBetween(maturity, g.AsOf)
	if days < 0 {
		return nil, errors.New("customer not yet eligible for an account")
	}
	acct.Open = util.RandDateBack(g.Rand, g.AsOf, 0, days)

	if !acct.Open.Equal(g.AsOf) && util.Chance(g.Rand, g.Config.Accounts.ClosePercent) {
		cl := util.RandDateBack(g.Rand, g.AsOf, 0, util.DaysBetween(acct.Open, g.AsOf))
		acct.Close = &cl
	}
	return acct, nil
}

// interestRate spreads a 1.75%-2.25% annual rate over the compounding
// periods of the year.
func (g *Generator) interestRate(comp model.Compounding) float64 {
	rate := float64(util.RandIntRange(g.Rand, 175, 225)) / 100.0
	return rate / float64(comp.PerYear())
}
