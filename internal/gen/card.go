package gen

import (
	"bankgen/internal/model"
	"bankgen/internal/util"
)

// Cards issues sequential validity windows for every offline account, one
// card per reissue interval from the open date until the window passes the
// close date (or the run snapshot for open accounts). Every window is CLOSED
// except the last, which stays ACTIVE while the account is open.
func (g *Generator) Cards(accounts []*model.Offline, owners []model.Owner) ([]model.Card, error) {
	var cards []model.Card
	for i, acct := range accounts {
		owner := owners[i].Customer
		until := g.AsOf
		if acct.Close != nil {
			until = *acct.Close
		}

		first := len(cards)
		date := acct.Open
		for {
			number, err := g.cards.Next()
			if err != nil {
				return nil, err
			}
			cards = append(cards, model.Card{
				Number:   number,
				Security: util.RandDigits(g.Rand, 3),
				PIN:      util.RandDigits(g.Rand, 4),
				Account:  acct.ID,
				Customer: owner,
				Expires:  date,
				Status:   model.CardClosed,
			})
			date = date.AddDate(g.Config.Cards.ReissueYears, 0, 0)
			if !date.Before(until) {
				break
			}
		}
		if !acct.Closed() {
			cards[len(cards)-1].Status = model.CardActive
		}
		util.Debugf("cards: account %s issued %d", acct.ID, len(cards)-first)
	}
	return cards, nil
}
