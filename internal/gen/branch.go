package gen

import (
	"bankgen/internal/model"
	"bankgen/internal/seedfile"
	"bankgen/internal/util"
)

// Branches creates one branch per state. Each branch holds a routing number
// and a house account used as the counterparty for deposits and fees.
func (g *Generator) Branches() ([]model.Branch, error) {
	branches := make([]model.Branch, 0, g.Country.NumStates())
	for i := 0; i < g.Country.NumStates(); i++ {
		route, err := g.routing.Next()
		if err != nil {
			return nil, err
		}
		account, err := g.accounts.Next()
		if err != nil {
			return nil, err
		}
		branches = append(branches, model.Branch{Routing: route, Account: account})
	}
	util.Debugf("branches: %d generated", len(branches))
	return branches, nil
}

// Stores turns parsed store rows into purchase counterparties, each with its
// own routing number and receiving account.
func (g *Generator) Stores(rows []seedfile.StoreRow) ([]model.Store, error) {
	stores := make([]model.Store, 0, len(rows))
	for _, row := range rows {
		route, err := g.routing.Next()
		if err != nil {
			return nil, err
		}
		account, err := g.accounts.Next()
		if err != nil {
			return nil, err
		}
		stores = append(stores, model.Store{
			Name:    row.Name,
			Online:  row.Online,
			Range:   row.Range,
			Prices:  row.Prices,
			Routing: route,
			Account: account,
		})
	}
	util.Debugf("stores: %d generated", len(stores))
	return stores, nil
}
