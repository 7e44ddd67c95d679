package gen

import (
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/model"
	"bankgen/internal/util"
)

// endDatePercent is the chance a non-root employee has already left.
const endDatePercent = 60

// Employees samples the configured fraction of customers into employees and
// builds the supervision chain. Hire order doubles as a partial time order:
// each employee after the first is supervised by an earlier employee whose
// end date is still null at that point, and employee 0 never leaves, so the
// chain always has an active root.
func (g *Generator) Employees(customers []model.Customer) ([]model.Employee, error) {
	count := len(customers) * g.Config.Population.EmployeePercent / 100
	employees := make([]model.Employee, 0, count)
	taken := make(map[int]struct{}, count)

	for i := 0; i < count; i++ {
		cid, err := g.pickUnique(len(customers), "employee customer", func(idx int) bool {
			if _, dup := taken[idx]; dup {
				return false
			}
			return g.Age(customers[idx]) >= g.Config.Ages.EmployeeMin
		})
		if err != nil {
			return nil, err
		}
		taken[cid] = struct{}{}

		e, err := g.employee(customers[cid], cid, i)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			sup, err := g.pickUnique(i, "active supervisor", func(idx int) bool {
				return employees[idx].Active()
			})
			if err != nil {
				return nil, err
			}
			e.Supervisor = sup
		}
		employees = append(employees, e)
		util.Debugf("employee %d: customer %d age %d sup %d", i, cid, g.Age(customers[cid]), e.Supervisor)
	}
	return employees, nil
}

func (g *Generator) employee(c model.Customer, cid int, eid int) (model.Employee, error) {
	maturity := Maturity(c, g.Config.Ages.EmployeeMin)
	days := util.DaysBetween(maturity, g.AsOf)
	if days < 0 {
		return model.Employee{}, errors.Errorf("employee %d: customer %d under minimum age", eid, cid)
	}
	start := util.RandDateBack(g.Rand, g.AsOf, 0, days)

	var end *time.Time
	if eid > 0 && !start.Equal(g.AsOf) && util.Chance(g.Rand, endDatePercent) {
		d := util.RandDateBack(g.Rand, g.AsOf, 0, util.DaysBetween(start, g.AsOf))
		end = &d
	}
	return model.Employee{Customer: cid, Start: start, End: end, Supervisor: -1}, nil
}
