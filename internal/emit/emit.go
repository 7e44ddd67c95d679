// Package emit serializes a finalized dataset into SQL INSERT statements in
// foreign-key-safe order. Emission is a pure function of the in-memory
// entities: no randomness, so re-emitting the same dataset is byte-identical.
package emit

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"bankgen/internal/geo"
	"bankgen/internal/model"
	"bankgen/internal/schema"
	"bankgen/internal/util"
)

// transactionBatchRows caps rows per INSERT in the transaction stream, which
// dwarfs the entity stream.
const transactionBatchRows = 500

// Emitter renders datasets against the geography their address indices
// resolve into.
type Emitter struct {
	Country *geo.Country
}

// New constructs an emitter.
func New(country *geo.Country) *Emitter {
	return &Emitter{Country: country}
}

// EntityStatements renders the bulk entity stream: one INSERT per table, in
// an order where every referenced row precedes its references. In-memory
// index i maps to emitted identifier i+1 for customer and employee
// references.
func (e *Emitter) EntityStatements(d *model.Dataset) ([]string, error) {
	var statements []string
	add := func(table schema.Table, rows []string) {
		if len(rows) == 0 {
			return
		}
		statements = append(statements, insertSQL(table, rows))
	}

	customers, err := e.customerRows(d)
	if err != nil {
		return nil, err
	}
	add(schema.Customer, customers)
	add(schema.Employee, employeeRows(d))
	add(schema.AccountOnline, onlineRows(d))
	add(schema.RecoveryQuestion, recoveryRows(d))
	add(schema.Account, accountRows(d))
	add(schema.AccountOwner, ownerRows(d))
	add(schema.Card, cardRows(d))
	util.Debugf("emit: %d entity statements", len(statements))
	return statements, nil
}

// TransactionStatements renders the transaction stream in fixed-size row
// batches.
func (e *Emitter) TransactionStatements(d *model.Dataset) []string {
	var statements []string
	rows := make([]string, 0, transactionBatchRows)
	for _, t := range d.Transactions {
		rows = append(rows, fmt.Sprintf("(%s, %s, %s, %s, %s, %.2f, %s, %s, NULL)",
			quote(t.Account), boolSQL(t.Pending), quote(t.Type.String()),
			quote(util.FormatDate(t.Date)), quote(strings.ToUpper(t.Description)),
			t.Amount, quote(t.RecvRouting), quote(t.RecvAccount)))
		if len(rows) == transactionBatchRows {
			statements = append(statements, insertSQL(schema.Transaction, rows))
			rows = rows[:0]
		}
	}
	if len(rows) > 0 {
		statements = append(statements, insertSQL(schema.Transaction, rows))
	}
	return statements
}

// SchemaStatements renders CREATE TABLE statements for every table.
func (e *Emitter) SchemaStatements() []string {
	tables := schema.AllTables()
	statements := make([]string, 0, len(tables))
	for _, t := range tables {
		statements = append(statements, t.CreateSQL())
	}
	return statements
}

func (e *Emitter) customerRows(d *model.Dataset) ([]string, error) {
	rows := make([]string, 0, len(d.Customers))
	for i, c := range d.Customers {
		if c.State < 0 || c.State >= e.Country.NumStates() {
			return nil, errors.Errorf("customer %d: state index %d out of range", i, c.State)
		}
		st := e.Country.State(c.State)
		if c.City < 0 || c.City >= st.NumCities() {
			return nil, errors.Errorf("customer %d: city index %d out of range in %q", i, c.City, st.Name)
		}
		ct := st.Cities[c.City]
		if c.Street < 0 || c.Street >= len(ct.Streets) {
			return nil, errors.Errorf("customer %d: street index %d out of range in %q", i, c.Street, ct.Name)
		}
		rows = append(rows, fmt.Sprintf("(%s, %s, %s, %s, %s, %s, %s, %s, NULL, %s, %d, %s)",
			quote(c.SSN), quote(c.First), quote(c.Last), quote(string(c.Sex)),
			quote(util.FormatDate(c.DOB)), quote(c.Email), quote(st.Code(c.City)+c.Phone),
			quote(fmt.Sprintf("%d %s", c.House, ct.Streets[c.Street])),
			quote(ct.Name), ct.Zip, quote(st.Name)))
	}
	return rows, nil
}

func employeeRows(d *model.Dataset) []string {
	rows := make([]string, 0, len(d.Employees))
	for _, e := range d.Employees {
		sup := "NULL"
		if e.Supervisor >= 0 {
			sup = fmt.Sprintf("%d", e.Supervisor+1)
		}
		rows = append(rows, fmt.Sprintf("(%s, %s, %d, %s)",
			quote(util.FormatDate(e.Start)), dateOrNull(e.End), e.Customer+1, sup))
	}
	return rows
}

func onlineRows(d *model.Dataset) []string {
	rows := make([]string, 0, len(d.Online))
	for _, a := range d.Online {
		rows = append(rows, fmt.Sprintf("(%d, %s, %s)",
			a.Customer+1, quote(a.Username), quote(a.Password)))
	}
	return rows
}

func recoveryRows(d *model.Dataset) []string {
	var rows []string
	for _, a := range d.Online {
		for rid, rec := range a.Recovery {
			q := d.Questions[rec.Question]
			rows = append(rows, fmt.Sprintf("(%d, %d, %s, %s, %s)",
				a.Customer+1, rid, quote(util.FormatDate(a.Created)),
				quote(q.Question), quote(q.Answers[rec.Answer])))
		}
	}
	return rows
}

func accountRows(d *model.Dataset) []string {
	rows := make([]string, 0, len(d.Offline))
	for _, a := range d.Offline {
		rows = append(rows, fmt.Sprintf("(%s, %s, %s, %s, %.2f, %.5f, %s, %.2f)",
			quote(a.ID), quote(a.Type.String()), quote(util.FormatDate(a.Open)),
			dateOrNull(a.Close), a.Balance(), a.Rate, quote(a.Compounding.String()), a.MonthlyFee))
	}
	return rows
}

func ownerRows(d *model.Dataset) []string {
	rows := make([]string, 0, len(d.Owners))
	for _, o := range d.Owners {
		rows = append(rows, fmt.Sprintf("(%s, %d)", quote(o.Account), o.Customer+1))
	}
	return rows
}

func cardRows(d *model.Dataset) []string {
	rows := make([]string, 0, len(d.Cards))
	for _, c := range d.Cards {
		rows = append(rows, fmt.Sprintf("(%s, %s, %s, %s, %s, %d, %s)",
			quote(c.Number), quote(util.FormatDate(c.Expires)), quote(c.Security),
			quote(c.Status.String()), quote(c.Account), c.Customer+1, quote(c.PIN)))
	}
	return rows
}

func insertSQL(table schema.Table, rows []string) string {
	cols := make([]string, 0, len(table.Columns))
	for _, name := range table.ColumnNames() {
		cols = append(cols, "`"+name+"`")
	}
	return fmt.Sprintf("INSERT INTO `%s` (%s) VALUES\n  %s;",
		table.Name, strings.Join(cols, ", "), strings.Join(rows, ",\n  "))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func boolSQL(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

func dateOrNull(t *time.Time) string {
	if t == nil {
		return "NULL"
	}
	return quote(util.FormatDate(*t))
}
