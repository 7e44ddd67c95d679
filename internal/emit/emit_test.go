package emit

import (
	"math/rand"
	"strings"
	"testing"

	"bankgen/internal/geo"
	"bankgen/internal/model"
	"bankgen/internal/util"
	"bankgen/internal/validator"
)

func testGeography() *geo.Country {
	c := geo.NewCountry(rand.New(rand.NewSource(1)))
	c.AddState("Texas")
	st := c.State(0)
	st.Cities = append(st.Cities, geo.City{Name: "Austin", Zip: 73301, Streets: []string{"Main St"}})
	st.Codes = []string{"512"}
	return c
}

func testDataset() *model.Dataset {
	end := util.MustParseDate("2019-11-03")
	closeDate := util.MustParseDate("2020-01-20")
	open := &model.Offline{
		ID:   "111111111111",
		Type: model.Savings, Rate: 0.1875, Compounding: model.CompMonthly,
		Open: util.MustParseDate("2015-03-10"),
	}
	open.SetStartingBalance(412.5)
	closed := &model.Offline{
		ID:   "222222222222",
		Type: model.Checking, MonthlyFee: 9.99,
		Open:  util.MustParseDate("2018-07-01"),
		Close: &closeDate,
	}
	closed.SetStartingBalance(80)

	return &model.Dataset{
		Customers: []model.Customer{
			{
				First: "John", Last: "O'Brien", Sex: 'M',
				DOB: util.MustParseDate("1980-01-15"),
				SSN: "123456789", Phone: "5551234",
				Email: "jobrien100@mail.com",
				State: 0, City: 0, Street: 0, House: 123,
			},
			{
				First: "Jane", Last: "Doe", Sex: 'F',
				DOB: util.MustParseDate("1975-06-30"),
				SSN: "987654321", Phone: "5559876",
				Email: "jdoe200@mail.com",
				State: 0, City: 0, Street: 0, House: 500,
			},
		},
		Employees: []model.Employee{
			{Customer: 0, Start: util.MustParseDate("2010-02-01"), Supervisor: -1},
			{Customer: 1, Start: util.MustParseDate("2012-09-15"), End: &end, Supervisor: 0},
		},
		Online: []model.Online{
			{
				Customer: 1, Username: "jdoe483", Password: "12345",
				Created:  util.MustParseDate("2014-05-05"),
				Recovery: []model.Recovery{{Question: 0, Answer: 1}},
			},
		},
		Questions: []model.QuestionSetEntry{
			{Question: "Mother's maiden name?", Answers: []string{"Smith", "O'Neil"}},
		},
		Offline: []*model.Offline{open, closed},
		Owners: []model.Owner{
			{Account: open.ID, Customer: 0},
			{Account: closed.ID, Customer: 1},
		},
		Cards: []model.Card{
			{
				Number: "4111111111111111", Security: "123", PIN: "9876",
				Account: open.ID, Customer: 0,
				Expires: util.MustParseDate("2021-03-10"), Status: model.CardActive,
			},
		},
		Branches: []model.Branch{{Routing: "1111111111", Account: "999999999999"}},
		Stores:   []model.Store{{Name: "Corner Grocer", Prices: []float64{9.99}, Routing: "2222222222", Account: "888888888888"}},
		Transactions: []model.Transaction{
			{
				Account: open.ID, RecvRouting: "1111111111", RecvAccount: open.ID,
				Description: "Counter Deposit", Amount: 412.5,
				Date: util.MustParseDate("2015-03-10"), Type: model.Credit,
			},
			{
				Account: open.ID, RecvRouting: "2222222222", RecvAccount: "888888888888",
				Description: "Corner Grocer", Amount: 9.99,
				Date: util.MustParseDate("2020-05-30"), Type: model.Debit, Pending: true,
			},
		},
	}
}

func TestEntityStatementsOrderAndContent(t *testing.T) {
	e := New(testGeography())
	statements, err := e.EntityStatements(testDataset())
	if err != nil {
		t.Fatalf("entity statements: %v", err)
	}
	wantTables := []string{"Customer", "Employee", "Account_Online", "Recovery_Question", "Account", "Account_Owner", "Card"}
	if len(statements) != len(wantTables) {
		t.Fatalf("statements=%d, want %d", len(statements), len(wantTables))
	}
	for i, table := range wantTables {
		if !strings.HasPrefix(statements[i], "INSERT INTO `"+table+"`") {
			t.Fatalf("statement %d targets wrong table:\n%s", i, statements[i])
		}
	}

	customer := statements[0]
	if !strings.Contains(customer, "'O''Brien'") {
		t.Fatalf("apostrophe not escaped:\n%s", customer)
	}
	if !strings.Contains(customer, "'5125551234'") {
		t.Fatalf("phone not prefixed with area code:\n%s", customer)
	}
	if !strings.Contains(customer, "'123 Main St', NULL, 'Austin', 73301, 'Texas'") {
		t.Fatalf("address not resolved:\n%s", customer)
	}

	employee := statements[1]
	if !strings.Contains(employee, "('2010-02-01', NULL, 1, NULL)") {
		t.Fatalf("root employee row wrong:\n%s", employee)
	}
	if !strings.Contains(employee, "('2012-09-15', '2019-11-03', 2, 1)") {
		t.Fatalf("supervised employee row wrong:\n%s", employee)
	}

	recovery := statements[3]
	if !strings.Contains(recovery, "(2, 0, '2014-05-05', 'Mother''s maiden name?', 'O''Neil')") {
		t.Fatalf("recovery row wrong:\n%s", recovery)
	}

	account := statements[4]
	if !strings.Contains(account, "('111111111111', 'SAV', '2015-03-10', NULL, 412.50, 0.18750, 'MONTHLY', 0.00)") {
		t.Fatalf("savings row wrong:\n%s", account)
	}
	if !strings.Contains(account, "('222222222222', 'CHK', '2018-07-01', '2020-01-20', 80.00, 0.00000, 'NONE', 9.99)") {
		t.Fatalf("checking row wrong:\n%s", account)
	}

	if !strings.Contains(statements[5], "('111111111111', 1)") {
		t.Fatalf("owner row wrong:\n%s", statements[5])
	}
	if !strings.Contains(statements[6], "('4111111111111111', '2021-03-10', '123', 'ACTIVE', '111111111111', 1, '9876')") {
		t.Fatalf("card row wrong:\n%s", statements[6])
	}
}

func TestTransactionStatements(t *testing.T) {
	e := New(testGeography())
	statements := e.TransactionStatements(testDataset())
	if len(statements) != 1 {
		t.Fatalf("statements=%d, want 1", len(statements))
	}
	s := statements[0]
	if !strings.Contains(s, "('111111111111', FALSE, 'CREDIT', '2015-03-10', 'COUNTER DEPOSIT', 412.50, '1111111111', '111111111111', NULL)") {
		t.Fatalf("deposit row wrong:\n%s", s)
	}
	if !strings.Contains(s, "('111111111111', TRUE, 'DEBIT', '2020-05-30', 'CORNER GROCER', 9.99, '2222222222', '888888888888', NULL)") {
		t.Fatalf("purchase row wrong:\n%s", s)
	}
}

func TestTransactionBatching(t *testing.T) {
	e := New(testGeography())
	d := testDataset()
	one := d.Transactions[0]
	d.Transactions = nil
	for i := 0; i < transactionBatchRows+1; i++ {
		d.Transactions = append(d.Transactions, one)
	}
	statements := e.TransactionStatements(d)
	if len(statements) != 2 {
		t.Fatalf("statements=%d, want 2 batches", len(statements))
	}
	if got := strings.Count(statements[0], "\n"); got != transactionBatchRows {
		t.Fatalf("first batch has %d rows", got)
	}
}

func TestEmissionIsDeterministic(t *testing.T) {
	e := New(testGeography())
	first, err := e.EntityStatements(testDataset())
	if err != nil {
		t.Fatalf("entity statements: %v", err)
	}
	second, err := e.EntityStatements(testDataset())
	if err != nil {
		t.Fatalf("entity statements: %v", err)
	}
	if strings.Join(first, "\n") != strings.Join(second, "\n") {
		t.Fatalf("re-emission differs")
	}
	if strings.Join(e.TransactionStatements(testDataset()), "\n") != strings.Join(e.TransactionStatements(testDataset()), "\n") {
		t.Fatalf("transaction re-emission differs")
	}
}

func TestEntityStatementsBadAddress(t *testing.T) {
	e := New(testGeography())
	d := testDataset()
	d.Customers[0].City = 5
	if _, err := e.EntityStatements(d); err == nil {
		t.Fatalf("expected error for out-of-range city index")
	}
}

func TestEmittedSQLParses(t *testing.T) {
	e := New(testGeography())
	d := testDataset()
	entities, err := e.EntityStatements(d)
	if err != nil {
		t.Fatalf("entity statements: %v", err)
	}
	v := validator.New()
	if err := v.ValidateAll(e.SchemaStatements()); err != nil {
		t.Fatalf("schema does not parse: %v", err)
	}
	if err := v.ValidateAll(entities); err != nil {
		t.Fatalf("entities do not parse: %v", err)
	}
	if err := v.ValidateAll(e.TransactionStatements(d)); err != nil {
		t.Fatalf("transactions do not parse: %v", err)
	}
}
