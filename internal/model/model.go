// Package model defines the entity records produced by generation. Everything
// is immutable once finalized except an offline account's balance, which only
// moves through Credit and Debit.
package model

import (
	"math/rand"
	"time"

	"bankgen/internal/util"
)

// Customer is one bank customer with biographical and address data. Address
// fields are indices into the geography hierarchy.
type Customer struct {
	First  string
	Last   string
	Sex    byte
	DOB    time.Time
	SSN    string
	Phone  string
	Email  string
	State  int
	City   int
	Street int
	House  int
}

// Employee wraps a customer index with an employment window. Supervisor is
// the index of an earlier employee, or -1 for the root of the chain.
type Employee struct {
	Customer   int
	Start      time.Time
	End        *time.Time
	Supervisor int
}

// Active reports whether the employee has no recorded end date.
func (e Employee) Active() bool {
	return e.End == nil
}

// Recovery is one (question, answer) pick for an online account, as indices
// into the shared question set.
type Recovery struct {
	Question int
	Answer   int
}

// Online is a customer's online banking account.
type Online struct {
	Customer int
	Username string
	Password string
	Created  time.Time
	Recovery []Recovery
}

// AccountType enumerates offline account types.
type AccountType int

// Offline account types.
const (
	Checking AccountType = iota
	Savings
)

func (t AccountType) String() string {
	if t == Savings {
		return "SAV"
	}
	return "CHK"
}

// Compounding enumerates interest compounding frequencies.
type Compounding int

// Compounding frequencies. Checking accounts always use CompNone.
const (
	CompNone Compounding = iota
	CompMonthly
	CompQuarterly
	CompTrimesterly
	CompSemesterly
	CompAnnually
)

func (c Compounding) String() string {
	switch c {
	case CompMonthly:
		return "MONTHLY"
	case CompQuarterly:
		return "QUARTERLY"
	case CompTrimesterly:
		return "TRIMESTERLY"
	case CompSemesterly:
		return "SEMESTERLY"
	case CompAnnually:
		return "ANNUALLY"
	default:
		return "NONE"
	}
}

// PerYear returns how many times interest compounds per year.
func (c Compounding) PerYear() int {
	switch c {
	case CompMonthly:
		return 12
	case CompQuarterly:
		return 3
	case CompTrimesterly:
		return 4
	case CompSemesterly:
		return 2
	case CompAnnually:
		return 1
	default:
		return 0
	}
}

// Offline is a checking or savings account. The balance is the starting
// balance until the simulator replays activity against it.
type Offline struct {
	ID          string
	Type        AccountType
	Open        time.Time
	Close       *time.Time
	Rate        float64
	Compounding Compounding
	MonthlyFee  float64

	balance float64
}

// SetStartingBalance records the opening balance. Later movement must go
// through Credit and Debit.
func (a *Offline) SetStartingBalance(v float64) {
	a.balance = v
}

// Balance returns the current balance.
func (a *Offline) Balance() float64 {
	return a.balance
}

// HasBalance reports whether the account can cover a charge.
func (a *Offline) HasBalance(v float64) bool {
	return a.balance >= v
}

// Credit adds to the balance.
func (a *Offline) Credit(v float64) {
	a.balance += v
}

// Debit subtracts from the balance.
func (a *Offline) Debit(v float64) {
	a.balance -= v
}

// Closed reports whether the account has a close date.
func (a *Offline) Closed() bool {
	return a.Close != nil
}

// Owner binds an account to an owning customer index.
type Owner struct {
	Account  string
	Customer int
}

// CardStatus enumerates card lifecycle states.
type CardStatus int

// Card statuses. Generation only produces CLOSED and ACTIVE.
const (
	CardPending CardStatus = iota
	CardActive
	CardDisabled
	CardClosed
)

func (s CardStatus) String() string {
	switch s {
	case CardPending:
		return "PENDING"
	case CardActive:
		return "ACTIVE"
	case CardDisabled:
		return "DISABLED"
	default:
		return "CLOSED"
	}
}

// Card is one card issued against an account for a validity window.
type Card struct {
	Number   string
	Security string
	PIN      string
	Account  string
	Customer int
	Expires  time.Time
	Status   CardStatus
}

// Branch is a per-state bank branch used as a transaction counterparty.
type Branch struct {
	Routing string
	Account string
}

// Store is a purchase counterparty with a pricing rule.
type Store struct {
	Name    string
	Online  bool
	Range   bool
	Prices  []float64
	Routing string
	Account string
}

// Price draws a charge from the store's pricing rule: the single price when
// only one is listed, a uniform value between the two bounds under range
// pricing, otherwise one of the listed prices.
func (s Store) Price(r *rand.Rand) float64 {
	if len(s.Prices) == 1 {
		return s.Prices[0]
	}
	if s.Range {
		return util.RandFloatRange(r, s.Prices[0], s.Prices[1])
	}
	return s.Prices[r.Intn(len(s.Prices))]
}

// TxnType enumerates transaction directions.
type TxnType int

// Transaction directions.
const (
	Debit TxnType = iota
	Credit
)

func (t TxnType) String() string {
	if t == Credit {
		return "CREDIT"
	}
	return "DEBIT"
}

// Transaction is one movement on an account, routed to a counterparty.
type Transaction struct {
	Account     string
	RecvRouting string
	RecvAccount string
	Description string
	Amount      float64
	Date        time.Time
	Type        TxnType
	Pending     bool
}

// Dataset is the full generated record set handed to the serializer.
type Dataset struct {
	Customers    []Customer
	Employees    []Employee
	Online       []Online
	Questions    []QuestionSetEntry
	Offline      []*Offline
	Owners       []Owner
	Cards        []Card
	Branches     []Branch
	Stores       []Store
	Transactions []Transaction
}

// QuestionSetEntry is one recovery question with its answer pool.
type QuestionSetEntry struct {
	Question string
	Answers  []string
}

// OwnerOf returns the customer index owning an account, or -1.
func (d *Dataset) OwnerOf(account string) int {
	for _, o := range d.Owners {
		if o.Account == account {
			return o.Customer
		}
	}
	return -1
}
