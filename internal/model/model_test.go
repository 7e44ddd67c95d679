package model

import (
	"math/rand"
	"testing"
)

func TestStorePrice(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	single := Store{Prices: []float64{9.99}}
	for i := 0; i < 10; i++ {
		if got := single.Price(r); got != 9.99 {
			t.Fatalf("single price=%v, want 9.99", got)
		}
	}

	ranged := Store{Range: true, Prices: []float64{5, 10}}
	for i := 0; i < 100; i++ {
		got := ranged.Price(r)
		if got < 5 || got > 10 {
			t.Fatalf("range price=%v outside [5,10]", got)
		}
	}

	discrete := Store{Prices: []float64{5, 10}}
	for i := 0; i < 100; i++ {
		got := discrete.Price(r)
		if got != 5 && got != 10 {
			t.Fatalf("discrete price=%v, want 5 or 10", got)
		}
	}
}

func TestCompoundingPerYear(t *testing.T) {
	cases := []struct {
		comp Compounding
		want int
	}{
		{CompNone, 0},
		{CompMonthly, 12},
		{CompQuarterly, 3},
		{CompTrimesterly, 4},
		{CompSemesterly, 2},
		{CompAnnually, 1},
	}
	for _, c := range cases {
		if got := c.comp.PerYear(); got != c.want {
			t.Fatalf("%s PerYear=%d, want %d", c.comp, got, c.want)
		}
	}
}

func TestOfflineBalance(t *testing.T) {
	a := &Offline{}
	a.SetStartingBalance(100)
	a.Credit(50)
	a.Debit(30)
	if a.Balance() != 120 {
		t.Fatalf("balance=%v, want 120", a.Balance())
	}
	if !a.HasBalance(120) || a.HasBalance(121) {
		t.Fatalf("HasBalance misreports coverage")
	}
}

func TestEnumStrings(t *testing.T) {
	if Checking.String() != "CHK" || Savings.String() != "SAV" {
		t.Fatalf("account type strings wrong")
	}
	if CardActive.String() != "ACTIVE" || CardClosed.String() != "CLOSED" {
		t.Fatalf("card status strings wrong")
	}
	if Credit.String() != "CREDIT" || Debit.String() != "DEBIT" {
		t.Fatalf("transaction type strings wrong")
	}
}

func TestOwnerOf(t *testing.T) {
	d := &Dataset{Owners: []Owner{{Account: "A", Customer: 3}}}
	if got := d.OwnerOf("A"); got != 3 {
		t.Fatalf("OwnerOf(A)=%d, want 3", got)
	}
	if got := d.OwnerOf("B"); got != -1 {
		t.Fatalf("OwnerOf(B)=%d, want -1", got)
	}
}
