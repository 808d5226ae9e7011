package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if Category("Pets").Valid() {
		t.Error("unexpected valid category")
	}
	if PayoutKeyType("IBAN").Valid() {
		t.Error("unexpected valid payout key type")
	}
}

func TestRaffleTicketLookup(t *testing.T) {
	r := Raffle{Tickets: []Ticket{{Number: 1}, {Number: 2}}}
	if got, ok := r.Ticket(2); !ok || got.Number != 2 {
		t.Errorf("expected ticket 2, got %+v ok=%v", got, ok)
	}
	for _, n := range []int{0, 3, -1} {
		if _, ok := r.Ticket(n); ok {
			t.Errorf("expected no ticket %d", n)
		}
	}
}

func TestClone(t *testing.T) {
	r := Raffle{ID: "a", Tickets: []Ticket{{Number: 1, Status: TicketAvailable}}}
	c := r.Clone()
	c.Tickets[0].Status = TicketSold
	if r.Tickets[0].Status != TicketAvailable {
		t.Error("clone shares ticket storage")
	}
}

func TestPublicHidesPrivateFields(t *testing.T) {
	r := Raffle{
		ID:        "a",
		PayoutKey: "seller@example.com",
		Tickets: []Ticket{
			{Number: 1, Status: TicketSold, BuyerName: "Ana", BuyerContact: "11999990000"},
		},
	}

	p := r.Public(true)
	if len(p.Tickets) != 1 || p.Tickets[0].BuyerName != "Ana" {
		t.Fatalf("unexpected public tickets %+v", p.Tickets)
	}
	if len(r.Public(false).Tickets) != 0 {
		t.Error("expected tickets to be omitted")
	}
}

func TestFormatBRL(t *testing.T) {
	got := FormatBRL(decimal.RequireFromString("1234.5"))
	if !strings.Contains(got, "R$") {
		t.Errorf("expected a real symbol in %q", got)
	}
	if !strings.Contains(got, "234") {
		t.Errorf("expected the amount in %q", got)
	}
}
