package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"raffle/internal/models"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func testDraft(count int) models.RaffleDraft {
	return models.RaffleDraft{
		Name:          "Smart TV 50",
		Category:      models.CategoryElectronics,
		TicketPrice:   decimal.RequireFromString("10.50"),
		TicketCount:   count,
		PayoutKeyType: models.PayoutKeyEmail,
		PayoutKey:     "seller@example.com",
	}
}

func mustRaffle(t *testing.T, count int) models.Raffle {
	t.Helper()
	r, err := NewRaffle(testDraft(count), testNow)
	if err != nil {
		t.Fatalf("NewRaffle: %v", err)
	}
	return r
}

func selectAll(t *testing.T, r models.Raffle, numbers ...int) models.Raffle {
	t.Helper()
	for _, n := range numbers {
		var err error
		r, err = ToggleSelection(r, n)
		if err != nil {
			t.Fatalf("ToggleSelection(%d): %v", n, err)
		}
	}
	return r
}

func TestNewRaffle(t *testing.T) {
	t.Run("numbers tickets 1..K all available", func(t *testing.T) {
		for _, k := range []int{1, 50, 1000} {
			r := mustRaffle(t, k)
			if len(r.Tickets) != k {
				t.Fatalf("expected %d tickets, got %d", k, len(r.Tickets))
			}
			for i, ticket := range r.Tickets {
				if ticket.Number != i+1 {
					t.Fatalf("ticket at index %d has number %d", i, ticket.Number)
				}
				if ticket.Status != models.TicketAvailable {
					t.Fatalf("ticket %d has status %s", ticket.Number, ticket.Status)
				}
				if ticket.BuyerName != "" || ticket.BuyerContact != "" {
					t.Fatalf("ticket %d carries buyer fields", ticket.Number)
				}
			}
		}
	})

	t.Run("derives id and defaults", func(t *testing.T) {
		r := mustRaffle(t, 10)
		if r.ID != "smart-tv-50-1792324800000" {
			t.Errorf("unexpected id %q", r.ID)
		}
		if r.Seller != "Você" {
			t.Errorf("expected default seller, got %q", r.Seller)
		}
		if !r.DrawDate.Equal(testNow.Add(7 * 24 * time.Hour)) {
			t.Errorf("expected default draw date, got %s", r.DrawDate)
		}
	})

	t.Run("rejects invalid drafts", func(t *testing.T) {
		cases := map[string]struct {
			mutate func(*models.RaffleDraft)
			want   error
		}{
			"blank name":     {func(d *models.RaffleDraft) { d.Name = "  " }, ErrMissingName},
			"bad category":   {func(d *models.RaffleDraft) { d.Category = "Pets" }, ErrUnknownCategory},
			"bad payout key": {func(d *models.RaffleDraft) { d.PayoutKeyType = "IBAN" }, ErrUnknownPayoutKey},
			"zero price":     {func(d *models.RaffleDraft) { d.TicketPrice = decimal.Zero }, ErrInvalidTicketPrice},
			"negative price": {func(d *models.RaffleDraft) { d.TicketPrice = decimal.NewFromInt(-1) }, ErrInvalidTicketPrice},
			"zero tickets":   {func(d *models.RaffleDraft) { d.TicketCount = 0 }, ErrInvalidTicketCount},
			"too many":       {func(d *models.RaffleDraft) { d.TicketCount = models.MaxTicketCount + 1 }, ErrInvalidTicketCount},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				draft := testDraft(10)
				tc.mutate(&draft)
				_, err := NewRaffle(draft, testNow)
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})
}

func TestToggleSelection(t *testing.T) {
	r := mustRaffle(t, 5)

	selected, err := ToggleSelection(r, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if selected.Tickets[2].Status != models.TicketSelected {
		t.Fatalf("expected ticket 3 selected, got %s", selected.Tickets[2].Status)
	}
	if r.Tickets[2].Status != models.TicketAvailable {
		t.Fatal("toggle must not mutate its input")
	}

	back, err := ToggleSelection(selected, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(r, back); diff != "" {
		t.Errorf("double toggle should restore the raffle (-want +got):\n%s", diff)
	}

	if _, err := ToggleSelection(r, 6); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
	if _, err := ToggleSelection(r, 0); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestToggleSelectionIgnoresSoldTickets(t *testing.T) {
	r := selectAll(t, mustRaffle(t, 5), 2)
	sold, err := Purchase(r, []int{2}, "Ana", "+55 11 99999-0000")
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	after, err := ToggleSelection(sold, 2)
	if err != nil {
		t.Fatalf("toggling a sold ticket should be silent, got %v", err)
	}
	if diff := cmp.Diff(sold, after); diff != "" {
		t.Errorf("sold ticket changed (-want +got):\n%s", diff)
	}
}

func TestPurchase(t *testing.T) {
	base := selectAll(t, mustRaffle(t, 10), 2, 4, 7)

	t.Run("validation failures leave tickets untouched", func(t *testing.T) {
		cases := map[string]struct {
			numbers []int
			name    string
			contact string
			want    error
		}{
			"empty selection": {nil, "Ana", "11999990000", ErrNoTicketsSelected},
			"missing name":    {[]int{2}, " ", "11999990000", ErrMissingBuyerInfo},
			"missing contact": {[]int{2}, "Ana", "", ErrMissingBuyerInfo},
			"not selected":    {[]int{2, 3}, "Ana", "11999990000", ErrTicketNotSelected},
			"unknown ticket":  {[]int{2, 11}, "Ana", "11999990000", ErrTicketNotFound},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				got, err := Purchase(base, tc.numbers, tc.name, tc.contact)
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
				if diff := cmp.Diff(base, got); diff != "" {
					t.Errorf("raffle changed on failure (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("sells exactly the requested tickets", func(t *testing.T) {
		got, err := Purchase(base, []int{4, 2, 4}, " Ana ", "11999990000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := base.Clone()
		want.Tickets[1] = models.Ticket{Number: 2, Status: models.TicketSold, BuyerName: "Ana", BuyerContact: "11999990000"}
		want.Tickets[3] = models.Ticket{Number: 4, Status: models.TicketSold, BuyerName: "Ana", BuyerContact: "11999990000"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected raffle (-want +got):\n%s", diff)
		}
		if got.Tickets[6].Status != models.TicketSelected {
			t.Errorf("ticket 7 should remain selected, got %s", got.Tickets[6].Status)
		}
	})

	t.Run("sold tickets cannot be bought again", func(t *testing.T) {
		sold, err := Purchase(base, []int{7}, "Ana", "11999990000")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err = Purchase(sold, []int{7}, "Bruno", "11888880000")
		if !errors.Is(err, ErrTicketNotSelected) {
			t.Fatalf("expected ErrTicketNotSelected, got %v", err)
		}
	})
}

func TestSelectedNumbers(t *testing.T) {
	r := selectAll(t, mustRaffle(t, 10), 9, 1, 5)
	if diff := cmp.Diff([]int{1, 5, 9}, SelectedNumbers(r)); diff != "" {
		t.Errorf("unexpected selection (-want +got):\n%s", diff)
	}
	if got := SelectedNumbers(mustRaffle(t, 3)); len(got) != 0 {
		t.Errorf("expected no selection, got %v", got)
	}
}

func withSold(t *testing.T, total, sold int, price string) models.Raffle {
	t.Helper()
	r := mustRaffle(t, total)
	r.TicketPrice = decimal.RequireFromString(price)
	for i := 0; i < sold; i++ {
		r.Tickets[i] = models.Ticket{Number: i + 1, Status: models.TicketSold, BuyerName: "Ana", BuyerContact: "1"}
	}
	return r
}

func TestDeriveMetrics(t *testing.T) {
	cases := []struct {
		total, sold int
		price       string
		percent     int
		revenue     string
		potential   string
	}{
		{100, 0, "10", 0, "0", "1000"},
		{100, 75, "50", 75, "3750", "5000"},
		{100, 100, "20", 100, "2000", "2000"},
		{3, 1, "0.10", 33, "0.1", "0.3"},
		{8, 1, "1", 13, "1", "8"},
		{300, 299, "0.01", 100, "2.99", "3"},
		{1000, 7, "19.99", 1, "139.93", "19990"},
	}
	for _, tc := range cases {
		m := DeriveMetrics(withSold(t, tc.total, tc.sold, tc.price))
		if m.Sold != tc.sold || m.Total != tc.total || m.Available != tc.total-tc.sold || m.Unsold != tc.total-tc.sold {
			t.Errorf("%d/%d: unexpected counts %+v", tc.sold, tc.total, m)
		}
		if m.PercentageSold != tc.percent {
			t.Errorf("%d/%d: expected %d%%, got %d%%", tc.sold, tc.total, tc.percent, m.PercentageSold)
		}
		if !m.Revenue.Equal(decimal.RequireFromString(tc.revenue)) {
			t.Errorf("%d/%d: expected revenue %s, got %s", tc.sold, tc.total, tc.revenue, m.Revenue)
		}
		if !m.PotentialRevenue.Equal(decimal.RequireFromString(tc.potential)) {
			t.Errorf("%d/%d: expected potential %s, got %s", tc.sold, tc.total, tc.potential, m.PotentialRevenue)
		}
	}
}

func TestDeriveMetricsSelection(t *testing.T) {
	r := selectAll(t, mustRaffle(t, 10), 1, 2, 3)
	m := DeriveMetrics(r)
	if m.Selected != 3 || m.Available != 7 || m.Sold != 0 || m.Unsold != 10 {
		t.Fatalf("unexpected counts %+v", m)
	}
	if !m.SelectionTotal.Equal(decimal.RequireFromString("31.50")) {
		t.Errorf("expected selection total 31.50, got %s", m.SelectionTotal)
	}
}

func TestDeriveMetricsEmptyRaffle(t *testing.T) {
	m := DeriveMetrics(models.Raffle{TicketPrice: decimal.NewFromInt(5)})
	if m.PercentageSold != 0 || m.Total != 0 || !m.Revenue.IsZero() {
		t.Errorf("unexpected metrics for empty raffle: %+v", m)
	}
}

func TestRecentBuyers(t *testing.T) {
	r := withSold(t, 10, 7, "1")
	if got := RecentBuyers(r); len(got) != 5 {
		t.Errorf("expected 5 buyers, got %v", got)
	}
	if got := RecentBuyers(mustRaffle(t, 3)); len(got) != 0 {
		t.Errorf("expected no buyers, got %v", got)
	}
}
