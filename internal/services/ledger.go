package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"raffle/internal/models"
)

const (
	defaultSeller   = "Você"
	defaultDrawLead = 7 * 24 * time.Hour
	recentBuyersMax = 5
)

// NewRaffle validates a draft and builds a raffle whose tickets are numbered 1..TicketCount,
// all available.
func NewRaffle(draft models.RaffleDraft, now time.Time) (models.Raffle, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return models.Raffle{}, ErrMissingName
	}
	if !draft.Category.Valid() {
		return models.Raffle{}, fmt.Errorf("%w: %q", ErrUnknownCategory, draft.Category)
	}
	if draft.PayoutKeyType != "" && !draft.PayoutKeyType.Valid() {
		return models.Raffle{}, fmt.Errorf("%w: %q", ErrUnknownPayoutKey, draft.PayoutKeyType)
	}
	if !draft.TicketPrice.IsPositive() {
		return models.Raffle{}, ErrInvalidTicketPrice
	}
	if draft.TicketCount < 1 || draft.TicketCount > models.MaxTicketCount {
		return models.Raffle{}, fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidTicketCount, draft.TicketCount, models.MaxTicketCount)
	}

	tickets := make([]models.Ticket, draft.TicketCount)
	for i := range tickets {
		tickets[i] = models.Ticket{Number: i + 1, Status: models.TicketAvailable}
	}

	seller := strings.TrimSpace(draft.Seller)
	if seller == "" {
		seller = defaultSeller
	}
	drawDate := draft.DrawDate
	if drawDate.IsZero() {
		drawDate = now.Add(defaultDrawLead)
	}

	return models.Raffle{
		ID:            raffleID(name, now),
		Name:          name,
		Description:   strings.TrimSpace(draft.Description),
		Category:      draft.Category,
		Image:         draft.Image,
		Seller:        seller,
		DrawDate:      drawDate,
		TicketPrice:   draft.TicketPrice,
		PayoutKeyType: draft.PayoutKeyType,
		PayoutKey:     strings.TrimSpace(draft.PayoutKey),
		Tickets:       tickets,
		CreatedAt:     now,
	}, nil
}

// raffleID slugs the name and appends the creation time in Unix milliseconds.
func raffleID(name string, now time.Time) string {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	return slug + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// ToggleSelection flips a ticket between available and selected.
// Sold tickets are left untouched and no error is reported for them.
func ToggleSelection(r models.Raffle, number int) (models.Raffle, error) {
	ticket, ok := r.Ticket(number)
	if !ok {
		return r, fmt.Errorf("%w: %d", ErrTicketNotFound, number)
	}

	var next models.TicketStatus
	switch ticket.Status {
	case models.TicketAvailable:
		next = models.TicketSelected
	case models.TicketSelected:
		next = models.TicketAvailable
	default:
		return r, nil
	}

	out := r.Clone()
	out.Tickets[number-1].Status = next
	return out, nil
}

// Purchase sells every ticket in numbers to the buyer. Either all of them become sold or,
// on any validation error, the raffle is returned unchanged.
func Purchase(r models.Raffle, numbers []int, buyerName, buyerContact string) (models.Raffle, error) {
	if len(numbers) == 0 {
		return r, ErrNoTicketsSelected
	}
	buyerName = strings.TrimSpace(buyerName)
	buyerContact = strings.TrimSpace(buyerContact)
	if buyerName == "" || buyerContact == "" {
		return r, ErrMissingBuyerInfo
	}

	for _, n := range numbers {
		ticket, ok := r.Ticket(n)
		if !ok {
			return r, fmt.Errorf("%w: %d", ErrTicketNotFound, n)
		}
		if ticket.Status != models.TicketSelected {
			return r, fmt.Errorf("%w: %d is %s", ErrTicketNotSelected, n, ticket.Status)
		}
	}

	out := r.Clone()
	for _, n := range numbers {
		out.Tickets[n-1] = models.Ticket{
			Number:       n,
			Status:       models.TicketSold,
			BuyerName:    buyerName,
			BuyerContact: buyerContact,
		}
	}
	return out, nil
}

// SelectedNumbers returns the numbers of the currently selected tickets in ascending order.
func SelectedNumbers(r models.Raffle) []int {
	var numbers []int
	for _, t := range r.Tickets {
		if t.Status == models.TicketSelected {
			numbers = append(numbers, t.Number)
		}
	}
	sort.Ints(numbers)
	return numbers
}

// DeriveMetrics counts tickets by status and prices them. Nothing is cached.
func DeriveMetrics(r models.Raffle) models.Metrics {
	m := models.Metrics{Total: len(r.Tickets)}
	for _, t := range r.Tickets {
		switch t.Status {
		case models.TicketSold:
			m.Sold++
		case models.TicketSelected:
			m.Selected++
		default:
			m.Available++
		}
	}

	m.Unsold = m.Total - m.Sold
	m.PercentageSold = percentage(m.Sold, m.Total)
	m.Revenue = r.TicketPrice.Mul(decimal.NewFromInt(int64(m.Sold)))
	m.PotentialRevenue = r.TicketPrice.Mul(decimal.NewFromInt(int64(m.Total)))
	m.SelectionTotal = r.TicketPrice.Mul(decimal.NewFromInt(int64(m.Selected)))
	return m
}

// percentage is part/total*100 rounded half up and clamped to [0,100].
func percentage(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	if part >= total {
		return 100
	}
	return (part*200 + total) / (2 * total)
}

// RecentBuyers lists the buyer names of the first sold tickets, up to five.
func RecentBuyers(r models.Raffle) []string {
	buyers := make([]string, 0, recentBuyersMax)
	for _, t := range r.Tickets {
		if t.Status != models.TicketSold || t.BuyerName == "" {
			continue
		}
		buyers = append(buyers, t.BuyerName)
		if len(buyers) == recentBuyersMax {
			break
		}
	}
	return buyers
}
