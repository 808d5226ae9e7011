package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PublicTicket is what buyers see of a ticket: no buyer contact.
type PublicTicket struct {
	Number    int          `json:"number"`
	Status    TicketStatus `json:"status"`
	BuyerName string       `json:"buyerName,omitempty"`
}

// PublicRaffle is a raffle stripped of the seller's payout key and of buyer contacts.
type PublicRaffle struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Image       string          `json:"image"`
	Seller      string          `json:"seller"`
	DrawDate    time.Time       `json:"drawDate"`
	TicketPrice decimal.Decimal `json:"ticketPrice"`
	Tickets     []PublicTicket  `json:"tickets,omitempty"`
}

// Public converts r into its buyer-facing form. Tickets are included only when withTickets is set.
func (r Raffle) Public(withTickets bool) PublicRaffle {
	out := PublicRaffle{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Seller:      r.Seller,
		DrawDate:    r.DrawDate,
		TicketPrice: r.TicketPrice,
	}
	if withTickets {
		out.Tickets = make([]PublicTicket, len(r.Tickets))
		for i, t := range r.Tickets {
			out.Tickets[i] = PublicTicket{Number: t.Number, Status: t.Status, BuyerName: t.BuyerName}
		}
	}
	return out
}
