package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus is the lifecycle state of a single ticket.
type TicketStatus string

const (
	TicketAvailable TicketStatus = "available"
	TicketSelected  TicketStatus = "selected"
	TicketSold      TicketStatus = "sold"
)

// Category groups raffles by the kind of prize on offer.
type Category string

const (
	CategoryElectronics Category = "Eletrônicos"
	CategoryFashion     Category = "Moda & Acessórios"
	CategoryHome        Category = "Casa & Decoração"
	CategoryGames       Category = "Games & Entretenimento"
	CategoryTravel      Category = "Viagens & Experiências"
	CategoryJewelry     Category = "Joias & Relógios"
	CategoryVehicles    Category = "Veículos & Acessórios"
	CategoryOther       Category = "Outros"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryElectronics,
	CategoryFashion,
	CategoryHome,
	CategoryGames,
	CategoryTravel,
	CategoryJewelry,
	CategoryVehicles,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PayoutKeyType says what kind of identifier the seller receives funds on.
type PayoutKeyType string

const (
	PayoutKeyCPF    PayoutKeyType = "CPF"
	PayoutKeyEmail  PayoutKeyType = "Email"
	PayoutKeyPhone  PayoutKeyType = "Telefone"
	PayoutKeyRandom PayoutKeyType = "Chave Aleatória"
)

// PayoutKeyTypes lists every payout key type in display order.
var PayoutKeyTypes = []PayoutKeyType{PayoutKeyCPF, PayoutKeyEmail, PayoutKeyPhone, PayoutKeyRandom}

// Valid reports whether t is one of the known payout key types.
func (t PayoutKeyType) Valid() bool {
	for _, known := range PayoutKeyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// TicketSizes are the ticket counts offered as shortcuts when creating a raffle.
var TicketSizes = []int{50, 100, 200, 300, 400, 500, 1000}

// MaxTicketCount bounds the number of tickets a single raffle may hold.
const MaxTicketCount = 10000

// Ticket is one numbered unit of a raffle.
// Buyer fields are only set once the ticket is sold.
type Ticket struct {
	Number       int          `json:"number"`
	Status       TicketStatus `json:"status"`
	BuyerName    string       `json:"buyerName,omitempty"`
	BuyerContact string       `json:"buyerContact,omitempty"`
}

// Raffle is a sellable pool of numbered tickets tied to one prize and one draw date.
type Raffle struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      Category        `json:"category"`
	Image         string          `json:"image"`
	Seller        string          `json:"seller"`
	DrawDate      time.Time       `json:"drawDate"`
	TicketPrice   decimal.Decimal `json:"ticketPrice"`
	PayoutKeyType PayoutKeyType   `json:"payoutKeyType"`
	PayoutKey     string          `json:"payoutKey"`
	Tickets       []Ticket        `json:"tickets"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Clone returns a copy of the raffle that shares no ticket storage with r.
func (r Raffle) Clone() Raffle {
	out := r
	out.Tickets = make([]Ticket, len(r.Tickets))
	copy(out.Tickets, r.Tickets)
	return out
}

// Ticket returns the ticket with the given number.
func (r Raffle) Ticket(number int) (Ticket, bool) {
	if number < 1 || number > len(r.Tickets) {
		return Ticket{}, false
	}
	return r.Tickets[number-1], true
}

// RaffleDraft carries the seller's input for a new raffle.
type RaffleDraft struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      Category        `json:"category"`
	Image         string          `json:"image"`
	Seller        string          `json:"seller"`
	DrawDate      time.Time       `json:"drawDate"`
	TicketPrice   decimal.Decimal `json:"ticketPrice"`
	TicketCount   int             `json:"ticketCount"`
	PayoutKeyType PayoutKeyType   `json:"payoutKeyType"`
	PayoutKey     string          `json:"payoutKey"`
}

// Metrics are the sales figures derived from a raffle's tickets.
type Metrics struct {
	Sold             int             `json:"sold"`
	Selected         int             `json:"selected"`
	Available        int             `json:"available"`
	Unsold           int             `json:"unsold"`
	Total            int             `json:"total"`
	PercentageSold   int             `json:"percentageSold"`
	Revenue          decimal.Decimal `json:"revenue"`
	PotentialRevenue decimal.Decimal `json:"potentialRevenue"`
	SelectionTotal   decimal.Decimal `json:"selectionTotal"`
}

// RaffleSummary is the dashboard entry for a single raffle.
type RaffleSummary struct {
	Raffle       PublicRaffle `json:"raffle"`
	Metrics      Metrics      `json:"metrics"`
	RecentBuyers []string     `json:"recentBuyers"`
}

// Dashboard aggregates every raffle of a session for the seller.
type Dashboard struct {
	Raffles          []RaffleSummary `json:"raffles"`
	TotalSold        int             `json:"totalSold"`
	TotalTickets     int             `json:"totalTickets"`
	Revenue          decimal.Decimal `json:"revenue"`
	PotentialRevenue decimal.Decimal `json:"potentialRevenue"`
}
