package services

import (
	"time"

	"github.com/shopspring/decimal"

	"raffle/internal/models"
)

const (
	demoBuyerName    = "Comprador Anônimo"
	demoBuyerContact = "(**) *****-****"
)

type demoRaffle struct {
	id          string
	name        string
	description string
	category    models.Category
	image       string
	price       int64
	tickets     int
	sold        int
	drawIn      time.Duration
	keyType     models.PayoutKeyType
	key         string
	seller      string
}

var demoRaffles = []demoRaffle{
	{
		id:          "iphone-15-pro-max",
		name:        "iPhone 15 Pro Max",
		description: "Novo, lacrado, com 1 ano de garantia. A última geração da tecnologia Apple na palma da sua mão.",
		category:    models.CategoryElectronics,
		image:       "https://picsum.photos/seed/iphone/800/600",
		price:       50,
		tickets:     100,
		sold:        75,
		drawIn:      3 * 24 * time.Hour,
		keyType:     models.PayoutKeyCPF,
		key:         "***.***.***-**",
		seller:      "M***o S***",
	},
	{
		id:          "playstation-5",
		name:        "PlayStation 5",
		description: "Console de última geração com leitor de disco. Inclui um controle DualSense.",
		category:    models.CategoryGames,
		image:       "https://picsum.photos/seed/ps5/800/600",
		price:       30,
		tickets:     300,
		sold:        50,
		drawIn:      10 * 24 * time.Hour,
		keyType:     models.PayoutKeyEmail,
		key:         "vendedor@email.com",
		seller:      "Jo***o S***",
	},
	{
		id:          "bolsa-coach",
		name:        "Bolsa Coach Original",
		description: "Bolsa de couro genuíno, modelo Tabby, na cor marrom. Perfeita para qualquer ocasião.",
		category:    models.CategoryFashion,
		image:       "https://picsum.photos/seed/bag/800/600",
		price:       20,
		tickets:     100,
		sold:        25,
		drawIn:      5 * 24 * time.Hour,
		keyType:     models.PayoutKeyPhone,
		key:         "(11) 9****-XXXX",
		seller:      "Ma***a C***",
	},
}

// DemoRaffles builds the sample raffles every new session starts with.
// The first tickets of each are already sold to an anonymous buyer.
func DemoRaffles(now time.Time) []models.Raffle {
	out := make([]models.Raffle, 0, len(demoRaffles))
	for _, d := range demoRaffles {
		tickets := make([]models.Ticket, d.tickets)
		for i := range tickets {
			tickets[i] = models.Ticket{Number: i + 1, Status: models.TicketAvailable}
			if i < d.sold {
				tickets[i].Status = models.TicketSold
				tickets[i].BuyerName = demoBuyerName
				tickets[i].BuyerContact = demoBuyerContact
			}
		}
		out = append(out, models.Raffle{
			ID:            d.id,
			Name:          d.name,
			Description:   d.description,
			Category:      d.category,
			Image:         d.image,
			Seller:        d.seller,
			DrawDate:      now.Add(d.drawIn),
			TicketPrice:   decimal.NewFromInt(d.price),
			PayoutKeyType: d.keyType,
			PayoutKey:     d.key,
			Tickets:       tickets,
			CreatedAt:     now,
		})
	}
	return out
}
