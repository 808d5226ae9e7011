package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/shopspring/decimal"

	"raffle/internal/describe"
	"raffle/internal/models"
)

// RaffleSession holds the raffles of a single user/tenant.
type RaffleSession struct {
	Store        *Store
	LastActivity time.Time
}

// RaffleService manages one raffle store per session.
type RaffleService struct {
	mu        sync.RWMutex
	sessions  map[string]*RaffleSession // Key: tenantID
	describer describe.Describer
	seedDemo  bool
	now       func() time.Time
}

// NewRaffleService creates a service. When seedDemo is set every new session starts
// with the demo raffles.
func NewRaffleService(describer describe.Describer, seedDemo bool) *RaffleService {
	if describer == nil {
		describer = describe.Template{}
	}
	return &RaffleService{
		sessions:  make(map[string]*RaffleSession),
		describer: describer,
		seedDemo:  seedDemo,
		now:       time.Now,
	}
}

// getSession returns a session for a tenant, creating one if it doesn't exist.
func (s *RaffleService) getSession(tenantID string) *RaffleSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	session, exists := s.sessions[tenantID]
	if !exists {
		store := NewStore()
		if s.seedDemo {
			store = NewStore(DemoRaffles(now)...)
		}
		session = &RaffleSession{Store: store}
		s.sessions[tenantID] = session
	}
	session.LastActivity = now
	return session
}

// Raffles returns every raffle of the tenant, newest first.
func (s *RaffleService) Raffles(tenantID string) []models.Raffle {
	return s.getSession(tenantID).Store.List()
}

// Raffle returns a single raffle of the tenant.
func (s *RaffleService) Raffle(tenantID, raffleID string) (models.Raffle, error) {
	r, ok := s.getSession(tenantID).Store.Get(raffleID)
	if !ok {
		return models.Raffle{}, ErrRaffleNotFound
	}
	return r, nil
}

// CreateRaffle builds a raffle from the draft and adds it to the front of the tenant's store.
func (s *RaffleService) CreateRaffle(tenantID string, draft models.RaffleDraft) (models.Raffle, error) {
	session := s.getSession(tenantID)

	r, err := NewRaffle(draft, s.now())
	if err != nil {
		return models.Raffle{}, err
	}

	// Same name within the same millisecond would collide.
	r = session.Store.AddUnique(r)
	logger.Infof("tenant %s created raffle %s with %d tickets", tenantID, r.ID, len(r.Tickets))
	return r, nil
}

// ToggleSelection flips a ticket between available and selected.
func (s *RaffleService) ToggleSelection(tenantID, raffleID string, number int) (models.Raffle, error) {
	return s.getSession(tenantID).Store.Modify(raffleID, func(r models.Raffle) (models.Raffle, error) {
		return ToggleSelection(r, number)
	})
}

// Purchase sells tickets to the buyer. An empty numbers slice means the raffle's
// current selection.
func (s *RaffleService) Purchase(tenantID, raffleID string, numbers []int, buyerName, buyerContact string) (models.Raffle, error) {
	var sold int
	r, err := s.getSession(tenantID).Store.Modify(raffleID, func(r models.Raffle) (models.Raffle, error) {
		if len(numbers) == 0 {
			numbers = SelectedNumbers(r)
		}
		sold = len(numbers)
		return Purchase(r, numbers, buyerName, buyerContact)
	})
	if err != nil {
		return models.Raffle{}, err
	}
	logger.Infof("tenant %s sold %d tickets of raffle %s", tenantID, sold, raffleID)
	return r, nil
}

// Metrics derives the sales figures of a raffle.
func (s *RaffleService) Metrics(tenantID, raffleID string) (models.Metrics, error) {
	r, err := s.Raffle(tenantID, raffleID)
	if err != nil {
		return models.Metrics{}, err
	}
	return DeriveMetrics(r), nil
}

// Dashboard summarises all raffles of the tenant.
func (s *RaffleService) Dashboard(tenantID string) models.Dashboard {
	raffles := s.Raffles(tenantID)
	d := models.Dashboard{
		Raffles:          make([]models.RaffleSummary, 0, len(raffles)),
		Revenue:          decimal.Zero,
		PotentialRevenue: decimal.Zero,
	}
	for _, r := range raffles {
		m := DeriveMetrics(r)
		d.Raffles = append(d.Raffles, models.RaffleSummary{
			Raffle:       r.Public(false),
			Metrics:      m,
			RecentBuyers: RecentBuyers(r),
		})
		d.TotalSold += m.Sold
		d.TotalTickets += m.Total
		d.Revenue = d.Revenue.Add(m.Revenue)
		d.PotentialRevenue = d.PotentialRevenue.Add(m.PotentialRevenue)
	}
	return d
}

// GenerateDescription asks the describer for a prize description.
func (s *RaffleService) GenerateDescription(ctx context.Context, name string, category models.Category) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || category == "" {
		return "", ErrMissingProductInfo
	}
	text, err := s.describer.Describe(ctx, name, string(category))
	if err != nil {
		logger.Warningf("describe %q: %v", name, err)
		return describe.Fallback(name, string(category)), nil
	}
	return text, nil
}

// CleanUpInactiveSessions removes sessions idle for longer than ttl and reports how many went.
func (s *RaffleService) CleanUpInactiveSessions(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for tenantID, session := range s.sessions {
		if now.Sub(session.LastActivity) > ttl {
			delete(s.sessions, tenantID)
			removed++
		}
	}
	return removed
}

// ClearSession removes all data associated with a specific tenant.
func (s *RaffleService) ClearSession(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tenantID)
	logger.Infof("Cleared session for tenant: %s", tenantID)
}

// SessionCount reports how many sessions are live.
func (s *RaffleService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
