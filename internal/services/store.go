package services

import (
	"strconv"
	"sync"

	"raffle/internal/models"
)

// Store is the raffle collection of a single session. Raffles are never removed;
// they change only by whole replacement.
type Store struct {
	mu      sync.RWMutex
	raffles []models.Raffle
}

// NewStore creates a store holding the given raffles in order.
func NewStore(raffles ...models.Raffle) *Store {
	s := &Store{raffles: make([]models.Raffle, 0, len(raffles))}
	for _, r := range raffles {
		s.raffles = append(s.raffles, r.Clone())
	}
	return s
}

// Add puts a raffle at the front of the collection.
func (s *Store) Add(r models.Raffle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raffles = append([]models.Raffle{r.Clone()}, s.raffles...)
}

// AddUnique puts a raffle at the front of the collection, suffixing its ID
// with -2, -3, ... when the ID is already taken. It returns the stored copy.
func (s *Store) AddUnique(r models.Raffle) models.Raffle {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := r.ID
	for n := 2; s.indexOf(r.ID) >= 0; n++ {
		r.ID = base + "-" + strconv.Itoa(n)
	}
	r = r.Clone()
	s.raffles = append([]models.Raffle{r}, s.raffles...)
	return r.Clone()
}

// Update replaces the raffle with the same ID.
func (s *Store) Update(r models.Raffle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(r)
}

// Modify runs fn against the current raffle and stores its result, holding the
// write lock throughout so no other mutation interleaves.
func (s *Store) Modify(id string, fn func(models.Raffle) (models.Raffle, error)) (models.Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Raffle{}, ErrRaffleNotFound
	}
	updated, err := fn(s.raffles[i].Clone())
	if err != nil {
		return models.Raffle{}, err
	}
	if err := s.replace(updated); err != nil {
		return models.Raffle{}, err
	}
	return updated.Clone(), nil
}

// Get returns a copy of the raffle with the given ID.
func (s *Store) Get(id string) (models.Raffle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return models.Raffle{}, false
	}
	return s.raffles[i].Clone(), true
}

// List returns copies of every raffle, newest first.
func (s *Store) List() []models.Raffle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Raffle, len(s.raffles))
	for i, r := range s.raffles {
		out[i] = r.Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.raffles)
}

func (s *Store) replace(r models.Raffle) error {
	i := s.indexOf(r.ID)
	if i < 0 {
		return ErrRaffleNotFound
	}
	if !s.raffles[i].TicketPrice.Equal(r.TicketPrice) {
		return ErrImmutablePrice
	}
	if err := checkTickets(s.raffles[i].Tickets, r.Tickets); err != nil {
		return err
	}
	s.raffles[i] = r.Clone()
	return nil
}

// checkTickets rejects a replacement that resizes or renumbers the tickets or
// touches a ticket that was already sold.
func checkTickets(stored, next []models.Ticket) error {
	if len(next) != len(stored) {
		return ErrImmutableTickets
	}
	for i, t := range next {
		if t.Number != i+1 {
			return ErrImmutableTickets
		}
		if stored[i].Status == models.TicketSold && t != stored[i] {
			return ErrImmutableTickets
		}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.raffles {
		if r.ID == id {
			return i
		}
	}
	return -1
}
