package store

import (
	"context"
	"sort"
	"sync"

	"github.com/simba-tools/simbadesk/models"
)

// MemoryStore keeps all records in process memory. It is the default
// backend and the one used in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	tickets   map[string]*models.Ticket
	scrapes   map[string]*models.ScrapedTicket
	ticketSeq int64
	artSeq    int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets: make(map[string]*models.Ticket),
		scrapes: make(map[string]*models.ScrapedTicket),
	}
}

func (m *MemoryStore) Create(_ context.Context, t *models.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ticketSeq++
	t.SimbaID = models.FormatSimbaID(m.ticketSeq)
	m.tickets[t.SimbaID] = cloneTicket(t)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, simbaID string) (*models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tickets[simbaID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTicket(t), nil
}

func (m *MemoryStore) List(_ context.Context) ([]*models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, cloneTicket(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedTimestamp.Equal(out[j].CreatedTimestamp) {
			return out[i].CreatedTimestamp.After(out[j].CreatedTimestamp)
		}
		return out[i].SimbaID > out[j].SimbaID
	})
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, t *models.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[t.SimbaID]; !ok {
		return ErrNotFound
	}
	m.tickets[t.SimbaID] = cloneTicket(t)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, simbaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tickets[simbaID]; !ok {
		return ErrNotFound
	}
	delete(m.tickets, simbaID)
	return nil
}

func (m *MemoryStore) NextArtID(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.artSeq++
	return models.FormatArtID(m.artSeq), nil
}

func (m *MemoryStore) PutScrape(_ context.Context, s *models.ScrapedTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.scrapes[s.OriginalTicketID] = &cp
	return nil
}

func (m *MemoryStore) GetScrape(_ context.Context, originalTicketID string) (*models.ScrapedTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scrapes[originalTicketID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) ListScrapes(_ context.Context) ([]*models.ScrapedTicket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.ScrapedTicket, 0, len(m.scrapes))
	for _, s := range m.scrapes {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScrapedAt.After(out[j].ScrapedAt)
	})
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func cloneTicket(t *models.Ticket) *models.Ticket {
	cp := *t
	if t.ArtID != nil {
		v := *t.ArtID
		cp.ArtID = &v
	}
	if t.ArtStatus != nil {
		v := *t.ArtStatus
		cp.ArtStatus = &v
	}
	if t.ErrorDetails != nil {
		v := *t.ErrorDetails
		cp.ErrorDetails = &v
	}
	cp.WorkflowState = make([]models.WorkflowState, len(t.WorkflowState))
	for i, ws := range t.WorkflowState {
		cp.WorkflowState[i] = models.WorkflowState{
			CurrentNode:    ws.CurrentNode,
			StepsCompleted: append([]string(nil), ws.StepsCompleted...),
		}
	}
	cp.Approver.ApprovalFor = append([]string(nil), t.Approver.ApprovalFor...)
	return &cp
}
