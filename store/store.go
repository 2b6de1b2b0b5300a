// Package store persists tickets and scrape results behind a backend-neutral
// interface. Two backends exist: an in-process map store and a Redis store.
package store

import (
	"context"
	"errors"

	"github.com/simba-tools/simbadesk/models"
)

// ErrNotFound is returned when a ticket or scrape record does not exist.
var ErrNotFound = errors.New("store: not found")

// TicketStore persists tickets.
type TicketStore interface {
	// Create assigns the next sequential SIMBA id and saves the ticket.
	Create(ctx context.Context, t *models.Ticket) error

	// Get returns the ticket with the given simba id.
	Get(ctx context.Context, simbaID string) (*models.Ticket, error)

	// List returns all tickets, newest first.
	List(ctx context.Context) ([]*models.Ticket, error)

	// Update replaces a stored ticket. The ticket must already exist.
	Update(ctx context.Context, t *models.Ticket) error

	// Delete removes a ticket.
	Delete(ctx context.Context, simbaID string) error

	// NextArtID allocates the next sequential ART id.
	NextArtID(ctx context.Context) (string, error)
}

// ScrapeStore persists scraped ticket snapshots.
type ScrapeStore interface {
	// PutScrape saves a scraped snapshot keyed by the original ticket id,
	// replacing any previous snapshot for that ticket.
	PutScrape(ctx context.Context, s *models.ScrapedTicket) error

	// GetScrape returns the snapshot for the given original ticket id.
	GetScrape(ctx context.Context, originalTicketID string) (*models.ScrapedTicket, error)

	// ListScrapes returns all snapshots, newest first.
	ListScrapes(ctx context.Context) ([]*models.ScrapedTicket, error)
}

// Store bundles both stores for a single backend.
type Store interface {
	TicketStore
	ScrapeStore

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
