package store

import (
	"context"
	"testing"
	"time"

	"github.com/simba-tools/simbadesk/models"
)

func TestMemoryStoreTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tk := models.NewTicket("", "VPN access", "Need VPN for remote work", "Ada Lovelace", "ada@example.com")
	if err := s.Create(ctx, tk); err != nil {
		t.Fatalf("create: %v", err)
	}
	if tk.SimbaID != "SIMBA-0001" {
		t.Errorf("expected SIMBA-0001, got %q", tk.SimbaID)
	}

	got, err := s.Get(ctx, "SIMBA-0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "VPN access" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if got.Approver.FirstName != "Ada" || got.Approver.LastName != "Lovelace" {
		t.Errorf("approver not seeded from requester: %+v", got.Approver)
	}

	got.Status = models.StatusResolved
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.Get(ctx, "SIMBA-0001")
	if again.Status != models.StatusResolved {
		t.Errorf("update not persisted: %q", again.Status)
	}

	if err := s.Delete(ctx, "SIMBA-0001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "SIMBA-0001"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 1; i <= 3; i++ {
		tk := models.NewTicket("", "t", "d", "A B", "a@b.com")
		if err := s.Create(ctx, tk); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		want := models.FormatSimbaID(int64(i))
		if tk.SimbaID != want {
			t.Errorf("expected %s, got %s", want, tk.SimbaID)
		}
	}

	art1, _ := s.NextArtID(ctx)
	art2, _ := s.NextArtID(ctx)
	if art1 != "ART-0001" || art2 != "ART-0002" {
		t.Errorf("unexpected art ids %s, %s", art1, art2)
	}
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	older := models.NewTicket("", "first", "d", "A", "a@b.com")
	older.CreatedTimestamp = time.Now().Add(-time.Hour)
	if err := s.Create(ctx, older); err != nil {
		t.Fatal(err)
	}
	newer := models.NewTicket("", "second", "d", "A", "a@b.com")
	if err := s.Create(ctx, newer); err != nil {
		t.Fatal(err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(list))
	}
	if list[0].Title != "second" {
		t.Errorf("expected newest first, got %q", list[0].Title)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	tk := models.NewTicket("", "t", "d", "A B", "a@b.com")
	if err := s.Create(ctx, tk); err != nil {
		t.Fatal(err)
	}

	first, _ := s.Get(ctx, tk.SimbaID)
	first.Title = "mutated"
	first.WorkflowState[0].StepsCompleted[0] = "mutated"

	second, _ := s.Get(ctx, tk.SimbaID)
	if second.Title != "t" {
		t.Error("stored ticket mutated through returned copy")
	}
	if second.WorkflowState[0].StepsCompleted[0] != "validate_request" {
		t.Error("stored workflow state mutated through returned copy")
	}
}

func TestMemoryStoreScrapes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.GetScrape(ctx, "SIMBA-0001"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	sc := &models.ScrapedTicket{
		OriginalTicketID: "SIMBA-0001",
		ScrapedData:      map[string]any{"title": "hello"},
		SourceURL:        "http://localhost/tickets/SIMBA-0001",
		ScrapedAt:        time.Now(),
	}
	if err := s.PutScrape(ctx, sc); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.GetScrape(ctx, "SIMBA-0001")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ScrapedData["title"] != "hello" {
		t.Errorf("unexpected data %v", got.ScrapedData)
	}

	// A re-scrape replaces the previous snapshot.
	sc2 := &models.ScrapedTicket{
		OriginalTicketID: "SIMBA-0001",
		ScrapedData:      map[string]any{"title": "updated"},
		SourceURL:        sc.SourceURL,
		ScrapedAt:        time.Now(),
	}
	if err := s.PutScrape(ctx, sc2); err != nil {
		t.Fatal(err)
	}
	list, _ := s.ListScrapes(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 snapshot after replace, got %d", len(list))
	}
	if list[0].ScrapedData["title"] != "updated" {
		t.Errorf("replace not applied: %v", list[0].ScrapedData)
	}
}
