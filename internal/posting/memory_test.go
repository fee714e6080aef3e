package posting

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func seedPosts(t *testing.T, store *InMemory, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := store.Create(context.Background(), Post{
			Title:       fmt.Sprintf("Posting %02d", i),
			Description: "seeded",
			Domain:      "Education",
			City:        "Pune",
			Status:      StatusActive,
			NgoID:       int64(i%2 + 1),
			StartDate:   NewDate(2027, time.January, i),
		})
		if err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
}

func TestInMemoryPagination(t *testing.T) {
	store := NewInMemory()
	seedPosts(t, store, 25)

	first, total, err := store.ListActive(context.Background(), Page{Number: 0, Size: 10, SortBy: "title", SortDir: "asc"})
	if err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if total != 25 || len(first) != 10 {
		t.Fatalf("page 0: total=%d len=%d", total, len(first))
	}
	if first[0].Title != "Posting 01" {
		t.Fatalf("unexpected first item: %s", first[0].Title)
	}

	last, _, err := store.ListActive(context.Background(), Page{Number: 2, Size: 10, SortBy: "title", SortDir: "asc"})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(last) != 5 {
		t.Fatalf("page 2: len=%d, want 5", len(last))
	}

	beyond, _, err := store.ListActive(context.Background(), Page{Number: 9, Size: 10})
	if err != nil {
		t.Fatalf("page 9: %v", err)
	}
	if len(beyond) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(beyond))
	}
}

func TestInMemorySortDirections(t *testing.T) {
	store := NewInMemory()
	seedPosts(t, store, 3)

	desc, _, err := store.ListActive(context.Background(), Page{SortBy: "start_date", SortDir: "desc"})
	if err != nil {
		t.Fatalf("desc: %v", err)
	}
	if desc[0].Title != "Posting 03" {
		t.Fatalf("desc: first item %s", desc[0].Title)
	}

	asc, _, err := store.ListActive(context.Background(), Page{SortBy: "start_date", SortDir: "asc"})
	if err != nil {
		t.Fatalf("asc: %v", err)
	}
	if asc[0].Title != "Posting 01" {
		t.Fatalf("asc: first item %s", asc[0].Title)
	}
}

func TestInMemoryFilters(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	if _, err := store.Create(ctx, Post{Title: "Tree planting", Description: "plant saplings", Domain: "Environment", City: "Pune", Status: StatusActive, NgoID: 1}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Create(ctx, Post{Title: "Math tutoring", Description: "weekend classes", Domain: "Education", City: "Mumbai", Status: StatusActive, NgoID: 2}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Create(ctx, Post{Title: "Closed drive", Description: "done", Domain: "Environment", City: "Pune", Status: StatusCompleted, NgoID: 1}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, total, _ := store.ListActive(ctx, Page{}); total != 2 {
		t.Fatalf("active: total=%d, want 2", total)
	}
	if _, total, _ := store.ListByDomain(ctx, "environment", Page{}); total != 2 {
		t.Fatalf("by domain: total=%d, want 2 (case-insensitive, any status)", total)
	}
	if _, total, _ := store.ListByCity(ctx, "Mumbai", Page{}); total != 1 {
		t.Fatalf("by city: total=%d, want 1", total)
	}
	if _, total, _ := store.ListByNGO(ctx, 1, Page{}); total != 2 {
		t.Fatalf("by ngo: total=%d, want 2", total)
	}

	items, total, _ := store.Search(ctx, "TUTOR", Page{})
	if total != 1 || items[0].Title != "Math tutoring" {
		t.Fatalf("search: total=%d items=%v", total, items)
	}
	// COMPLETED posts never match search.
	if _, total, _ := store.Search(ctx, "drive", Page{}); total != 0 {
		t.Fatalf("search over completed: total=%d, want 0", total)
	}
}

func TestInMemoryUpdatePreservesOwnerAndCreatedAt(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	created, err := store.Create(ctx, Post{Title: "Original", Status: StatusActive, NgoID: 7})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tampered := created
	tampered.NgoID = 1234
	tampered.Title = "Renamed"

	updated, err := store.Update(ctx, tampered)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.NgoID != 7 {
		t.Fatalf("owner reassigned: %d", updated.NgoID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title not applied: %s", updated.Title)
	}
}
