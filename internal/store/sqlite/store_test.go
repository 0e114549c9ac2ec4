package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/store"
	"github.com/MrSnakeDoc/jobboard/internal/store/storetest"
)

func open(t *testing.T, opts store.Options) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "jobboard.db"), opts)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T, opts store.Options) store.Store {
		return open(t, opts)
	})
}

func TestCheckConstraints(t *testing.T) {
	s := open(t, store.Options{})
	defer func() { _ = s.Close() }()

	// Bypass domain validation to make sure the schema still refuses bad rows.
	rec, err := s.Create(context.Background(), domain.Fields{Company: "Acme", Role: "Dev", Status: "Hired", JobType: domain.JobTypeContract, Currency: domain.CurrencyUSD})
	if err == nil {
		t.Fatalf("Create() with invalid status succeeded: %+v", rec)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobboard.db")
	ctx := context.Background()

	s, err := Open(path, store.Options{})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	f, _ := domain.Fields{Company: "Acme", Role: "Dev"}.Prepare()
	rec, err := s.Create(ctx, f)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	s, err = Open(path, store.Options{})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer func() { _ = s.Close() }()

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if got.Company != "Acme" {
		t.Errorf("Company = %q, want Acme", got.Company)
	}
}
