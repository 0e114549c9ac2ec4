package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/store"
	"github.com/MrSnakeDoc/jobboard/internal/store/sqlite"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}
	return path
}

func openStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "jobs.db"), store.Options{})
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoaderLoad(t *testing.T) {
	t.Setenv("SEED_LINK", "https://jobs.example.com/42")
	path := writeFile(t, `
applications:
  - company: Acme
    role: Backend Engineer
    status: Applied
    salary: 8500
    currency: SGD
    job_link: ${SEED_LINK}
  - company: Globex
    role: SRE
`)

	got, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d entries", len(got))
	}
	first := got[0]
	if first.Status != domain.StatusApplied || first.Currency != domain.CurrencySGD {
		t.Errorf("first = %+v", first)
	}
	if first.Salary == nil || *first.Salary != 8500 {
		t.Errorf("salary = %v", first.Salary)
	}
	if first.JobLink != "https://jobs.example.com/42" {
		t.Errorf("job_link = %q", first.JobLink)
	}
	if got[1].Salary != nil {
		t.Errorf("second salary = %v, want nil", *got[1].Salary)
	}
}

func TestLoaderErrors(t *testing.T) {
	if _, err := NewLoader("/nonexistent/seed.yaml").Load(); err == nil {
		t.Error("Load() with missing file should fail")
	}
	if _, err := NewLoader(writeFile(t, "applications: [")).Load(); err == nil {
		t.Error("Load() with broken yaml should fail")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("JOB_CITY", "Kuala Lumpur")
	tests := []struct {
		name, in, want string
	}{
		{"set variable", "location: ${JOB_CITY}", "location: Kuala Lumpur"},
		{"unset variable", "notes: ${SEED_DOES_NOT_EXIST}", "notes: "},
		{"bare dollar untouched", "notes: $5 lunch", "notes: $5 lunch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnv([]byte(tt.in))); got != tt.want {
				t.Errorf("expandEnv(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	entries := []domain.Fields{
		{Company: "Acme", Role: "Dev"},
		{Company: "", Role: "Nobody"},
		{Company: "Globex", Role: "SRE", Status: domain.StatusOffer},
	}

	n, err := Import(ctx, s, entries, logger.NewNop())
	if n != 2 {
		t.Errorf("Import() created %d, want 2", n)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Import() error = %v, want the skipped entry reported", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() = %+v", list)
	}

	// a populated store is never seeded twice
	n, err = Import(ctx, s, entries[:1], logger.NewNop())
	if n != 0 || err != nil {
		t.Errorf("second Import() = %d, %v", n, err)
	}
	if c, _ := s.Count(ctx); c != 2 {
		t.Errorf("Count() = %d after second import", c)
	}
}

func TestFromFileEmptyPath(t *testing.T) {
	n, err := FromFile(context.Background(), "", openStore(t), logger.NewNop())
	if n != 0 || err != nil {
		t.Errorf("FromFile(\"\") = %d, %v", n, err)
	}
}
