// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/store"
)

// Factory builds an empty store using opts.
type Factory func(t *testing.T, opts store.Options) store.Store

// Clock is a deterministic clock that advances one second per call.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// Sequential returns ids "job-1", "job-2", ...
func Sequential() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("job-%d", n)
	}
}

func prepared(t *testing.T, f domain.Fields) domain.Fields {
	t.Helper()
	out, err := f.Prepare()
	if err != nil {
		t.Fatalf("Prepare(%+v) error: %v", f, err)
	}
	return out
}

func mustCreate(t *testing.T, s store.Store, company string) domain.JobApplication {
	t.Helper()
	rec, err := s.Create(context.Background(), prepared(t, domain.Fields{Company: company, Role: "Engineer"}))
	if err != nil {
		t.Fatalf("Create(%s) error: %v", company, err)
	}
	return rec
}

// Run executes the shared suite against a backend.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	fresh := func(t *testing.T) store.Store {
		s := newStore(t, store.Options{Now: NewClock().Now, NewID: Sequential()})
		t.Cleanup(func() { _ = s.Close() })
		return s
	}

	t.Run("create assigns id, defaults and timestamps", func(t *testing.T) {
		s := fresh(t)
		salary := 4200.0
		rec, err := s.Create(ctx, prepared(t, domain.Fields{Company: "Acme", Role: "SRE", Salary: &salary}))
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		if rec.ID != "job-1" {
			t.Errorf("ID = %q, want job-1", rec.ID)
		}
		if rec.Status != domain.StatusWishlist || rec.JobType != domain.JobTypeFullTime || rec.Currency != domain.CurrencyRM {
			t.Errorf("defaults not applied: %+v", rec)
		}
		if rec.CreatedAt.IsZero() || !rec.CreatedAt.Equal(rec.UpdatedAt) {
			t.Errorf("timestamps = (%v, %v)", rec.CreatedAt, rec.UpdatedAt)
		}

		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.Company != "Acme" || got.Salary == nil || *got.Salary != salary {
			t.Errorf("Get() = %+v", got)
		}
		if !got.UpdatedAt.Equal(rec.UpdatedAt) {
			t.Errorf("UpdatedAt round trip = %v, want %v", got.UpdatedAt, rec.UpdatedAt)
		}
	})

	t.Run("list orders by updated_at descending", func(t *testing.T) {
		s := fresh(t)
		a := mustCreate(t, s, "A")
		mustCreate(t, s, "B")
		mustCreate(t, s, "C")

		notes := "follow up"
		if _, err := s.Update(ctx, a.ID, domain.Patch{Notes: &notes}); err != nil {
			t.Fatalf("Update() error: %v", err)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		var got []string
		for _, r := range list {
			got = append(got, r.Company)
		}
		want := []string{"A", "C", "B"}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Errorf("List() order = %v, want %v", got, want)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		s := fresh(t)
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("List() = %v, want empty slice", list)
		}
	})

	t.Run("update applies only present fields", func(t *testing.T) {
		s := fresh(t)
		salary := 100.0
		rec, err := s.Create(ctx, prepared(t, domain.Fields{Company: "Acme", Role: "Dev", Salary: &salary, Notes: "n1"}))
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		status := domain.StatusInterviewing
		got, err := s.Update(ctx, rec.ID, domain.Patch{Status: &status, Salary: domain.SetAmount(nil)})
		if err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if got.Status != status || got.Salary != nil {
			t.Errorf("Update() = %+v", got)
		}
		if got.Company != "Acme" || got.Notes != "n1" || got.Role != "Dev" {
			t.Errorf("untouched fields changed: %+v", got)
		}
		if !got.UpdatedAt.After(rec.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, rec.UpdatedAt)
		}
		if !got.CreatedAt.Equal(rec.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", rec.CreatedAt, got.CreatedAt)
		}

		again, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if again.Status != status || again.Salary != nil {
			t.Errorf("Get() after update = %+v", again)
		}
	})

	t.Run("missing ids report not found", func(t *testing.T) {
		s := fresh(t)
		notes := "x"
		if _, err := s.Get(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
		if _, err := s.Update(ctx, "nope", domain.Patch{Notes: &notes}); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete removes the record", func(t *testing.T) {
		s := fresh(t)
		a := mustCreate(t, s, "A")
		mustCreate(t, s, "B")

		if err := s.Delete(ctx, a.ID); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if err := s.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
		n, err := s.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error: %v", err)
		}
		if n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := fresh(t).Ping(ctx); err != nil {
			t.Errorf("Ping() error: %v", err)
		}
	})
}
