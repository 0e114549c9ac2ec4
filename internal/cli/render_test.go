package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/tracker"
)

func ptr[T any](v T) *T { return &v }

func TestRenderBoard(t *testing.T) {
	cols := map[domain.Status][]domain.JobApplication{
		domain.StatusWishlist: {
			{ID: "0f1e2d3c-aaaa", Company: "Acme", Role: "Dev", Status: domain.StatusWishlist, JobType: domain.JobTypeFullTime, Currency: domain.CurrencyRM, Salary: ptr(5000.0)},
		},
		domain.StatusOffer: {
			{ID: "9a8b7c6d-bbbb", Company: "Globex", Role: "SRE", Status: domain.StatusOffer, JobType: domain.JobTypeContract, Currency: domain.CurrencyUSD},
		},
	}
	pending := func(id string) bool { return id == "9a8b7c6d-bbbb" }

	out := renderBoard(cols, pending, 0)

	for _, want := range []string{
		"Wishlist (1)", "Applied (0)", "Interviewing (0)", "Offer (1)", "Rejected (0)", "Ghosting (0)",
		"Acme", "Globex", "RM 5000", "0f1e2d3c", "saving",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("board is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0f1e2d3c-aaaa") {
		t.Error("cards should show the short id")
	}
	if strings.Index(out, "Wishlist") > strings.Index(out, "Applied") {
		t.Error("columns out of order")
	}
}

func TestRenderColumn(t *testing.T) {
	recs := []domain.JobApplication{
		{ID: "a1", Company: "Acme", Role: "Dev", Currency: domain.CurrencySGD, Salary: ptr(7500.5), Notes: "ping recruiter"},
	}
	out := renderColumn(domain.StatusApplied, recs, func(string) bool { return false })
	for _, want := range []string{"Applied (1)", "Dev at Acme", "SGD 7500.5", "ping recruiter"} {
		if !strings.Contains(out, want) {
			t.Errorf("column is missing %q:\n%s", want, out)
		}
	}

	empty := renderColumn(domain.StatusGhosting, nil, func(string) bool { return false })
	if !strings.Contains(empty, "No applications") {
		t.Errorf("empty column = %q", empty)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		n    tracker.Notification
		want string
	}{
		{
			name: "move rolled back",
			n:    tracker.Notification{Op: tracker.OpMove, ID: "0f1e2d3c-aaaa", Err: domain.ErrUnavailable},
			want: "could not move 0f1e2d3c",
		},
		{
			name: "delete restored",
			n:    tracker.Notification{Op: tracker.OpDelete, ID: "x", Err: domain.ErrUnavailable},
			want: "has been restored",
		},
		{
			name: "gone",
			n:    tracker.Notification{Op: tracker.OpEdit, ID: "x", Err: domain.ErrNotFound},
			want: "no longer exists",
		},
		{
			name: "fallback",
			n:    tracker.Notification{Op: tracker.OpCreate, Err: errors.New("boom")},
			want: "create failed: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.n); !strings.Contains(got, tt.want) {
				t.Errorf("describe() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
