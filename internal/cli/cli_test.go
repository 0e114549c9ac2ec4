package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/store"
	"github.com/MrSnakeDoc/jobboard/internal/store/sqlite"
)

func newAPI(t *testing.T) (string, store.Store) {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "jobs.db"), store.Options{})
	if err != nil {
		t.Fatalf("sqlite.Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	srv := httptest.NewServer(httpserver.NewRouter(deps.Deps{
		Logger:    logger.NewNop(),
		Store:     s,
		StartTime: time.Now(),
	}))
	t.Cleanup(srv.Close)
	return srv.URL, s
}

func run(t *testing.T, apiURL string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--api-url", apiURL, "--timeout", "5s"))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCommandsEndToEnd(t *testing.T) {
	api, st := newAPI(t)

	out, _, err := run(t, api, "add", "--company", "Acme", "--role", "Dev", "--salary", "5000", "--currency", "usd")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Dev at Acme in Wishlist") {
		t.Errorf("add output = %q", out)
	}

	list, _ := st.List(context.Background())
	if len(list) != 1 || list[0].Currency != domain.CurrencyUSD || list[0].Salary == nil {
		t.Fatalf("stored = %+v", list)
	}
	prefix := list[0].ID[:6]

	if out, _, err = run(t, api, "move", prefix, "interviewing"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(out, "now in Interviewing") {
		t.Errorf("move output = %q", out)
	}

	if _, _, err = run(t, api, "edit", prefix, "--notes", "onsite next week", "--clear-salary"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got, _ := st.Get(context.Background(), list[0].ID)
	if got.Status != domain.StatusInterviewing || got.Notes != "onsite next week" || got.Salary != nil {
		t.Errorf("after edit = %+v", got)
	}

	if out, _, err = run(t, api, "board", "--status", "interviewing"); err != nil {
		t.Fatalf("board: %v", err)
	}
	if !strings.Contains(out, "Interviewing (1)") || !strings.Contains(out, "onsite next week") {
		t.Errorf("board output = %q", out)
	}

	if _, _, err = run(t, api, "rm", prefix); err != nil {
		t.Fatalf("rm: %v", err)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("Count() = %d after rm", n)
	}
}

func TestCommandErrors(t *testing.T) {
	api, _ := newAPI(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "add without company", args: []string{"add", "--role", "Dev"}, want: domain.ErrValidation},
		{name: "unknown column", args: []string{"board", "--status", "hired"}, want: domain.ErrValidation},
		{name: "move unknown id", args: []string{"move", "nope", "offer"}, want: domain.ErrNotFound},
		{name: "edit unknown id", args: []string{"edit", "nope", "--notes", "x"}, want: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := run(t, api, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnreachableServerIsReported(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, errOut, err := run(t, url, "board")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	var shown reportedError
	if !errors.As(err, &shown) {
		t.Error("error should be marked as already reported")
	}
	if !strings.Contains(errOut, "refresh failed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestVersionNeedsNoServer(t *testing.T) {
	out, _, err := run(t, "http://127.0.0.1:1", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "jobboard ") {
		t.Errorf("version output = %q", out)
	}
}

func TestFieldFlagsPatch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(domain.Patch) bool
		wantErr bool
	}{
		{
			name:  "only changed flags",
			args:  []string{"--notes", "hi"},
			check: func(p domain.Patch) bool { return p.Notes != nil && *p.Notes == "hi" && p.Company == nil && !p.Salary.Set },
		},
		{
			name:  "explicit empty string is kept",
			args:  []string{"--location="},
			check: func(p domain.Patch) bool { return p.Location != nil && *p.Location == "" },
		},
		{
			name:  "clear salary",
			args:  []string{"--clear-salary"},
			check: func(p domain.Patch) bool { return p.Salary.Set && p.Salary.Amount == nil },
		},
		{
			name:  "zero salary is a value",
			args:  []string{"--salary", "0"},
			check: func(p domain.Patch) bool { return p.Salary.Set && p.Salary.Amount != nil && *p.Salary.Amount == 0 },
		},
		{
			name:  "status parsed case-insensitively",
			args:  []string{"--status", "OFFER"},
			check: func(p domain.Patch) bool { return p.Status != nil && *p.Status == domain.StatusOffer },
		},
		{name: "bad type", args: []string{"--type", "freelance"}, wantErr: true},
		{name: "salary and clear", args: []string{"--salary", "1", "--clear-salary"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ff fieldFlags
			cmd := &cobra.Command{Use: "edit"}
			ff.register(cmd, true)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags() error: %v", err)
			}
			p, err := ff.patch(cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("patch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !tt.check(p) {
				t.Errorf("patch() = %+v", p)
			}
		})
	}
}
