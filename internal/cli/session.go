package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/gateway"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/tracker"
)

const inboxSize = 16

// Session is one CLI invocation talking to the board service. Notifications
// queue in inbox and are printed by flush once the intent has returned.
type Session struct {
	tracker *tracker.Tracker
	inbox   *tracker.ChannelNotifier
	notes   *printer
	timeout time.Duration
}

func newSession(v *viper.Viper, errOut io.Writer) (*Session, error) {
	log := logger.NewNop()
	if v.GetBool("verbose") {
		log = logger.New("debug", true)
	}

	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0, got %v", timeout)
	}

	gw, err := gateway.New(v.GetString("api_url"),
		gateway.WithTimeout(timeout),
		gateway.WithLogger(log))
	if err != nil {
		return nil, err
	}

	inbox := tracker.NewChannelNotifier(inboxSize, log)
	return &Session{
		tracker: tracker.New(gw, inbox, log),
		inbox:   inbox,
		notes:   &printer{w: errOut},
		timeout: timeout,
	}, nil
}

// open bounds the command by the configured timeout and loads the board.
func (s *Session) open(ctx context.Context) (context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	if err := s.tracker.Refresh(ctx); err != nil {
		cancel()
		return nil, nil, s.settle(err)
	}
	return ctx, cancel, nil
}

// flush prints every queued notification.
func (s *Session) flush() {
	for {
		select {
		case n := <-s.inbox.C():
			s.notes.Notify(n)
		default:
			return
		}
	}
}

// settle prints pending notifications and marks err as already printed when
// one of them reported it.
func (s *Session) settle(err error) error {
	s.flush()
	if err == nil || !s.notes.reported(err) {
		return err
	}
	return reportedError{err}
}

// resolveID accepts a full id or any unique prefix of one.
func (s *Session) resolveID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", &domain.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if _, ok := s.tracker.Get(arg); ok {
		return arg, nil
	}

	var matches []string
	for _, rec := range s.tracker.Records() {
		if strings.HasPrefix(rec.ID, arg) {
			matches = append(matches, rec.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: no application matches %q", domain.ErrNotFound, arg)
	default:
		return "", &domain.ValidationError{Field: "id", Reason: fmt.Sprintf("%q matches %d applications", arg, len(matches))}
	}
}

type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// printer writes notifications to stderr and remembers what it printed.
type printer struct {
	mu    sync.Mutex
	w     io.Writer
	shown []error
}

func (p *printer) Notify(n tracker.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	label := warnStyle.Render("warning:")
	if n.Severity == tracker.SeverityBlocking {
		label = errStyle.Render("error:")
	}
	fmt.Fprintf(p.w, "%s %s\n", label, describe(n))
	p.shown = append(p.shown, n.Err)
}

func (p *printer) reported(err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.shown {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func describe(n tracker.Notification) string {
	switch {
	case errors.Is(n.Err, domain.ErrUnavailable) && n.Op == tracker.OpMove:
		return fmt.Sprintf("could not move %s, it is back in its previous column (%v)", shortID(n.ID), n.Err)
	case errors.Is(n.Err, domain.ErrUnavailable) && n.Op == tracker.OpDelete:
		return fmt.Sprintf("could not delete %s, it has been restored (%v)", shortID(n.ID), n.Err)
	case errors.Is(n.Err, domain.ErrNotFound) && n.ID != "":
		return fmt.Sprintf("%s no longer exists on the server", shortID(n.ID))
	}
	return n.String()
}
