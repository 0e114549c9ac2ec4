// Package tracker drives the board: it applies optimistic changes, talks to
// the gateway and reconciles (or rolls back) once the server answers.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/jobboard/internal/board"
	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
)

// Gateway is the remote side of the board. Errors are expected to be
// normalized to domain.ErrNotFound, *domain.ValidationError or domain.ErrUnavailable.
type Gateway interface {
	List(ctx context.Context) ([]domain.JobApplication, error)
	Create(ctx context.Context, f domain.Fields) (domain.JobApplication, error)
	Update(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error)
	Delete(ctx context.Context, id string) error
}

// Location is a card position: a column and the index inside it.
type Location struct {
	Column domain.Status
	Index  int
}

// DragEvent is what a drag-and-drop surface reports when a card is released.
// Destination is nil when the card was dropped outside every column.
type DragEvent struct {
	ID          string
	Source      Location
	Destination *Location
}

type move struct {
	seq  uint64
	prev domain.Status
	dest domain.Status
}

type pendingDelete struct {
	rec    domain.JobApplication
	before string
	index  int
}

type Tracker struct {
	board  *board.State
	gw     Gateway
	notify Notifier
	log    logger.Logger

	mu         sync.Mutex
	seq        uint64            // numbers every Update issued, moves and edits alike
	lastStatus map[string]uint64 // seq of the newest status-carrying Update per id
	moves      map[string]move
	deletes    map[string]pendingDelete

	// gen counts confirmed board changes. While a Refresh is waiting on List,
	// touched records the gen of every id changed so the snapshot cannot undo it.
	gen        uint64
	refreshing int
	touched    map[string]uint64
}

func New(gw Gateway, notify Notifier, log logger.Logger) *Tracker {
	if notify == nil {
		notify = NotifierFunc(func(Notification) {})
	}
	if log == nil {
		log = logger.NewNop()
	}
	st, _ := board.New()
	return &Tracker{
		board:      st,
		gw:         gw,
		notify:     notify,
		log:        log,
		lastStatus: make(map[string]uint64),
		moves:      make(map[string]move),
		deletes:    make(map[string]pendingDelete),
		touched:    make(map[string]uint64),
	}
}

// Columns returns the current board projection.
func (t *Tracker) Columns() map[domain.Status][]domain.JobApplication {
	return t.board.Columns()
}

func (t *Tracker) Records() []domain.JobApplication {
	return t.board.Records()
}

func (t *Tracker) Get(id string) (domain.JobApplication, bool) {
	rec, _, ok := t.board.Get(id)
	return rec, ok
}

// Pending reports whether a move for id is waiting on the server.
func (t *Tracker) Pending(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.moves[id]
	return ok
}

// touch records a confirmed change to id. Callers hold t.mu.
func (t *Tracker) touch(id string) {
	t.gen++
	if t.refreshing > 0 {
		t.touched[id] = t.gen
	}
}

// forget drops the write bookkeeping of an id that left the server. Callers hold t.mu.
func (t *Tracker) forget(id string) {
	delete(t.moves, id)
	delete(t.lastStatus, id)
}

// Refresh reloads the board from the server. In-flight moves keep their
// optimistic column, records pending deletion stay hidden, and anything
// confirmed while the list was on its way keeps its confirmed state.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	t.refreshing++
	since := t.gen
	t.mu.Unlock()

	list, err := t.gw.List(ctx)

	t.mu.Lock()
	t.refreshing--
	if err != nil {
		t.endRefreshLocked()
		t.mu.Unlock()
		t.emit(Notification{Severity: SeverityNonBlocking, Op: OpRefresh, Err: err})
		return fmt.Errorf("refresh: %w", err)
	}

	records := t.reconcileLocked(list, since)
	t.endRefreshLocked()
	err = t.board.Apply(board.Reset{Records: records})
	t.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: refresh: %w", domain.ErrUnavailable, err)
	}
	t.log.Debug("board refreshed", logger.Int("applications", t.board.Len()))
	return nil
}

func (t *Tracker) endRefreshLocked() {
	if t.refreshing == 0 {
		clear(t.touched)
	}
}

// reconcileLocked merges a List snapshot taken after gen since with the board.
// Records changed after since keep their board version (or stay gone); records
// confirmed after since and missing from the snapshot go to the front.
func (t *Tracker) reconcileLocked(list []domain.JobApplication, since uint64) []domain.JobApplication {
	changed := func(id string) bool { return t.touched[id] > since }

	current := make(map[string]domain.JobApplication)
	onBoard := t.board.Records()
	for _, rec := range onBoard {
		if changed(rec.ID) {
			current[rec.ID] = rec
		}
	}

	listed := make(map[string]struct{}, len(list))
	records := make([]domain.JobApplication, 0, len(list))
	for _, rec := range list {
		listed[rec.ID] = struct{}{}
		if _, gone := t.deletes[rec.ID]; gone {
			continue
		}
		if changed(rec.ID) {
			if cur, ok := current[rec.ID]; ok {
				records = append(records, cur)
			}
			continue
		}
		if m, ok := t.moves[rec.ID]; ok {
			rec.Status = m.dest
		}
		records = append(records, rec)
	}

	var fresh []domain.JobApplication
	for _, rec := range onBoard {
		if _, ok := listed[rec.ID]; !ok && changed(rec.ID) {
			fresh = append(fresh, rec)
		}
	}
	return append(fresh, records...)
}

// Drop turns a drag-and-drop release into a move. Dropping outside any
// column or back onto the same slot does nothing.
func (t *Tracker) Drop(ctx context.Context, ev DragEvent) error {
	dst := ev.Destination
	if dst == nil {
		return nil
	}
	if dst.Column == ev.Source.Column && dst.Index == ev.Source.Index {
		return nil
	}
	return t.move(ctx, ev.ID, dst.Column, true)
}

// MoveIntent changes the column of id. Moving to the current column is a no-op.
func (t *Tracker) MoveIntent(ctx context.Context, id string, dest domain.Status) error {
	return t.move(ctx, id, dest, false)
}

func (t *Tracker) move(ctx context.Context, id string, dest domain.Status, reorder bool) error {
	if !dest.Valid() {
		return &domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", dest)}
	}

	t.mu.Lock()
	rec, _, ok := t.board.Get(id)
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s is not on the board", domain.ErrNotFound, id)
	}
	if rec.Status == dest && !reorder {
		t.mu.Unlock()
		return nil
	}
	if err := t.board.Apply(board.PatchStatus{ID: id, Status: dest}); err != nil {
		t.mu.Unlock()
		return err
	}
	t.seq++
	seq := t.seq
	prev := rec.Status
	t.moves[id] = move{seq: seq, prev: prev, dest: dest}
	t.lastStatus[id] = seq
	t.mu.Unlock()

	updated, err := t.gw.Update(ctx, id, domain.StatusPatch(dest))

	t.mu.Lock()
	if m, ok := t.moves[id]; ok && m.seq == seq {
		delete(t.moves, id)
	}
	if t.lastStatus[id] != seq {
		t.mu.Unlock()
		t.log.Debug("stale move response dropped",
			logger.String("id", id),
			logger.Uint64("seq", seq),
			logger.Error(err))
		return nil
	}

	if err == nil {
		if aerr := t.board.Apply(board.Replace{ID: id, Record: updated}); aerr != nil {
			err = fmt.Errorf("%w: move %s: %w", domain.ErrUnavailable, id, aerr)
		} else {
			t.touch(id)
		}
	}
	if err == nil {
		t.mu.Unlock()
		return nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		t.forget(id)
		_ = t.board.Apply(board.Remove{ID: id})
		t.touch(id)
	} else {
		_ = t.board.Apply(board.PatchStatus{ID: id, Status: prev})
		if pd, ok := t.deletes[id]; ok {
			pd.rec.Status = prev
			t.deletes[id] = pd
		}
	}
	t.mu.Unlock()

	t.log.Warn("move failed",
		logger.String("id", id),
		logger.String("to", string(dest)),
		logger.String("reverted_to", string(prev)),
		logger.Error(err))
	t.emit(Notification{Severity: SeverityNonBlocking, Op: OpMove, ID: id, Err: err})
	return err
}

// CreateIntent validates f, waits for the server and puts the new record at
// the front of the board.
func (t *Tracker) CreateIntent(ctx context.Context, f domain.Fields) (domain.JobApplication, error) {
	f, err := f.Prepare()
	if err != nil {
		return domain.JobApplication{}, err
	}

	rec, err := t.gw.Create(ctx, f)
	if err == nil {
		t.mu.Lock()
		if aerr := t.board.Apply(board.Insert{Record: rec}); aerr != nil {
			err = fmt.Errorf("%w: create: %w", domain.ErrUnavailable, aerr)
		} else {
			t.touch(rec.ID)
		}
		t.mu.Unlock()
	}
	if err != nil {
		t.emit(Notification{Severity: SeverityBlocking, Op: OpCreate, Err: err})
		return domain.JobApplication{}, err
	}
	return rec, nil
}

// EditIntent validates p, waits for the server and swaps in the returned record.
// The returned status is only taken when no newer status write for id was
// issued and no move is in flight; otherwise the board keeps its status.
func (t *Tracker) EditIntent(ctx context.Context, id string, p domain.Patch) (domain.JobApplication, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return domain.JobApplication{}, err
	}
	if p.IsEmpty() {
		return domain.JobApplication{}, &domain.ValidationError{Reason: "nothing to update"}
	}

	t.mu.Lock()
	if _, _, ok := t.board.Get(id); !ok {
		t.mu.Unlock()
		return domain.JobApplication{}, fmt.Errorf("%w: %s is not on the board", domain.ErrNotFound, id)
	}
	t.seq++
	seq := t.seq
	if p.Status != nil {
		t.lastStatus[id] = seq
	}
	t.mu.Unlock()

	updated, err := t.gw.Update(ctx, id, p)

	t.mu.Lock()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			t.forget(id)
			_ = t.board.Apply(board.Remove{ID: id})
			t.touch(id)
		}
		t.mu.Unlock()
		t.emit(Notification{Severity: SeverityBlocking, Op: OpEdit, ID: id, Err: err})
		return domain.JobApplication{}, err
	}

	_, moving := t.moves[id]
	switch {
	case t.lastStatus[id] > seq, p.Status == nil && moving:
		if cur, _, ok := t.board.Get(id); ok {
			updated.Status = cur.Status
		}
	case p.Status != nil && moving:
		// this edit is the newest status write; the older move's answer no longer matters
		delete(t.moves, id)
	}
	err = t.board.Apply(board.Replace{ID: id, Record: updated})
	if err == nil {
		t.touch(id)
	}
	t.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("%w: edit %s: %w", domain.ErrUnavailable, id, err)
		t.emit(Notification{Severity: SeverityBlocking, Op: OpEdit, ID: id, Err: err})
		return domain.JobApplication{}, err
	}
	return updated, nil
}

// DeleteIntent removes id from the board right away and puts it back where
// it was if the server refuses.
func (t *Tracker) DeleteIntent(ctx context.Context, id string) error {
	t.mu.Lock()
	if _, pending := t.deletes[id]; pending {
		t.mu.Unlock()
		return nil
	}
	rec, idx, ok := t.board.Get(id)
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s is not on the board", domain.ErrNotFound, id)
	}
	pd := pendingDelete{rec: rec, index: idx}
	if records := t.board.Records(); idx+1 < len(records) {
		pd.before = records[idx+1].ID
	}
	if err := t.board.Apply(board.Remove{ID: id}); err != nil {
		t.mu.Unlock()
		return err
	}
	t.deletes[id] = pd
	t.mu.Unlock()

	err := t.gw.Delete(ctx, id)

	t.mu.Lock()
	delete(t.deletes, id)
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		t.forget(id)
		t.touch(id)
		t.mu.Unlock()
		return nil
	}
	_ = t.board.Apply(board.Restore{Record: pd.rec, Before: pd.before, Index: pd.index})
	t.touch(id)
	t.mu.Unlock()

	t.log.Warn("delete failed, application restored", logger.String("id", id), logger.Error(err))
	t.emit(Notification{Severity: SeverityBlocking, Op: OpDelete, ID: id, Err: err})
	return err
}

func (t *Tracker) emit(n Notification) {
	t.notify.Notify(n)
}
