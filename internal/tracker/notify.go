package tracker

import (
	"fmt"

	"github.com/MrSnakeDoc/jobboard/internal/logger"
)

type Severity int

const (
	// SeverityNonBlocking is a toast: the board already rolled itself back.
	SeverityNonBlocking Severity = iota
	// SeverityBlocking needs the user's attention before they carry on.
	SeverityBlocking
)

func (s Severity) String() string {
	if s == SeverityBlocking {
		return "blocking"
	}
	return "non-blocking"
}

type Op string

const (
	OpCreate  Op = "create"
	OpEdit    Op = "edit"
	OpDelete  Op = "delete"
	OpMove    Op = "move"
	OpRefresh Op = "refresh"
)

// Notification reports a failed intent. The board state is already final when it is sent.
type Notification struct {
	Severity Severity
	Op       Op
	ID       string
	Err      error
}

func (n Notification) String() string {
	if n.ID == "" {
		return fmt.Sprintf("%s failed: %v", n.Op, n.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", n.Op, n.ID, n.Err)
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// ChannelNotifier buffers notifications for a consumer loop. When the buffer
// is full the notification is logged and dropped; Notify never blocks.
type ChannelNotifier struct {
	ch  chan Notification
	log logger.Logger
}

func NewChannelNotifier(size int, log logger.Logger) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan Notification, size), log: log}
}

func (c *ChannelNotifier) C() <-chan Notification { return c.ch }

func (c *ChannelNotifier) Notify(n Notification) {
	select {
	case c.ch <- n:
	default:
		c.log.Warn("notification dropped, channel full",
			logger.String("op", string(n.Op)),
			logger.String("id", n.ID),
			logger.Error(n.Err))
	}
}
