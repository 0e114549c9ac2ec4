package cli

import "context"

type sessionKey struct{}

// sessionFrom returns the Session stored by the root pre-run hook, or nil.
func sessionFrom(ctx context.Context) *Session {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok {
		return nil
	}
	return s
}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}
