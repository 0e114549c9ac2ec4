package deps

import (
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/httpserver/mw"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
	"github.com/MrSnakeDoc/jobboard/internal/store"
)

type Deps struct {
	Logger         logger.Logger
	Store          store.Store
	StoreKind      string // "sqlite" | "redis", reported by /infra
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	RequestTimeout time.Duration // per-request deadline, defaults to 5s
	AllowedHosts   []string      // Host headers allowed on /api routes
	AllowedCIDRS   []string      // IPs allowed to access healthz/readyz/infra
	TrustProxy     bool          // true if running behind a trusted reverse proxy
	CORSOrigins    []string      // allowed browser origins, "*" for any
	WriteLimiter   *mw.Limiter   // guards POST/PATCH/DELETE, nil disables
}
