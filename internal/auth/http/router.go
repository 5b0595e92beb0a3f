package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/campfirehq/campfire/pkg/slogx"

	_ "github.com/campfirehq/campfire/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Config carries the request-pipeline settings the router needs.
type Config struct {
	Verifier     jwtx.Verifier
	BuildVersion string

	// ExemptPaths are case-insensitive prefixes that bypass client
	// attribution and rate limiting.
	ExemptPaths []string

	// AddressPolicy is the coarse per-address rate limit; ClientPolicy is
	// the fine-grained per-composite-key limit. Both apply to every
	// non-exempt request.
	AddressPolicy httpx.RateLimitPolicy
	ClientPolicy  httpx.RateLimitPolicy

	// MemberRoles / AdminRoles are semicolon-delimited required-role sets
	// for the member and admin surfaces.
	MemberRoles string
	AdminRoles  string
}

// Router holds shared dependencies for HTTP handlers and owns the global
// middleware pipeline: request logging, client fingerprint resolution, then
// rate limiting, in that order, before any routing happens.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// Limiter tables are exposed so housekeeping can sweep them.
	AddressLimiter *httpx.FixedWindowLimiter
	ClientLimiter  *httpx.FixedWindowLimiter

	memberRoles []string
	adminRoles  []string

	TokenService *service.TokenService
	UserService  *service.UserService
	GuardService *service.GuardService
}

// NewRouter wires the global pipeline. An unenforceable rate limit policy is
// a configuration error and fails construction rather than the first request.
func NewRouter(cfg Config, st store.Store, logger *slog.Logger) (*Router, error) {
	addrLimiter, err := httpx.NewFixedWindowLimiter(cfg.AddressPolicy, nil)
	if err != nil {
		return nil, fmt.Errorf("address policy: %w", err)
	}
	clientLimiter, err := httpx.NewFixedWindowLimiter(cfg.ClientPolicy, nil)
	if err != nil {
		return nil, fmt.Errorf("client policy: %w", err)
	}

	exempt := httpx.NewPathExemptions(cfg.ExemptPaths...)

	r := &Router{
		Mux:            http.NewServeMux(),
		verifier:       cfg.Verifier,
		buildVersion:   cfg.BuildVersion,
		startTime:      time.Now(),
		logger:         logger,
		store:          st,
		AddressLimiter: addrLimiter,
		ClientLimiter:  clientLimiter,
		memberRoles:    domain.ParseRoleList(cfg.MemberRoles),
		adminRoles:     domain.ParseRoleList(cfg.AdminRoles),
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(logger),
		httpx.ClientContextMiddleware(exempt),
		httpx.RateLimitMiddleware(r.AddressLimiter, r.ClientLimiter, exempt),
	}

	return r, nil
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Campfire Authentication Service API
//	@version		0.1.0
//	@description	Authentication and request-protection service: JWT access tokens, refresh
//	@description	rotation, per-client rate limiting and role-based authorization.
//
//	@contact.name				Campfire Team
//	@contact.url				https://github.com/campfirehq/campfire
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

func (r *Router) registerAuth() {
	tokenHandler := &TokenHandler{TokenService: r.TokenService}

	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(tokenHandler.HandleLogin))
	r.Mux.Handle("POST /v1/auth/refresh", http.HandlerFunc(tokenHandler.HandleRefresh))
	r.Mux.Handle("POST /v1/auth/register", &RegisterHandler{UserService: r.UserService})

	// Logout needs a verified caller but no role check.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(tokenHandler.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserInfoHandler{Store: r.store}

	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(h,
			httpx.AuthnMiddleware(r.verifier),
			RequireRoles(r.GuardService, r.memberRoles),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{UserService: r.UserService}

	secured := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			RequireRoles(r.GuardService, r.adminRoles),
		)
	}

	r.Mux.Handle("GET /v1/admin/users", secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /v1/admin/users/{id}/lock", secured(http.HandlerFunc(h.HandleLock)))
	r.Mux.Handle("POST /v1/admin/users/{id}/unlock", secured(http.HandlerFunc(h.HandleUnlock)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
