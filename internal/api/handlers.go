package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"

	"github.com/8gymsport-prog/penjualan/internal/auth"
	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/reports"
	"github.com/8gymsport-prog/penjualan/internal/telemetry"
)

type Accounts interface {
	EnsureProfile(ctx context.Context, id, email string) (*models.User, error)
	Profile(ctx context.Context, id string) (*models.User, error)
	UpdateUsername(ctx context.Context, id string, in models.UsernameInput) (*models.User, error)
	UpdatePhoto(ctx context.Context, id, contentType string, data []byte) (*models.User, error)
	Photo(ctx context.Context, id string) (*models.Avatar, error)
	Contacts(ctx context.Context, id string) ([]models.User, error)
	ListUsers(ctx context.Context, actorID string) ([]models.User, error)
	ChangeRole(ctx context.Context, actorID, targetID string, in models.RoleInput) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error
}

type Catalog interface {
	List(ctx context.Context, userID string) ([]models.Product, error)
	Create(ctx context.Context, userID string, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, userID, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, userID, id string) error
}

type Sales interface {
	Record(ctx context.Context, userID string, in models.TransactionInput) (*models.Transaction, error)
	QuickSale(ctx context.Context, userID string, in models.QuickSaleInput) (*models.Transaction, error)
	Update(ctx context.Context, userID, id string, in models.TransactionInput) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string, rng models.DateRange) (int64, error)
	List(ctx context.Context, userID string, rng models.DateRange) ([]models.Transaction, error)
	Summary(ctx context.Context, userID string, rng models.DateRange) (*models.SalesSummary, error)
}

type Chats interface {
	Send(ctx context.Context, from, to string, in models.MessageInput) (*models.ChatMessage, error)
	Messages(ctx context.Context, userID, peerID string) ([]models.ChatMessage, error)
	Chats(ctx context.Context, userID string) ([]models.Chat, error)
}

type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Accounts Accounts
	Catalog  Catalog
	Sales    Sales
	Chats    Chats

	// ChatSocket serves the websocket upgrade.
	ChatSocket http.Handler
	// Limiter may be nil to disable rate limiting.
	Limiter RateLimiter
	// Health lists the dependencies checked by /healthz, by name.
	Health map[string]Pinger
}

type Options struct {
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	MaxAvatarBytes     int64
	Location           *time.Location
	CORSAllowedOrigins []string
	// ReportFont is used for PDF downloads. Nil uses the embedded default.
	ReportFont *reports.Font
}

type Handler struct {
	Deps
	opts Options
	now  func() time.Time
}

func NewHandler(deps Deps, opts Options) *Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Handler{Deps: deps, opts: opts, now: time.Now}
}

// Router registers every route on a new mux and wraps it with CORS.
func (h *Handler) Router(authn *auth.Middleware) http.Handler {
	mux := http.NewServeMux()

	h.public(mux, "GET /healthz", h.Healthz)
	h.public(mux, "GET /api/users/{id}/photo", h.GetPhoto)

	h.protected(mux, authn, "GET /api/profile", h.GetProfile)
	h.protected(mux, authn, "PATCH /api/profile", h.UpdateProfile)
	h.protected(mux, authn, "PUT /api/profile/photo", h.UploadPhoto)

	h.protected(mux, authn, "GET /api/products", h.ListProducts)
	h.protected(mux, authn, "POST /api/products", h.CreateProduct)
	h.protected(mux, authn, "PUT /api/products/{id}", h.UpdateProduct)
	h.protected(mux, authn, "DELETE /api/products/{id}", h.DeleteProduct)

	h.protected(mux, authn, "GET /api/transactions", h.ListTransactions)
	h.protected(mux, authn, "POST /api/transactions", h.RecordTransaction)
	h.protected(mux, authn, "DELETE /api/transactions", h.ClearTransactions)
	h.protected(mux, authn, "POST /api/transactions/quick", h.QuickSale)
	h.protected(mux, authn, "PUT /api/transactions/{id}", h.UpdateTransaction)
	h.protected(mux, authn, "DELETE /api/transactions/{id}", h.DeleteTransaction)
	h.protected(mux, authn, "GET /api/summary", h.Summary)
	h.protected(mux, authn, "GET /api/reports/{format}", h.DownloadReport)

	h.protected(mux, authn, "GET /api/chat/users", h.ListContacts)
	h.protected(mux, authn, "GET /api/chats", h.ListChats)
	h.protected(mux, authn, "GET /api/chats/{peer}/messages", h.ListMessages)
	h.protected(mux, authn, "POST /api/chats/{peer}/messages", h.SendMessage)
	if h.ChatSocket != nil {
		h.protected(mux, authn, "GET /api/chat/ws", h.ChatSocket.ServeHTTP)
	}

	h.protected(mux, authn, "GET /api/admin/users", h.AdminListUsers)
	h.protected(mux, authn, "PATCH /api/admin/users/{id}/role", h.AdminChangeRole)
	h.protected(mux, authn, "DELETE /api/admin/users/{id}", h.AdminDeleteUser)

	return cors.Handler(cors.Options{
		AllowedOrigins: h.opts.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	})(mux)
}

func (h *Handler) public(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, telemetry.Middleware(pattern, h.rateLimit(fn)))
}

func (h *Handler) protected(mux *http.ServeMux, authn *auth.Middleware, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, telemetry.Middleware(pattern, h.rateLimit(authn.ValidateToken(h.withProfile(fn)))))
}

func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Limiter != nil {
			ip := clientIP(r)
			if h.Limiter.IsRateLimited(r.Context(), ip, h.opts.RateLimitRequests, h.opts.RateLimitWindow) {
				slog.Warn("Rate limit exceeded", "ip", ip)
				writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Terlalu banyak permintaan. Coba lagi nanti."})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

// withProfile loads the caller's profile, creating it on the first request.
func (h *Handler) withProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
			return
		}

		user, err := h.Accounts.EnsureProfile(r.Context(), id.UserID, id.Email)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func currentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userKey{}).(*models.User)
	return u
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, p := range h.Deps.Health {
		if err := p.Ping(ctx); err != nil {
			slog.Error("Health check failed", "dependency", name, "error", err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"healthy": healthy, "dependencies": status})
}
