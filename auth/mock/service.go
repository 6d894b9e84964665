package mock

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
	"github.com/velovis/velovis/internal/collection"
)

type account struct {
	Profile         auth.Profile
	Password        string
	Active          bool
	ActivationToken string
	ResetToken      string
}

// Service emulates the storefront backend
type Service struct {
	Secret    []byte
	AccessTTL time.Duration

	seed          bool
	epoch         atomic.Int64
	rejectRefresh atomic.Bool
	loginCalls    atomic.Int32
	refreshCalls  atomic.Int32
	logoutCalls   atomic.Int32

	accounts      *collection.SyncMap[string, *account]
	refreshTokens *collection.SyncMap[string, string]

	mux      sync.Mutex
	products []*api.Product
	roles    []*api.Role
	carts    map[string][]*api.CartItem
	orders   map[string][]*api.Order
}

// NewService creates a backend, seeded with demo data unless WithoutSeed is used
func NewService(opts ...Option) (*Service, error) {
	ret := &Service{
		AccessTTL:     15 * time.Minute,
		seed:          true,
		accounts:      collection.NewSyncMap[string, *account](),
		refreshTokens: collection.NewSyncMap[string, string](),
		carts:         map[string][]*api.CartItem{},
		orders:        map[string][]*api.Order{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if len(ret.Secret) == 0 {
		ret.Secret = make([]byte, 32)
		if _, err := rand.Read(ret.Secret); err != nil {
			return nil, err
		}
	}
	if ret.seed {
		ret.seedData()
	}
	return ret, nil
}

// Register registers backend routes with mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/refresh", s.refresh)
	mux.HandleFunc("POST /auth/logout", s.logout)
	mux.HandleFunc("GET /auth/me", s.authorized("", s.me))
	mux.HandleFunc("POST /auth/register", s.register)
	mux.HandleFunc("GET /auth/activate", s.activate)
	mux.HandleFunc("POST /auth/forgot-password", s.forgotPassword)
	mux.HandleFunc("POST /auth/reset-password", s.resetPassword)
	mux.HandleFunc("PATCH /auth/change-password", s.authorized("", s.changePassword))

	mux.HandleFunc("GET /products", s.listProducts)

	mux.HandleFunc("GET /cart-items", s.authorized(auth.PermissionCartsReadOwn, s.listCartItems))
	mux.HandleFunc("POST /cart-items", s.authorized(auth.PermissionCartsUpdateOwn, s.addCartItem))
	mux.HandleFunc("PATCH /cart-items/{id}", s.authorized(auth.PermissionCartsUpdateOwn, s.updateCartItem))
	mux.HandleFunc("DELETE /cart-items/{id}", s.authorized(auth.PermissionCartsUpdateOwn, s.removeCartItem))

	mux.HandleFunc("GET /orders", s.authorized(auth.PermissionOrdersReadOwn, s.listOrders))
	mux.HandleFunc("POST /orders", s.authorized(auth.PermissionOrdersCreateOwn, s.createOrder))

	mux.HandleFunc("GET /roles", s.authorized(auth.PermissionRolesRead, s.listRoles))
	mux.HandleFunc("GET /roles/permissions", s.authorized(auth.PermissionRolesRead, s.listPermissions))
	mux.HandleFunc("POST /roles", s.authorized(auth.PermissionRolesCreate, s.createRole))
	mux.HandleFunc("DELETE /roles/{id}", s.authorized(auth.PermissionRolesDelete, s.deleteRole))

	mux.HandleFunc("GET /users", s.authorized(auth.PermissionUsersRead, s.listUsers))
	mux.HandleFunc("DELETE /users/{id}", s.authorized(auth.PermissionUsersDelete, s.deleteUser))
}

// Handler returns an http.Handler serving the backend
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

// ExpireAccessTokens invalidates every access token issued so far
func (s *Service) ExpireAccessTokens() {
	s.epoch.Add(1)
}

// RejectRefresh makes the refresh endpoint reject every token
func (s *Service) RejectRefresh(reject bool) {
	s.rejectRefresh.Store(reject)
}

// LoginCalls returns the number of login requests served
func (s *Service) LoginCalls() int { return int(s.loginCalls.Load()) }

// RefreshCalls returns the number of refresh requests served
func (s *Service) RefreshCalls() int { return int(s.refreshCalls.Load()) }

// LogoutCalls returns the number of logout requests served
func (s *Service) LogoutCalls() int { return int(s.logoutCalls.Load()) }

// ActiveRefreshTokens returns the number of refresh tokens not yet exchanged or revoked
func (s *Service) ActiveRefreshTokens() int { return s.refreshTokens.Len() }

// AddUser registers an active user
func (s *Service) AddUser(password string, profile auth.Profile) {
	s.accounts.Put(profile.Username, &account{Profile: profile, Password: password, Active: true})
}

type authorizedHandler func(w http.ResponseWriter, r *http.Request, acct *account)

// authorized verifies the bearer token and the optional permission
func (s *Service) authorized(permission string, handler authorizedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		username, err := s.verifyAccessToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		acct, ok := s.accounts.Get(username)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if permission != "" && !acct.Profile.HasPermission(permission) {
			writeError(w, http.StatusForbidden, "Forbidden resource")
			return
		}
		handler(w, r, acct)
	}
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"statusCode": status, "message": message})
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
