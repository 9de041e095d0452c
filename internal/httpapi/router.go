package httpapi

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth     *AuthHandler
	Property *PropertyHandler
	// Session guards routes that require an authenticated caller. Login,
	// registration and password reset stay reachable without it.
	Session    func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.Session == nil {
			return h
		}
		wrapped := cfg.Session(h)
		return wrapped.ServeHTTP
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.CreateSession(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			guard(cfg.Auth.DeleteCurrentSession)(w, r)
		})
		mux.HandleFunc("/sessions/refresh", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			guard(cfg.Auth.RefreshSession)(w, r)
		})
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				guard(cfg.Auth.ListUsers)(w, r)
			case http.MethodPost:
				cfg.Auth.Register(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/password-resets", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.RequestPasswordReset(w, r)
		})
		mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				guard(cfg.Auth.GetProfile)(w, r)
			case http.MethodPatch:
				guard(cfg.Auth.UpdateProfile)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPatch)
			}
		})
	}

	if cfg.Property != nil {
		mux.HandleFunc("/property", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			guard(cfg.Property.GetState)(w, r)
		})
		mux.HandleFunc("/property/resident", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			guard(cfg.Property.UpdateResident)(w, r)
		})
		mux.HandleFunc("/property/inspection", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			guard(cfg.Property.UpdateInspection)(w, r)
		})
		mux.HandleFunc("/property/furniture", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			guard(cfg.Property.SearchFurniture)(w, r)
		})
		mux.HandleFunc("/property/ui", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			guard(cfg.Property.UpdateUI)(w, r)
		})
		mux.HandleFunc("/property/orders", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			guard(cfg.Property.CreateOrder)(w, r)
		})
		mux.HandleFunc("/property/orders/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/property/orders/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if id == "totals" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				guard(cfg.Property.GetOrderTotals)(w, r)
				return
			}
			ctx := ContextWithOrderID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPatch:
				guard(cfg.Property.UpdateOrder)(w, r)
			case http.MethodDelete:
				guard(cfg.Property.DeleteOrder)(w, r)
			default:
				methodNotAllowed(w, http.MethodPatch, http.MethodDelete)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
