package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"tailscale.com/client/tailscale/apitype"
)

type ctxKey int

const userInfoKey ctxKey = iota

// UserInfo identifies who is making a request.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

var localUser = UserInfo{Login: "local", DisplayName: "Local Dev User"}

// WhoIsClient resolves a tailnet peer. tailscale.com/client/local.Client
// satisfies it.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// DevIdentity marks every request as the local user.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userInfoKey, localUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TailscaleIdentity attaches the tailnet user behind each request. Peers
// that cannot be resolved are rejected.
func TailscaleIdentity(lc WhoIsClient, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := lc.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil || who == nil || who.UserProfile == nil {
				log.Warn("tailscale whois failed", "remote", r.RemoteAddr, "error", err)
				writeError(w, http.StatusUnauthorized, "unknown tailnet peer")
				return
			}
			info := UserInfo{Login: who.UserProfile.LoginName, DisplayName: who.UserProfile.DisplayName}
			ctx := context.WithValue(r.Context(), userInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return localUser
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
