package server

import (
	"context"
	"net/http"

	"tailscale.com/client/local"
)

// UserInfo identifies the requesting user.
type UserInfo struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

type ctxKey int

const userInfoKey ctxKey = 0

// userInfo returns the identity attached to the request, falling back
// to the local dev user when no identity middleware ran.
func userInfo(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return UserInfo{Login: "local", DisplayName: "Local Dev User"}
}

// TailscaleIdentity resolves the caller's tailnet identity via WhoIs and
// attaches it to the request context. Tagged nodes (no user profile) pass
// through without an identity and get the dev fallback.
func TailscaleIdentity(lc *local.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, err := lc.WhoIs(r.Context(), r.RemoteAddr)
			if err == nil && who.UserProfile != nil {
				ctx := context.WithValue(r.Context(), userInfoKey, UserInfo{
					Login:       who.UserProfile.LoginName,
					DisplayName: who.UserProfile.DisplayName,
				})
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
