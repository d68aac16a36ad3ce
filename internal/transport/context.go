package transport

import (
	"context"
	"net/http"
	"strings"
	"time"

	"farmlink-be/internal/auth"
)

type ctxKey string

const (
	requestKey        ctxKey = "httpRequest"
	responseWriterKey ctxKey = "httpResponseWriter"
)

// WithHTTP exposes the raw request and writer to GraphQL resolvers.
func WithHTTP(ctx context.Context, r *http.Request, w http.ResponseWriter) context.Context {
	ctx = context.WithValue(ctx, requestKey, r)
	ctx = context.WithValue(ctx, responseWriterKey, w)
	return ctx
}

func GetRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(requestKey).(*http.Request)
	return r
}

func GetResponseWriter(ctx context.Context) http.ResponseWriter {
	w, _ := ctx.Value(responseWriterKey).(http.ResponseWriter)
	return w
}

// Origin is the storefront origin the browser sent, used to build payment
// redirect URLs. It returns fallback when the request carries none.
func Origin(ctx context.Context, fallback string) string {
	r := GetRequest(ctx)
	if r == nil {
		return fallback
	}
	if o := strings.TrimRight(r.Header.Get("Origin"), "/"); o != "" {
		return o
	}
	return fallback
}

// AccessToken returns the caller's bearer token, if any.
func AccessToken(ctx context.Context) string {
	r := GetRequest(ctx)
	if r == nil {
		return ""
	}
	return auth.ExtractAccessToken(r)
}

// SetSessionCookie stores the access token in an HttpOnly cookie.
func SetSessionCookie(ctx context.Context, token string, expires time.Time, secure bool) {
	w := GetResponseWriter(ctx)
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(ctx context.Context, secure bool) {
	w := GetResponseWriter(ctx)
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
