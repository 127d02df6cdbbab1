package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_, _ = w.Write([]byte(`{"id":583231,"login":"octocat","email":"octo@example.com"}`))
		case "Bearer nologin":
			_, _ = w.Write([]byte(`{"id":1}`))
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier(t *testing.T) {
	srv := newTestServer(t)

	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	v := NewVerifier(c)
	ctx := context.Background()

	claims, err := v.Verify(ctx, "good")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "octocat" || claims.UserID != "583231" || claims.Email != "octo@example.com" {
		t.Fatalf("unexpected claims %#v", claims)
	}

	if _, err := v.Verify(ctx, "bad"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := v.Verify(ctx, "  "); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for empty token, got %v", err)
	}
	if _, err := v.Verify(ctx, "broken"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if _, err := v.Verify(ctx, "nologin"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream for missing login, got %v", err)
	}
}

func TestVerifier_NotConfigured(t *testing.T) {
	var v *Verifier
	if _, err := v.Verify(context.Background(), "good"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
