package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Extra") != "1" || r.Header.Get("User-Agent") != "tamagitchi" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"login":"octocat"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var out struct {
		Login string `json:"login"`
	}
	if err := c.GetJSON(context.Background(), "user", map[string]string{"X-Extra": "1"}, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Login != "octocat" {
		t.Fatalf("expected octocat, got %q", out.Login)
	}

	err = c.GetJSON(context.Background(), "/missing", nil, &out)
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	if _, err := New("not a url", 0); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
	c, err := New("", 0)
	if err != nil {
		t.Fatalf("empty base url: %v", err)
	}
	if err := c.GetJSON(context.Background(), "/user", nil, nil); err == nil {
		t.Fatalf("expected relative path error without BaseURL")
	}
}
