package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tamagitchi/internal/platform/httpclient"
)

var (
	ErrUnauthorized = errors.New("github unauthorized")
	ErrUpstream     = errors.New("github upstream error")
)

const DefaultBaseURL = "https://api.github.com"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// User es el subconjunto de GET /user que usamos.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.New(base, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("github client: %w", err)
	}
	return &Client{http: hc}, nil
}

// User resuelve el dueño del token.
func (c *Client) User(ctx context.Context, token string) (User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return User{}, ErrUnauthorized
	}

	var u User
	err := c.http.GetJSON(ctx, "/user", map[string]string{
		"Authorization":        "Bearer " + token,
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}, &u)

	switch code := httpclient.StatusCode(err); {
	case err == nil:
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return User{}, ErrUnauthorized
	default:
		return User{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	u.Login = strings.TrimSpace(u.Login)
	if u.Login == "" {
		return User{}, fmt.Errorf("%w: response missing login", ErrUpstream)
	}
	return u, nil
}

func (u User) idString() string {
	if u.ID == 0 {
		return u.Login
	}
	return strconv.FormatInt(u.ID, 10)
}
