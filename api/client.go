package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:8501"
	sessionCookie  = "professor_session"
)

// Client talks to a running professor server. The server keys all state on
// a session cookie, so one Client is one browser session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar: jar,
			// A chat turn waits on the model.
			Timeout: 2 * time.Minute,
		},
	}, nil
}

func (c *Client) Health() error {
	return c.doRequest(http.MethodGet, "/health", nil, nil)
}

// UseSession resumes an existing server session. The server starts a fresh
// session when id is unknown or has expired.
func (c *Client) UseSession(id string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base url: %w", err)
	}

	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: id, Path: "/"}})
	return nil
}

// SessionID returns the id of the session the server assigned, if any.
func (c *Client) SessionID() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}

	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == sessionCookie {
			return cookie.Value
		}
	}
	return ""
}
