package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.unsplash.com"
	DefaultPerPage = 25
	MaxPerPage     = 30

	// DefaultLabel is shown for photos that carry no descriptive text.
	DefaultLabel = "Image"
)

var ErrUnauthorized = errors.New("unsplash: invalid or missing access key")

// URLs holds the image links for the resolutions the gallery uses.
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

type Links struct {
	HTML     string `json:"html"`
	Download string `json:"download"`
}

type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Photo is the subset of Unsplash photo fields required by the app.
type Photo struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Color          string `json:"color"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           URLs   `json:"urls"`
	Links          Links  `json:"links"`
	User           User   `json:"user"`
}

// Label returns the descriptive text for the photo, falling back to
// DefaultLabel when the API sent none.
func (p Photo) Label() string {
	if alt := strings.TrimSpace(p.AltDescription); alt != "" {
		return alt
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		return desc
	}
	return DefaultLabel
}

// AspectRatio is height over width, 1 when dimensions are unknown.
func (p Photo) AspectRatio() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 1
	}
	return float64(p.Height) / float64(p.Width)
}

// StatusError reports a non-2xx response from the API.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

func NewClient(baseURL, accessKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		http:      httpClient,
	}
}

// ListPhotos fetches one page of the editorial photo feed.
func (c *Client) ListPhotos(ctx context.Context, page, perPage int) ([]Photo, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if strings.TrimSpace(c.accessKey) == "" {
		return nil, fmt.Errorf("list photos: %w", ErrUnauthorized)
	}

	q := make(url.Values)
	q.Set("client_id", c.accessKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := c.newRequest(ctx, http.MethodGet, "/photos?"+q.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list photos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Op: "list photos", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var photos []Photo
	if err := json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return nil, fmt.Errorf("decode photos response: %w", err)
	}
	return photos, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	return req, nil
}
