// Package screener reads the latest corporate announcement from the
// screener.in announcements page.
package screener

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
	"github.com/yanqian/announcement-relay/internal/infra/pdftext"
)

const (
	browserUserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"
	downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36"
	maxPageBytes      = 8 << 20
	maxDocumentBytes  = 32 << 20
)

// ErrNoAnnouncement is returned when the page lists no company/PDF pair.
var ErrNoAnnouncement = errors.New("no announcements found")

// Client fetches the live announcements page and the linked documents.
type Client struct {
	baseURL    string
	pageURL    string
	cookies    []*http.Cookie
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a live source. pageURL is the announcements listing to
// read, such as a filtered user feed; empty means baseURL + "/announcements/".
// cookieHeader is a raw Cookie header value.
func NewClient(baseURL, pageURL, cookieHeader string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if pageURL = strings.TrimSpace(pageURL); pageURL == "" {
		pageURL = baseURL + "/announcements/"
	}
	return &Client{
		baseURL:    baseURL,
		pageURL:    pageURL,
		cookies:    ParseCookieHeader(cookieHeader),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "screener.client"),
	}
}

// Latest returns the newest announcement listed on the page.
func (c *Client) Latest(ctx context.Context) (announcement.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return announcement.Listing{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-GB,en-US;q=0.9,en;q=0.8")
	req.Header.Set("Referer", c.pageURL)
	req.Header.Set("User-Agent", browserUserAgent)
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	body, err := c.get(ctx, req, maxPageBytes)
	if err != nil {
		return announcement.Listing{}, err
	}

	listing, ok, err := ExtractLatest(bytes.NewReader(body), c.baseURL)
	if err != nil {
		return announcement.Listing{}, err
	}
	if !ok {
		return announcement.Listing{}, ErrNoAnnouncement
	}
	return listing, nil
}

// DocumentText downloads the listing's PDF and extracts its text.
func (c *Client) DocumentText(ctx context.Context, listing announcement.Listing) (string, error) {
	if listing.DocumentURL == "" {
		return "", errors.New("listing has no document url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listing.DocumentURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)
	req.Header.Set("Accept", "application/pdf,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	data, err := c.get(ctx, req, maxDocumentBytes)
	if err != nil {
		return "", err
	}
	text, err := pdftext.Extract(data)
	if errors.Is(err, pdftext.ErrNoText) {
		return "", fmt.Errorf("%w: %w", announcement.ErrNoDocumentText, err)
	}
	return text, err
}

func (c *Client) get(ctx context.Context, req *http.Request, limit int64) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", err, "url", req.URL.String())
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// ParseCookieHeader converts a raw "k=v; k2=v2" header into cookies.
func ParseCookieHeader(header string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value)})
	}
	return cookies
}

var _ announcement.Source = (*Client)(nil)
