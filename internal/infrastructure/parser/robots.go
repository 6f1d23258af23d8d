package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsPolicy answers robots.txt questions per host, fetching each file once.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	cache map[string]*robotstxt.RobotsData
}

func NewRobotsPolicy(client *http.Client, userAgent string) *RobotsPolicy {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		cache:     map[string]*robotstxt.RobotsData{},
	}
}

// Allowed reports whether rawURL may be fetched by the configured agent.
// A missing robots.txt allows everything.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse url: %w", err)
	}

	data, err := p.robotsFor(ctx, parsed)
	if err != nil {
		return false, err
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, p.userAgent), nil
}

func (p *RobotsPolicy) robotsFor(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok := p.cache[target.Host]; ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", target.Scheme, target.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	p.cache[target.Host] = data
	return data, nil
}
