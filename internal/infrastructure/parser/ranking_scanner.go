package parser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/scanner"
)

// ErrDisallowed is returned when robots.txt forbids the ranking page.
var ErrDisallowed = errors.New("disallowed by robots.txt")

const defaultUserAgent = "Mozilla/5.0"

// RankingScanner extracts per-press "most viewed" lists from a portal
// ranking page laid out as rankingnews_box sections.
type RankingScanner struct {
	client    *http.Client
	userAgent string
	robots    *RobotsPolicy
}

// NewRankingScanner wires an HTTP client. robots may be nil to skip
// robots.txt checks.
func NewRankingScanner(client *http.Client, userAgent string, robots *RobotsPolicy) *RankingScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &RankingScanner{client: client, userAgent: userAgent, robots: robots}
}

// Name identifies the strategy inside the registry.
func (s *RankingScanner) Name() string {
	return "naver"
}

// Scan fetches the ranking page and returns up to PerPress headlines for
// each allow-listed press, in page order.
func (s *RankingScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Headline, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no url provided for site %s", req.SiteName)
	}

	if s.robots != nil {
		allowed, err := s.robots.Allowed(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
		}
		if !allowed {
			return nil, fmt.Errorf("site %s: %s: %w", req.SiteName, req.URL, ErrDisallowed)
		}
	}

	doc, err := s.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	base, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid ranking url %s: %w", req.URL, err)
	}

	return extractHeadlines(doc, base, req), nil
}

func (s *RankingScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranking page returned %s", resp.Status)
	}

	// Portal pages are still served as EUC-KR in places.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractHeadlines(doc *goquery.Document, base *url.URL, req scanner.Request) []domain.Headline {
	var collected []domain.Headline

	doc.Find("div.rankingnews_box").Each(func(_ int, box *goquery.Selection) {
		press := strings.TrimSpace(box.Find("strong.rankingnews_name").First().Text())
		if press == "" || !req.Allows(press) {
			return
		}

		box.Find("li").EachWithBreak(func(i int, item *goquery.Selection) bool {
			if req.PerPress > 0 && i >= req.PerPress {
				return false
			}
			if headline, ok := parseItem(item, base, press); ok {
				collected = append(collected, headline)
			}
			return true
		})
	})

	return collected
}

// parseItem prefers the dedicated title link; the first anchor of an item is
// often the thumbnail.
func parseItem(item *goquery.Selection, base *url.URL, press string) (domain.Headline, bool) {
	link := item.Find("a.list_title").First()
	if link.Length() == 0 {
		link = item.Find("a").First()
	}

	href, ok := link.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return domain.Headline{}, false
	}

	title := strings.Join(strings.Fields(link.Text()), " ")
	if title == "" {
		return domain.Headline{}, false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return domain.Headline{}, false
	}

	return domain.Headline{
		PressName: press,
		Title:     title,
		URL:       base.ResolveReference(ref).String(),
	}, true
}
