package scanner

import (
	"context"
	"fmt"

	"NewsVerifier/internal/domain"
)

// Request carries all parameters required to scrape one ranking page.
type Request struct {
	SiteName string
	URL      string
	// Presses is the allow-list of press names; entries from other presses
	// are dropped.
	Presses  []string
	PerPress int
}

// Allows reports whether press is on the allow-list.
func (r Request) Allows(press string) bool {
	for _, p := range r.Presses {
		if p == press {
			return true
		}
	}
	return false
}

// Scanner captures a single page-layout strategy.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Headline, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds a registry holding the given scanners.
func NewRegistry(scanners ...Scanner) *Registry {
	r := &Registry{scanners: map[string]Scanner{}}
	for _, s := range scanners {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
