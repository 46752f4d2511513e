// Package prereq resolves the prerequisite text of a catalog course.
//
// A Resolver looks a course code up through the catalog search page and mines the
// page text with an ordered cascade of patterns. Lookups are strictly sequential and
// followed by a fixed pause so the catalog server is not hammered.
package prereq

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pfrederiksen/catalog-courses/internal/catalog"
	"github.com/pfrederiksen/catalog-courses/internal/logger"
)

const (
	SearchURL    = "https://catalog.tamu.edu/search/?P="
	DefaultDelay = 500 * time.Millisecond

	// RangeText is assigned to range courses such as "MATH 300-499".
	RangeText = "See individual course listings"
)

// Patterns are tried in order; the first one with a match wins.
var cascade = []*regexp.Regexp{
	regexp.MustCompile(`(?is)prerequisite[s]?[:\s]*(.*?)(?:\n|\.|$)`),
	regexp.MustCompile(`(?is)prereq[s]?[:\s]*(.*?)(?:\n|\.|$)`),
	regexp.MustCompile(`(?is)corequisite[s]?[:\s]*(.*?)(?:\n|\.|$)`),
	regexp.MustCompile(`(?is)co-requisite[s]?[:\s]*(.*?)(?:\n|\.|$)`),
	regexp.MustCompile(`(?is)concurrent[s]?[:\s]*(.*?)(?:\n|\.|$)`),
}

var (
	whitespacePattern = regexp.MustCompile(`[\s\p{Zs}]+`)
	campusPattern     = regexp.MustCompile(`(?i);?\s*also taught at.*?campus(?:es)?\.?`)
)

// PageFetcher fetches and parses a catalog page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*catalog.Page, error)
}

// Resolver looks up prerequisites one course at a time
type Resolver struct {
	fetcher   PageFetcher
	searchURL string
	delay     time.Duration
	sleep     func(ctx context.Context, d time.Duration)
}

// New creates a Resolver using the catalog search endpoint and the default delay
func New(fetcher PageFetcher) *Resolver {
	return &Resolver{
		fetcher:   fetcher,
		searchURL: SearchURL,
		delay:     DefaultDelay,
		sleep:     sleepContext,
	}
}

// WithSearchURL overrides the search endpoint prefix
func (r *Resolver) WithSearchURL(prefix string) *Resolver {
	if prefix != "" {
		r.searchURL = prefix
	}
	return r
}

// WithDelay overrides the pause taken after every lookup
func (r *Resolver) WithDelay(d time.Duration) *Resolver {
	r.delay = d
	return r
}

// IsRange reports whether code names a range of courses such as "MATH 300-499"
func IsRange(code string) bool {
	return strings.Contains(code, "-")
}

// URLFor returns the search URL for a course code
func (r *Resolver) URLFor(code string) string {
	return r.searchURL + strings.ReplaceAll(code, " ", "%20")
}

// Resolve returns the prerequisite text for code, or "" when none is found or
// the lookup fails. Every lookup except range courses is followed by the
// resolver's delay.
func (r *Resolver) Resolve(ctx context.Context, code string) string {
	if IsRange(code) {
		logger.IncrCounter("prereq.range_skipped")
		return RangeText
	}
	defer r.sleep(ctx, r.delay)

	logger.Info("Fetching prerequisites", logger.Fields{"course": code})
	logger.IncrCounter("prereq.fetch")

	page, err := r.fetcher.Fetch(ctx, r.URLFor(code))
	if err != nil {
		logger.IncrCounter("prereq.fetch_error")
		logger.Warn("Error fetching prerequisites", logger.Fields{"course": code}, err)
		return ""
	}

	return ExtractPrerequisites(page.Text())
}

// ExtractPrerequisites applies the pattern cascade to page text. Only the first
// match of the first matching pattern is used.
func ExtractPrerequisites(text string) string {
	for _, pattern := range cascade {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		return clean(match[1])
	}
	return ""
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "\u200b", "")
	s = campusPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
