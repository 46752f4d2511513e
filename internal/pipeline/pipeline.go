// Package pipeline runs one program scrape end to end and compares the result
// with a previously saved document.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pfrederiksen/catalog-courses/internal/catalog"
	"github.com/pfrederiksen/catalog-courses/internal/config"
	"github.com/pfrederiksen/catalog-courses/internal/logger"
	"github.com/pfrederiksen/catalog-courses/internal/requirements"
)

// PageFetcher fetches and parses a catalog page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*catalog.Page, error)
}

// Runner scrapes programs using a page fetcher and a prerequisite resolver
type Runner struct {
	fetcher  PageFetcher
	resolver requirements.PrereqResolver
}

// New creates a Runner
func New(fetcher PageFetcher, resolver requirements.PrereqResolver) *Runner {
	return &Runner{
		fetcher:  fetcher,
		resolver: resolver,
	}
}

// Run fetches the program page, walks every table on it and returns the
// program document. A failure to fetch the program page is returned as is;
// nothing is written in that case.
func (r *Runner) Run(ctx context.Context, program config.Program) (*requirements.Program, error) {
	start := time.Now()

	logger.Info("Fetching program page", logger.Fields{
		"program": program.Name,
		"url":     program.URL,
	})

	page, err := r.fetcher.Fetch(ctx, program.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s page: %w", program.Name, err)
	}

	tables := page.Tables()
	if len(tables) == 0 {
		logger.Warn("No tables found on program page", logger.Fields{
			"program": program.Name,
			"url":     program.URL,
		}, nil)
	}

	classifier := requirements.NewClassifier(r.resolver, requirements.Options{
		CreditQuotas: program.CreditQuotas,
	})
	records := classifier.Walk(ctx, tables)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scraping %s: %w", program.Name, err)
	}

	logger.IncrCounter("pipeline.runs")
	logger.RecordTiming("pipeline.run", time.Since(start))
	logger.Info("Scraped program", logger.Fields{
		"program": program.Name,
		"tables":  len(tables),
		"records": len(records),
	})

	return &requirements.Program{
		Name:    program.Name,
		Records: records,
	}, nil
}

// Change describes one field of a record that differs between two documents
type Change struct {
	Course string `json:"course"`
	Field  string `json:"field"` // "name", "credits", "prereqs" or "semester"
	Old    string `json:"old"`
	New    string `json:"new"`
}

// DiffResult lists what changed between a saved document and a fresh scrape
type DiffResult struct {
	Added   []string
	Removed []string
	Changed []Change
}

// IsEmpty reports whether the two documents were equivalent
func (d *DiffResult) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares the current document against the previous one by course key.
// A nil previous document counts as empty.
func Diff(previous, current *requirements.Program) *DiffResult {
	result := &DiffResult{
		Added:   make([]string, 0),
		Removed: make([]string, 0),
		Changed: make([]Change, 0),
	}

	prev := indexRecords(previous)
	curr := indexRecords(current)

	for course, record := range curr {
		old, exists := prev[course]
		if !exists {
			result.Added = append(result.Added, course)
			continue
		}
		result.Changed = append(result.Changed, DetectChanges(old, record)...)
	}

	for course := range prev {
		if _, exists := curr[course]; !exists {
			result.Removed = append(result.Removed, course)
		}
	}

	sort.Strings(result.Added)
	sort.Strings(result.Removed)
	sort.Slice(result.Changed, func(i, j int) bool {
		if result.Changed[i].Course != result.Changed[j].Course {
			return result.Changed[i].Course < result.Changed[j].Course
		}
		return result.Changed[i].Field < result.Changed[j].Field
	})

	return result
}

// DetectChanges compares two records for the same course
func DetectChanges(previous, current requirements.Record) []Change {
	var changes []Change

	add := func(field, old, new string) {
		if old != new {
			changes = append(changes, Change{
				Course: current.Course,
				Field:  field,
				Old:    old,
				New:    new,
			})
		}
	}

	add("name", previous.Name.Display(), current.Name.Display())
	add("credits", strconv.Itoa(previous.Credits), strconv.Itoa(current.Credits))
	add("prereqs", previous.Prereqs, current.Prereqs)
	add("semester", previous.Semester, current.Semester)

	return changes
}

// indexRecords keys records by course. Special entries can repeat, so only the
// first occurrence of a key is kept.
func indexRecords(program *requirements.Program) map[string]requirements.Record {
	index := make(map[string]requirements.Record)
	if program == nil {
		return index
	}
	for _, record := range program.Records {
		if _, exists := index[record.Course]; !exists {
			index[record.Course] = record
		}
	}
	return index
}
