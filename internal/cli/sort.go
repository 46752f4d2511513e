package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/catalog-courses/internal/requirements"
)

// SortOrder represents the available sorting options for list output
type SortOrder string

const (
	SortByCatalog SortOrder = "catalog"
	SortByCourse  SortOrder = "course"
	SortByCredits SortOrder = "credits"
)

// sortRecords sorts records in place. Catalog order leaves the document order
// untouched.
func sortRecords(records []requirements.Record, sortOrder SortOrder) {
	switch sortOrder {
	case SortByCourse:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Course) < strings.ToLower(records[j].Course)
		})
	case SortByCredits:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Credits != records[j].Credits {
				return records[i].Credits > records[j].Credits
			}
			// If credits are equal, sort by course
			return strings.ToLower(records[i].Course) < strings.ToLower(records[j].Course)
		})
	}
}

func validSortOrder(s SortOrder) bool {
	switch s {
	case SortByCatalog, SortByCourse, SortByCredits:
		return true
	}
	return false
}
