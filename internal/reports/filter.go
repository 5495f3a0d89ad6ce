// Package reports derives the visible, ordered subset of the class report
// listing from live filter criteria. It is pure: the caller owns the item
// collection and any per-item UI state.
package reports

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SessionFilter is the enumerated session-presence predicate.
type SessionFilter int

const (
	SessionsAny  SessionFilter = iota // no constraint
	SessionsSome                      // at least one session
	SessionsNone                      // exactly zero sessions
)

// String returns the wire/control value for the predicate.
func (f SessionFilter) String() string {
	switch f {
	case SessionsSome:
		return "with-sessions"
	case SessionsNone:
		return "no-sessions"
	default:
		return "any"
	}
}

// Next cycles to the following predicate value.
func (f SessionFilter) Next() SessionFilter {
	return (f + 1) % 3
}

// SortKey selects the ordering of the visible subset.
type SortKey int

const (
	SortNewest   SortKey = iota // start-date ordinal descending
	SortOldest                  // start-date ordinal ascending
	SortName                    // locale-aware name comparison
	SortSessions                // session count descending
)

// String returns the control label for the sort key.
func (k SortKey) String() string {
	switch k {
	case SortOldest:
		return "oldest"
	case SortName:
		return "name"
	case SortSessions:
		return "sessions"
	default:
		return "newest"
	}
}

// Next cycles to the following sort key.
func (k SortKey) Next() SortKey {
	return (k + 1) % 4
}

// ClassItem is one entry of the report listing.
type ClassItem struct {
	ID        int64
	Name      string
	Sessions  int
	StartDate int64 // ordinal; larger is newer
}

// Criteria is the live filter state. It is derived from control values and
// never persisted.
type Criteria struct {
	Query    string
	Sessions SessionFilter
	Sort     SortKey
}

var nameCollator = collate.New(language.English)

// Apply returns the matching items in display order. Ties keep their
// relative input order. The input slice is not modified; hiding the
// remainder in place is the caller's concern.
func Apply(items []ClassItem, c Criteria) []ClassItem {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	visible := make([]ClassItem, 0, len(items))
	for _, item := range items {
		if query != "" && !strings.Contains(strings.ToLower(item.Name), query) {
			continue
		}
		if !c.Sessions.matches(item.Sessions) {
			continue
		}
		visible = append(visible, item)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		switch c.Sort {
		case SortOldest:
			return a.StartDate < b.StartDate
		case SortName:
			return nameCollator.CompareString(a.Name, b.Name) < 0
		case SortSessions:
			return a.Sessions > b.Sessions
		default: // SortNewest
			return a.StartDate > b.StartDate
		}
	})
	return visible
}

func (f SessionFilter) matches(count int) bool {
	switch f {
	case SessionsSome:
		return count > 0
	case SessionsNone:
		return count == 0
	default:
		return true
	}
}
