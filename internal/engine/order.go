package engine

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/timeglimpse/timeglimpse/internal/document"
)

// Resolver looks up model entities by id. *document.Model implements it.
type Resolver interface {
	Timeseries(id string) (*document.Timeseries, bool)
	Fragment(id string) (*document.Fragment, bool)
}

// OrderFragments resolves fragment ids and returns the fragments sorted by
// start time. Equal starts keep their insertion order. Unresolvable ids are
// skipped.
func OrderFragments(res Resolver, fragmentIDs []string) []*document.Fragment {
	frags := make([]*document.Fragment, 0, len(fragmentIDs))
	for _, id := range fragmentIDs {
		f, ok := res.Fragment(id)
		if !ok {
			slog.Debug("skipping unresolved fragment", "fragment", id)
			continue
		}
		frags = append(frags, f)
	}
	SortFragments(frags)
	return frags
}

// SortFragments stably sorts fragments by start time in place.
func SortFragments(frags []*document.Fragment) {
	slices.SortStableFunc(frags, func(a, b *document.Fragment) int {
		return cmp.Compare(a.Start, b.Start)
	})
}
