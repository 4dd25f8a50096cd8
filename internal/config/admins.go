package config

import (
	"slices"

	"github.com/samber/lo"
)

// AdminSet is the static allow-list of administrator identities. It is built
// once at startup and never mutated, so lookups need no locking.
type AdminSet struct {
	ids map[int64]struct{}
}

// NewAdminSet builds an AdminSet from the configured IDs.
func NewAdminSet(ids []int64) AdminSet {
	return AdminSet{
		ids: lo.SliceToMap(ids, func(id int64) (int64, struct{}) {
			return id, struct{}{}
		}),
	}
}

// IsAdmin reports whether id is in the allow-list.
func (s AdminSet) IsAdmin(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the administrator IDs in ascending order.
func (s AdminSet) IDs() []int64 {
	ids := lo.Keys(s.ids)
	slices.Sort(ids)
	return ids
}

// Len returns the number of administrators.
func (s AdminSet) Len() int {
	return len(s.ids)
}
