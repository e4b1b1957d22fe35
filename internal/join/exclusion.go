package join

import (
	"sort"

	"github.com/samber/lo"
)

// ExclusionSet tracks top-level directories of the joined repository that already hold merged repositories.
// Members are never removed.
type ExclusionSet struct {
	members map[string]struct{}
}

// NewExclusionSet constructs an ExclusionSet seeded with the provided names.
func NewExclusionSet(names ...string) *ExclusionSet {
	exclusionSet := &ExclusionSet{members: make(map[string]struct{}, len(names))}
	for _, name := range names {
		exclusionSet.Add(name)
	}
	return exclusionSet
}

// Contains reports whether name is excluded.
func (exclusionSet *ExclusionSet) Contains(name string) bool {
	if exclusionSet == nil {
		return false
	}
	_, excluded := exclusionSet.members[name]
	return excluded
}

// Add excludes name from future relocations. Empty names are ignored.
func (exclusionSet *ExclusionSet) Add(name string) {
	if len(name) == 0 {
		return
	}
	exclusionSet.members[name] = struct{}{}
}

// Values returns the excluded names in ascending order.
func (exclusionSet *ExclusionSet) Values() []string {
	if exclusionSet == nil {
		return []string{}
	}
	values := lo.Keys(exclusionSet.members)
	sort.Strings(values)
	return values
}

// Len reports the number of excluded names.
func (exclusionSet *ExclusionSet) Len() int {
	if exclusionSet == nil {
		return 0
	}
	return len(exclusionSet.members)
}
