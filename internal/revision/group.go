package revision

import (
	"sort"

	"github.com/roach88/revmatrix/internal/ident"
)

// DrawingGroup holds every identity that shares a base name.
// Members keep the order in which they were supplied.
type DrawingGroup struct {
	BaseName string
	Members  []ident.Identity
}

// ResolvedGroup is the keep/supersede decision for one DrawingGroup.
type ResolvedGroup struct {
	BaseName  string           `json:"base_name"`
	Keep      ident.Identity   `json:"keep"`
	Supersede []ident.Identity `json:"supersede"`

	// Ambiguous is set when another member carries the same revision token
	// as Keep. No rule decides between them beyond listing order.
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Less reports whether a ranks strictly below b.
func Less(a, b ident.Identity) bool {
	switch {
	case a.HasRevision() && !b.HasRevision():
		return false
	case !a.HasRevision() && b.HasRevision():
		return true
	case a.HasRevision():
		return a.Revision < b.Revision
	default:
		return a.Filename < b.Filename
	}
}

// GroupIdentities partitions ids by base name. Groups are returned sorted by
// base name; members keep input order.
func GroupIdentities(ids []ident.Identity) []DrawingGroup {
	index := make(map[string]int)
	var groups []DrawingGroup
	for _, id := range ids {
		i, ok := index[id.BaseName]
		if !ok {
			i = len(groups)
			index[id.BaseName] = i
			groups = append(groups, DrawingGroup{BaseName: id.BaseName})
		}
		groups[i].Members = append(groups[i].Members, id)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].BaseName < groups[j].BaseName
	})
	return groups
}

// Resolve picks the maximal member of g as Keep. Supersede lists the rest
// in ascending order. g must not be empty.
func Resolve(g DrawingGroup) ResolvedGroup {
	ranked := make([]ident.Identity, len(g.Members))
	copy(ranked, g.Members)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})

	last := len(ranked) - 1
	keep := ranked[last]
	res := ResolvedGroup{
		BaseName:  g.BaseName,
		Keep:      keep,
		Supersede: ranked[:last],
	}
	if last > 0 {
		prev := ranked[last-1]
		res.Ambiguous = !Less(prev, keep)
	}
	return res
}

// Group groups ids by base name and resolves every group.
func Group(ids []ident.Identity) []ResolvedGroup {
	groups := GroupIdentities(ids)
	out := make([]ResolvedGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, Resolve(g))
	}
	return out
}

// Select keeps only the groups whose base name is listed.
// An empty list selects every group.
func Select(groups []ResolvedGroup, baseNames []string) []ResolvedGroup {
	if len(baseNames) == 0 {
		return groups
	}
	want := make(map[string]struct{}, len(baseNames))
	for _, b := range baseNames {
		want[b] = struct{}{}
	}
	var out []ResolvedGroup
	for _, g := range groups {
		if _, ok := want[g.BaseName]; ok {
			out = append(out, g)
		}
	}
	return out
}

// SupersedeCount returns the number of files groups would move.
func SupersedeCount(groups []ResolvedGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Supersede)
	}
	return n
}
