package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devggaurav/KShell-UI/internal/domain"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	maxDidYouMean   = 3
	maxTypoDistance = 2
)

// Registry is an ordered set of definitions. Registration order is the
// tie-break contract: when two definitions answer to the same name, the one
// registered first wins.
type Registry struct {
	defs []*Definition
}

// NewRegistry creates a registry holding defs in order.
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register appends d. It panics on a definition without a name or handler,
// which is a wiring mistake.
func (r *Registry) Register(d *Definition) {
	if d == nil || strings.TrimSpace(d.Name) == "" {
		panic("command: definition without a name")
	}
	if d.Run == nil {
		panic(fmt.Sprintf("command: definition %q without a handler", d.Name))
	}
	r.defs = append(r.defs, d)
}

// Lookup returns the first registered definition answering to name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	for _, d := range r.defs {
		if d.Matches(name) {
			return d, true
		}
	}
	return nil, false
}

// All returns the definitions in registration order.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// candidate is one completable command name.
type candidate struct {
	name string
	def  *Definition
}

// complete returns visible names and aliases starting with prefix, ignoring
// case, sorted alphabetically. A name shadowed by an earlier definition is
// attributed to that definition.
func (r *Registry) complete(prefix string) []candidate {
	prefix = strings.ToLower(prefix)
	seen := make(map[string]bool)
	var out []candidate
	for _, d := range r.defs {
		if d.Hidden {
			continue
		}
		for _, n := range d.Names() {
			key := strings.ToLower(n)
			if seen[key] || !strings.HasPrefix(key, prefix) {
				continue
			}
			seen[key] = true
			owner, _ := r.Lookup(n)
			out = append(out, candidate{name: n, def: owner})
		}
	}
	names := make([]string, len(out))
	byName := make(map[string]candidate, len(out))
	for i, c := range out {
		names[i] = c.name
		byName[c.name] = c
	}
	domain.SortStrings(names)
	for i, n := range names {
		out[i] = byName[n]
	}
	return out
}

// Closest returns up to three visible command names resembling name, nearest
// first.
func (r *Registry) Closest(name string) []string {
	if name == "" {
		return nil
	}
	var names []string
	for _, d := range r.defs {
		if !d.Hidden {
			names = append(names, d.Names()...)
		}
	}

	matched := make(map[string]bool)
	for _, rank := range fuzzy.RankFindFold(name, names) {
		matched[rank.Target] = true
	}
	lower := strings.ToLower(name)
	for _, n := range names {
		if fuzzy.MatchFold(n, name) || fuzzy.LevenshteinDistance(lower, strings.ToLower(n)) <= maxTypoDistance {
			matched[n] = true
		}
	}

	out := make([]string, 0, len(matched))
	for n := range matched {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		di := fuzzy.LevenshteinDistance(lower, strings.ToLower(out[i]))
		dj := fuzzy.LevenshteinDistance(lower, strings.ToLower(out[j]))
		if di != dj {
			return di < dj
		}
		return out[i] < out[j]
	})
	if len(out) > maxDidYouMean {
		out = out[:maxDidYouMean]
	}
	return out
}
