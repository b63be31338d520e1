package planner

import "sort"

// ActionCollection holds the actions of one file in insertion order. The
// assembler sorts copies; the collection itself is never reordered.
type ActionCollection struct {
	Transcodes  []*Action
	Extractions []*Action
	Groups      []*Action
}

// Add appends a to the list matching its kind.
func (c *ActionCollection) Add(a *Action) {
	switch a.Kind {
	case KindTranscode:
		c.Transcodes = append(c.Transcodes, a)
	case KindExtraction:
		c.Extractions = append(c.Extractions, a)
	case KindGroupExtraction:
		c.Groups = append(c.Groups, a)
	}
}

// Merge appends every action of other.
func (c *ActionCollection) Merge(other ActionCollection) {
	c.Transcodes = append(c.Transcodes, other.Transcodes...)
	c.Extractions = append(c.Extractions, other.Extractions...)
	c.Groups = append(c.Groups, other.Groups...)
}

// Len returns the total number of actions.
func (c *ActionCollection) Len() int {
	return len(c.Transcodes) + len(c.Extractions) + len(c.Groups)
}

// SortedByIndex returns a copy of actions, stable-sorted by source index.
func SortedByIndex(actions []*Action) []*Action {
	out := make([]*Action, len(actions))
	copy(out, actions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stream.Index < out[j].Stream.Index
	})
	return out
}

// Group is the members of one shared sidecar, sorted by source index.
type Group struct {
	Name    string
	Members []*Action
}

// GroupsByName buckets group actions by rendered file name. Groups come
// out ordered by their lowest member index.
func (c *ActionCollection) GroupsByName(ann Annotations) []Group {
	var groups []Group
	pos := map[string]int{}
	for _, a := range SortedByIndex(c.Groups) {
		name := a.Name(ann)
		i, ok := pos[name]
		if !ok {
			i = len(groups)
			pos[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Members = append(groups[i].Members, a)
	}
	return groups
}
