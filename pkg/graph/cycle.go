package graph

import "sort"

// CycleIDs returns the sorted ids of the nodes that lie on dependency
// cycles, or nil when the dependency edges are acyclic. Tree edges are not
// considered.
//
// It uses a Kahn-style reduction: nodes whose dependencies have all been
// removed are peeled away until nothing more can go. The survivors are
// then split into strongly connected components, and only members of a
// cycle are named. Nodes downstream of a cycle, or sitting between two
// cycles without being on one, are left out.
func (g *Graph) CycleIDs() []string {
	indegree := make(map[string]int, len(g.ids))
	for _, id := range g.ids {
		for _, dep := range distinct(g.Nodes[id].Dependencies) {
			if g.Has(dep) {
				indegree[id]++
			}
		}
	}

	remaining := make(map[string]bool, len(g.ids))
	queue := []string{}
	for _, id := range g.ids {
		remaining[id] = true
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(remaining, id)

		for _, dependent := range g.ReverseDag[id] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(remaining) == 0 {
		return nil
	}

	onCycle := g.cycleMembers(remaining)
	if len(onCycle) == 0 {
		return nil
	}

	sort.Strings(onCycle)
	return onCycle
}

// cycleMembers returns the nodes of candidates that belong to a strongly
// connected component with more than one node, or that depend on
// themselves. Components are found with Tarjan's algorithm over the
// dependency edges between candidates.
func (g *Graph) cycleMembers(candidates map[string]bool) []string {
	var (
		index   = map[string]int{}
		lowlink = map[string]int{}
		onStack = map[string]bool{}
		stack   []string
		next    int
		members []string
	)

	var connect func(id string)
	connect = func(id string) {
		index[id] = next
		lowlink[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		selfLoop := false
		for _, dep := range distinct(g.Nodes[id].Dependencies) {
			if !candidates[dep] {
				continue
			}
			if dep == id {
				selfLoop = true
			}
			if _, seen := index[dep]; !seen {
				connect(dep)
				lowlink[id] = min(lowlink[id], lowlink[dep])
			} else if onStack[dep] {
				lowlink[id] = min(lowlink[id], index[dep])
			}
		}

		if lowlink[id] != index[id] {
			return
		}

		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 || selfLoop {
			members = append(members, component...)
		}
	}

	for _, id := range g.ids {
		if !candidates[id] {
			continue
		}
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}
	return members
}

// Acyclic reports whether the dependency edges contain no cycle.
func (g *Graph) Acyclic() bool {
	return len(g.CycleIDs()) == 0
}
