package graph

// Order returns a total order over modules consistent with the non-delayed
// dependency graph: every non-delayed edge points from an earlier to a
// later module. Among several eligible modules the one with the smallest
// id is picked, so the order is reproducible. The result is cached until
// the next structural edit; parameter changes never drop the cache.
//
// Callers must treat the returned slice as read-only.
func (g *Graph) Order() ([]ID, error) {
	if g.ordered {
		return g.order, nil
	}

	ids := g.IDs()
	indegree := make(map[ID]int, len(ids))
	for _, conn := range g.inbound {
		if !conn.Delayed {
			indegree[conn.Dst.Module]++
		}
	}

	order := make([]ID, 0, len(ids))
	done := make(map[ID]bool, len(ids))
	for len(order) < len(ids) {
		picked := false
		for _, id := range ids {
			if done[id] || indegree[id] > 0 {
				continue
			}
			done[id] = true
			order = append(order, id)
			for _, conn := range g.inbound {
				if !conn.Delayed && conn.Src.Module == id {
					indegree[conn.Dst.Module]--
				}
			}
			picked = true
			break
		}
		if !picked {
			// Connect rejects cycle-closing edges, so the residual
			// modules mean the invariant was broken elsewhere.
			return nil, ErrScheduleCycle
		}
	}

	g.order = order
	g.ordered = true
	return order, nil
}
