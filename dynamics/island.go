package dynamics

// island is a connected group of awake bodies plus the contacts and
// joints linking them, built each step by a DFS over contact/joint
// edges. Modeled on the union-find island
// grouping in broad.go (uf_find/uf_union/uf_collect_all over a
// map[bid]bid) — replaced here with an explicit DFS
// since the solver needs an ordered body list per
// island (not just grouping), and a DFS falls out naturally while
// walking contact/joint edges.
type island struct {
	bodies   []*Body
	contacts []*Contact
	joints   []Joint
}

// buildIslands partitions every awake, active dynamic/kinematic body
// (plus any static body they touch, which does not propagate further)
// into islands, skipping non-touching or disabled contacts and
// inactive joints.
func buildIslands(bodies []*Body) []*island {
	visited := make(map[*Body]bool, len(bodies))
	var islands []*island

	for _, seed := range bodies {
		if visited[seed] || seed.kind == StaticBody || !seed.IsAwake() || !seed.IsActive() {
			continue
		}

		isl := &island{}
		stack := []*Body{seed}
		visited[seed] = true

		seenContacts := map[*Contact]bool{}
		seenJoints := map[Joint]bool{}

		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			isl.bodies = append(isl.bodies, b)

			if b.kind == StaticBody {
				continue
			}

			for _, edge := range b.contactEdges {
				c := edge.contact
				if seenContacts[c] || !c.IsEnabled() || !c.IsTouching() {
					continue
				}
				seenContacts[c] = true
				isl.contacts = append(isl.contacts, c)
				if !visited[edge.other] {
					visited[edge.other] = true
					stack = append(stack, edge.other)
				}
			}

			for _, edge := range b.jointEdges {
				j := edge.joint
				if seenJoints[j] {
					continue
				}
				seenJoints[j] = true
				isl.joints = append(isl.joints, j)
				if !visited[edge.other] {
					visited[edge.other] = true
					stack = append(stack, edge.other)
				}
			}
		}

		// A static body can anchor more than one island (e.g. a floor
		// several independently-resting bodies all touch); clear its
		// visited flag so a later seed can still pull it into its own
		// island instead of silently leaving it out of isl.bodies while
		// its contact is still attached to that island.
		for _, b := range isl.bodies {
			if b.kind == StaticBody {
				visited[b] = false
			}
		}

		islands = append(islands, isl)
	}

	return islands
}
