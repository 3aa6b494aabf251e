package dynamics

import "github.com/gerich-home/box2d/math/geom"

const nullNode = -1

type treeNode struct {
	aabb     geom.AABB
	userData int // fixture/child key; see proxyKey
	parent   int // also used as "next free" when the node is in the free list
	left     int
	right    int
	height   int // -1 means free
}

func (n *treeNode) isLeaf() bool { return n.left == nullNode }

// dynamicTree is a self-balancing binary AABB tree, arena-allocated
// into a Go slice with an intrusive free list — the same "slice of
// structs addressed by integer index, reused via a free-list head"
// idiom a scratch-buffer idiom elsewhere in this package already
// demonstrates (`sol.constC = sol.constC[0:0]` capacity reuse).
// Grounded algorithmically on Box2D's b2DynamicTree, the standard
// shape for a dynamic AABB tree component; a brute-force O(n^2)
// distance check with no spatial index is useful only for the
// union-find island idea reused in island.go, not for this structure.
type dynamicTree struct {
	nodes    []treeNode
	root     int
	freeList int
}

func newDynamicTree() *dynamicTree {
	return &dynamicTree{root: nullNode, freeList: nullNode}
}

func (t *dynamicTree) allocateNode() int {
	if t.freeList == nullNode {
		t.nodes = append(t.nodes, treeNode{height: -1})
		return len(t.nodes) - 1
	}
	id := t.freeList
	t.freeList = t.nodes[id].parent
	t.nodes[id] = treeNode{height: 0}
	return id
}

func (t *dynamicTree) freeNode(id int) {
	t.nodes[id].parent = t.freeList
	t.nodes[id].height = -1
	t.freeList = id
}

// CreateProxy inserts a fat AABB for userData and returns its proxy
// id.
func (t *dynamicTree) CreateProxy(aabb geom.AABB, userData int) int {
	id := t.allocateNode()
	margin := geom.NewVec2(aabbExtension, aabbExtension)
	t.nodes[id].aabb = geom.NewAABB(geom.Minus(aabb.LowerBound, margin), geom.Plus(aabb.UpperBound, margin))
	t.nodes[id].userData = userData
	t.nodes[id].height = 0
	t.nodes[id].left = nullNode
	t.nodes[id].right = nullNode
	t.insertLeaf(id)
	return id
}

func (t *dynamicTree) DestroyProxy(id int) {
	t.removeLeaf(id)
	t.freeNode(id)
}

// MoveProxy re-inserts the proxy only when its fat AABB no longer
// contains the tight aabb.
func (t *dynamicTree) MoveProxy(id int, aabb geom.AABB, displacement geom.Vec2) bool {
	if t.nodes[id].aabb.Contains(aabb) {
		return false
	}
	t.removeLeaf(id)

	margin := geom.NewVec2(aabbExtension, aabbExtension)
	fat := geom.NewAABB(geom.Minus(aabb.LowerBound, margin), geom.Plus(aabb.UpperBound, margin))

	if displacement.X < 0 {
		fat.LowerBound.X += displacement.X
	} else {
		fat.UpperBound.X += displacement.X
	}
	if displacement.Y < 0 {
		fat.LowerBound.Y += displacement.Y
	} else {
		fat.UpperBound.Y += displacement.Y
	}

	t.nodes[id].aabb = fat
	t.insertLeaf(id)
	return true
}

func (t *dynamicTree) GetFatAABB(id int) geom.AABB { return t.nodes[id].aabb }
func (t *dynamicTree) GetUserData(id int) int      { return t.nodes[id].userData }

func (t *dynamicTree) insertLeaf(leaf int) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		left, right := t.nodes[index].left, t.nodes[index].right
		area := t.nodes[index].aabb.Perimeter()
		combined := t.nodes[index].aabb.Combine(leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2 * combinedArea
		inheritanceCost := 2 * (combinedArea - area)

		costLeft := t.childCost(left, leafAABB) + inheritanceCost
		costRight := t.childCost(right, leafAABB) + inheritanceCost

		if cost < costLeft && cost < costRight {
			break
		}
		if costLeft < costRight {
			index = left
		} else {
			index = right
		}
	}

	sibling := index
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = t.nodes[sibling].aabb.Combine(leafAABB)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].left == sibling {
			t.nodes[oldParent].left = newParent
		} else {
			t.nodes[oldParent].right = newParent
		}
		t.nodes[newParent].left = sibling
		t.nodes[newParent].right = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
	} else {
		t.nodes[newParent].left = sibling
		t.nodes[newParent].right = leaf
		t.nodes[sibling].parent = newParent
		t.nodes[leaf].parent = newParent
		t.root = newParent
	}

	t.fixup(t.nodes[leaf].parent)
}

func (t *dynamicTree) childCost(child int, leafAABB geom.AABB) float64 {
	combined := t.nodes[child].aabb.Combine(leafAABB)
	if t.nodes[child].isLeaf() {
		return combined.Perimeter()
	}
	oldArea := t.nodes[child].aabb.Perimeter()
	newArea := combined.Perimeter()
	return newArea - oldArea
}

func (t *dynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].left == leaf {
		sibling = t.nodes[parent].right
	} else {
		sibling = t.nodes[parent].left
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].left == parent {
			t.nodes[grandParent].left = sibling
		} else {
			t.nodes[grandParent].right = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.fixup(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// fixup walks from index to the root, re-fitting AABBs and applying
// left-leaning rotations to bound height.
func (t *dynamicTree) fixup(index int) {
	for index != nullNode {
		index = t.balance(index)

		left, right := t.nodes[index].left, t.nodes[index].right
		t.nodes[index].height = 1 + maxInt(t.nodes[left].height, t.nodes[right].height)
		t.nodes[index].aabb = t.nodes[left].aabb.Combine(t.nodes[right].aabb)

		index = t.nodes[index].parent
	}
}

func (t *dynamicTree) balance(iA int) int {
	a := &t.nodes[iA]
	if a.isLeaf() || a.height < 2 {
		return iA
	}

	iB, iC := a.left, a.right
	b, c := &t.nodes[iB], &t.nodes[iC]

	balanceFactor := c.height - b.height

	if balanceFactor > 1 {
		return t.rotate(iA, iC, iB)
	}
	if balanceFactor < -1 {
		return t.rotate(iA, iB, iC)
	}
	return iA
}

// rotate promotes iHeavy (the taller child) above iA, demoting
// iA alongside iLight; used by balance for both left- and
// right-heavy cases by swapping which child is passed as which.
func (t *dynamicTree) rotate(iA, iHeavy, iLight int) int {
	a, heavy := &t.nodes[iA], &t.nodes[iHeavy]
	f, g := heavy.left, heavy.right
	heavyWasLeft := a.left == iHeavy

	heavy.left = iA
	heavy.parent = a.parent
	a.parent = iHeavy

	if heavy.parent != nullNode {
		if t.nodes[heavy.parent].left == iA {
			t.nodes[heavy.parent].left = iHeavy
		} else {
			t.nodes[heavy.parent].right = iHeavy
		}
	} else {
		t.root = iHeavy
	}

	if t.nodes[f].height > t.nodes[g].height {
		heavy.right = f
		if heavyWasLeft {
			a.left = g
		} else {
			a.right = g
		}
		t.nodes[g].parent = iA
		a.aabb = t.nodes[iLight].aabb.Combine(t.nodes[g].aabb)
		heavy.aabb = a.aabb.Combine(t.nodes[f].aabb)
		a.height = 1 + maxInt(t.nodes[iLight].height, t.nodes[g].height)
		heavy.height = 1 + maxInt(a.height, t.nodes[f].height)
	} else {
		heavy.right = g
		if heavyWasLeft {
			a.left = f
		} else {
			a.right = f
		}
		t.nodes[f].parent = iA
		a.aabb = t.nodes[iLight].aabb.Combine(t.nodes[f].aabb)
		heavy.aabb = a.aabb.Combine(t.nodes[g].aabb)
		a.height = 1 + maxInt(t.nodes[iLight].height, t.nodes[f].height)
		heavy.height = 1 + maxInt(a.height, t.nodes[g].height)
	}
	return iHeavy
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// GetHeight returns the tree's height, 0 for an empty or single-node
// tree.
func (t *dynamicTree) GetHeight() int {
	if t.root == nullNode {
		return 0
	}
	return t.nodes[t.root].height
}

// GetAreaRatio is the surface-area-ratio quality metric: the summed
// perimeter of every internal node (root included, leaves excluded)
// divided by the root's perimeter, so it is 1.0 only when the root is
// the tree's single internal node.
func (t *dynamicTree) GetAreaRatio() float64 {
	if t.root == nullNode {
		return 0
	}
	rootArea := t.nodes[t.root].aabb.Perimeter()
	total := 0.0
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.height < 0 || n.isLeaf() {
			continue
		}
		total += n.aabb.Perimeter()
	}
	return total / rootArea
}

// Query visits every proxy whose fat AABB overlaps aabb. visit
// returns false to stop the traversal early.
func (t *dynamicTree) Query(aabb geom.AABB, visit func(proxyID int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		n := &t.nodes[id]
		if !n.aabb.Overlaps(aabb) {
			continue
		}
		if n.isLeaf() {
			if !visit(id) {
				return
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
}

// RayCast visits every leaf whose fat AABB the ray [input.P1,
// input.P2] (scaled by input.MaxFraction) intersects.
func (t *dynamicTree) RayCast(input geom.RayCastInput, visit func(proxyID int) bool) {
	if t.root == nullNode {
		return
	}
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}
		n := &t.nodes[id]
		if _, hit := n.aabb.RayCast(input); !hit {
			continue
		}
		if n.isLeaf() {
			if !visit(id) {
				return
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
}

// pairKey orders a proxy pair so (a,b) and (b,a) are never both
// emitted: every ordered pair is emitted as (min, max) at most once.
type pairKey struct{ a, b int }

func newPairKey(a, b int) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// BroadPhase owns the dynamic tree plus the move buffer UpdatePairs
// consumes.
type BroadPhase struct {
	tree      *dynamicTree
	moved     map[int]bool
	proxyToID map[int]int // tree node id -> caller-facing proxy key, identity here
}

func newBroadPhase() *BroadPhase {
	return &BroadPhase{tree: newDynamicTree(), moved: map[int]bool{}}
}

func (bp *BroadPhase) CreateProxy(aabb geom.AABB, userData int) int {
	id := bp.tree.CreateProxy(aabb, userData)
	bp.moved[id] = true
	return id
}

func (bp *BroadPhase) DestroyProxy(id int) {
	delete(bp.moved, id)
	bp.tree.DestroyProxy(id)
}

func (bp *BroadPhase) MoveProxy(id int, aabb geom.AABB, displacement geom.Vec2) {
	if bp.tree.MoveProxy(id, aabb, displacement) {
		bp.moved[id] = true
	}
}

func (bp *BroadPhase) TouchProxy(id int) { bp.moved[id] = true }

func (bp *BroadPhase) GetFatAABB(id int) geom.AABB { return bp.tree.GetFatAABB(id) }
func (bp *BroadPhase) GetUserData(id int) int      { return bp.tree.GetUserData(id) }
func (bp *BroadPhase) TestOverlap(idA, idB int) bool {
	return bp.tree.GetFatAABB(idA).Overlaps(bp.tree.GetFatAABB(idB))
}

func (bp *BroadPhase) Query(aabb geom.AABB, visit func(proxyID int) bool) { bp.tree.Query(aabb, visit) }
func (bp *BroadPhase) RayCast(input geom.RayCastInput, visit func(proxyID int) bool) {
	bp.tree.RayCast(input, visit)
}

// UpdatePairs emits every distinct pair of proxies, at least one of
// them in the moved set, whose fat AABBs currently overlap, each pair
// at most once; pairs of two unmoved proxies are not emitted. It then
// clears the moved set — pair-generation contract.
func (bp *BroadPhase) UpdatePairs(emit func(proxyA, proxyB int)) {
	seen := map[pairKey]bool{}
	for moved := range bp.moved {
		aabb := bp.tree.GetFatAABB(moved)
		bp.tree.Query(aabb, func(other int) bool {
			if other == moved {
				return true
			}
			key := newPairKey(moved, other)
			if seen[key] {
				return true
			}
			seen[key] = true
			emit(key.a, key.b)
			return true
		})
	}
	bp.moved = map[int]bool{}
}
