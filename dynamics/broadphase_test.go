package dynamics

import (
	"testing"

	"github.com/gerich-home/box2d/math/geom"
)

func box(cx, cy, half float64) geom.AABB {
	return geom.NewAABB(geom.NewVec2(cx-half, cy-half), geom.NewVec2(cx+half, cy+half))
}

func TestBroadPhaseCreateAndQuery(t *testing.T) {
	bp := newBroadPhase()
	a := bp.CreateProxy(box(0, 0, 0.5), 1)
	bp.CreateProxy(box(5, 0, 0.5), 2)

	var hits []int
	bp.Query(box(0, 0, 1), func(id int) bool {
		hits = append(hits, bp.GetUserData(id))
		return true
	})
	if len(hits) != 1 || hits[0] != 1 {
		t.Errorf("expected only proxy a's userData, got %v", hits)
	}
	_ = a
}

func TestBroadPhaseMoveProxyUpdatesFatAABB(t *testing.T) {
	bp := newBroadPhase()
	id := bp.CreateProxy(box(0, 0, 0.5), 1)
	fat := bp.GetFatAABB(id)

	bp.MoveProxy(id, box(100, 100, 0.5), geom.NewVec2(1, 1))
	newFat := bp.GetFatAABB(id)
	if newFat == fat {
		t.Error("fat AABB did not change after a large move")
	}
	if !newFat.Contains(box(100, 100, 0.5)) {
		t.Error("new fat AABB does not contain the tight AABB")
	}
}

func TestBroadPhaseUpdatePairsDedupesAndSkipsSelf(t *testing.T) {
	bp := newBroadPhase()
	bp.CreateProxy(box(0, 0, 0.5), 1)
	bp.CreateProxy(box(0, 0, 0.5), 2)

	count := 0
	bp.UpdatePairs(func(pa, pb int) { count++ })
	if count != 1 {
		t.Errorf("expected exactly one pair, got %d", count)
	}

	// A second call with nothing touched since the move set was
	// cleared should yield no pairs.
	count = 0
	bp.UpdatePairs(func(pa, pb int) { count++ })
	if count != 0 {
		t.Errorf("expected no pairs after moved set was cleared, got %d", count)
	}
}
