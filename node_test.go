package canopy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SortKey ---

func TestSortKeyCompare(t *testing.T) {
	tests := []struct {
		a, b SortKey
		want int
	}{
		{NewSortKey(), NewSortKey(), 0},
		{NewSortKey(1), NewSortKey(2), -1},
		{NewSortKey(2), NewSortKey(1), 1},
		{NewSortKey(1, 5), NewSortKey(1, 3), 1},
		{NewSortKey(1, 3, 9), NewSortKey(1, 3, 10), -1},
		{NewSortKey(-5), NewSortKey(0, -100), -1},
		{NewSortKey(0, 0, 0), NewSortKey(), 0},
	}
	for _, tt := range tests {
		got := tt.a.Compare(tt.b)
		if got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
		if tt.a.Less(tt.b) != (tt.want < 0) {
			t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, !(tt.want < 0), tt.want < 0)
		}
	}
}

func TestNewSortKeyTooManyWeightsPanics(t *testing.T) {
	assert.Panics(t, func() { NewSortKey(1, 2, 3, 4) })
}

func TestSortKeyString(t *testing.T) {
	if got := NewSortKey(1, -2).String(); got != "(1, -2, 0)" {
		t.Errorf("String() = %q, want %q", got, "(1, -2, 0)")
	}
}

// --- Arena ---

func TestArenaReusesSlotsWithNewGeneration(t *testing.T) {
	a := NewArena()
	n1 := a.NewNode(nil)
	require.True(t, n1.Valid())
	n1.DisposeNode()
	assert.False(t, n1.Valid())
	assert.Equal(t, 0, a.Len())

	n2 := a.NewNode(nil)
	assert.Equal(t, n1.index, n2.index, "slot should be reused")
	assert.NotEqual(t, n1.gen, n2.gen)
	assert.False(t, n1.Valid(), "stale handle must stay invalid")
	assert.True(t, n2.Valid())
}

func TestZeroNodeIsDetached(t *testing.T) {
	var n DrawableNode
	assert.False(t, n.Valid())
	assert.Nil(t, n.Controller())
	assert.Equal(t, Invisible, n.Visibility())
	n.SetNodeSortWeight(3)
	n.DisposeNode()
	n.RegisterEventHandler(func(Stage, *RenderParams) {})
}

func TestDefaultKeysFollowCreationOrder(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	var log []string
	recordingNode(a, c, "first", &log)
	recordingNode(a, c, "second", &log)
	recordingNode(a, c, "third", &log)

	c.BroadcastNotification(StageBeforeRender, &RenderParams{})
	assert.Equal(t, []string{"first", "second", "third"}, log)
}

// --- Controller ordering ---

func TestControllerOrdersByKey(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	var log []string
	hi := recordingNode(a, c, "hi", &log)
	lo := recordingNode(a, c, "lo", &log)
	mid := recordingNode(a, c, "mid", &log)
	hi.SetNodeSortWeight(10)
	lo.SetNodeSortWeight(-3)
	mid.SetNodeSortWeight(2, 7)

	c.BroadcastNotification(StageOnRendering, &RenderParams{})
	assert.Equal(t, []string{"lo", "mid", "hi"}, log)

	for i := 1; i < c.Len(); i++ {
		prev, cur := c.Nodes()[i-1].SortKey(), c.Nodes()[i].SortKey()
		if cur.Less(prev) {
			t.Errorf("nodes[%d] key %v sorts before nodes[%d] key %v", i, cur, i-1, prev)
		}
	}
}

func TestReorderTravelsShortestDistance(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	var log []string
	x := recordingNode(a, c, "x", &log)
	y := recordingNode(a, c, "y", &log)
	z := recordingNode(a, c, "z", &log)
	for _, n := range []DrawableNode{x, y, z} {
		n.SetNodeSortWeight(5)
	}
	broadcast := func() []string {
		log = log[:0]
		c.BroadcastNotification(StageBeforeRender, &RenderParams{})
		return log
	}
	assert.Equal(t, []string{"x", "y", "z"}, broadcast())

	// a key that grows lands after every equal key
	x.SetNodeSortWeight(4)
	x.SetNodeSortWeight(5)
	assert.Equal(t, []string{"y", "z", "x"}, broadcast())

	// a key that shrinks lands before every equal key
	x.SetNodeSortWeight(6)
	x.SetNodeSortWeight(5)
	assert.Equal(t, []string{"x", "y", "z"}, broadcast())
}

func TestRandomReorderKeepsBroadcastSorted(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	a := NewArena()
	c := NewDrawNodeController(a)

	const n = 64
	nodes := make([]DrawableNode, n)
	var visited []int
	for i := range nodes {
		nodes[i] = a.NewNode(c)
		nodes[i].RegisterEventHandler(func(Stage, *RenderParams) { visited = append(visited, i) })
	}

	for round := 0; round < 1000; round++ {
		w := make([]int64, 1+rng.IntN(3))
		for j := range w {
			w[j] = int64(rng.IntN(11) - 5)
		}
		nodes[rng.IntN(n)].SetNodeSortWeight(w...)
		if round%20 != 0 {
			continue
		}

		visited = visited[:0]
		c.BroadcastNotification(StageBeforeRender, &RenderParams{})
		if len(visited) != n {
			t.Fatalf("round %d: visited %d nodes, want %d", round, len(visited), n)
		}
		seen := make(map[int]bool, n)
		for k, idx := range visited {
			if seen[idx] {
				t.Fatalf("round %d: node %d visited twice", round, idx)
			}
			seen[idx] = true
			if k > 0 {
				prev, cur := nodes[visited[k-1]].SortKey(), nodes[idx].SortKey()
				if cur.Less(prev) {
					t.Fatalf("round %d: key %v visited after %v", round, cur, prev)
				}
			}
		}
	}
}

func TestSetNodeSortWeightUnchangedKeyKeepsPosition(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	n1 := a.NewNodeWithKey(c, NewSortKey(1))
	n2 := a.NewNodeWithKey(c, NewSortKey(1))
	n1.SetNodeSortWeight(1)
	assert.Equal(t, []DrawableNode{n1, n2}, c.Nodes())
}

func TestNextPreviousNode(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	n1 := a.NewNodeWithKey(c, NewSortKey(1))
	n2 := a.NewNodeWithKey(c, NewSortKey(2))

	next, ok := n1.NextNode()
	require.True(t, ok)
	assert.Equal(t, n2, next)
	prev, ok := n2.PreviousNode()
	require.True(t, ok)
	assert.Equal(t, n1, prev)

	_, ok = n2.NextNode()
	assert.False(t, ok)
	_, ok = n1.PreviousNode()
	assert.False(t, ok)
}

func TestRebindControllerKeepsKey(t *testing.T) {
	a := NewArena()
	c1 := NewDrawNodeController(a)
	c2 := NewDrawNodeController(a)
	n := a.NewNodeWithKey(c1, NewSortKey(7))
	n.RebindController(c2)

	assert.Equal(t, 0, c1.Len())
	assert.Equal(t, 1, c2.Len())
	assert.Same(t, c2, n.Controller())
	assert.Equal(t, NewSortKey(7), n.SortKey())

	n.RebindController(nil)
	assert.Equal(t, 0, c2.Len())
	assert.Nil(t, n.Controller())
}

func TestDisposeNodeRemovesFromController(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	n := a.NewNode(c)
	n.DisposeNode()
	n.DisposeNode()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, a.Len())
}

func TestRegisterEventHandlerTwicePanics(t *testing.T) {
	a := NewArena()
	n := a.NewNode(nil)
	n.SetDebugLabel("twice")
	n.RegisterEventHandler(func(Stage, *RenderParams) {})
	assert.PanicsWithValue(t, `canopy: node "twice" already has an event handler`, func() {
		n.RegisterEventHandler(func(Stage, *RenderParams) {})
	})
}

// --- Broadcast ---

func TestBroadcastVisibilityFilter(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	var log []string
	recordingNode(a, c, "visible", &log)
	recordingNode(a, c, "invisible", &log).SetNodeVisibility(Invisible)
	recordingNode(a, c, "reserved", &log).SetNodeVisibility(NotificationReserved)

	tests := []struct {
		stage Stage
		want  []string
	}{
		{StageBeforeRender, []string{"visible"}},
		{StageOnRendering, []string{"visible"}},
		{StageNotification, []string{"visible", "reserved"}},
	}
	for _, tt := range tests {
		log = log[:0]
		c.BroadcastNotification(tt.stage, &RenderParams{})
		assert.Equal(t, tt.want, log, "stage %v", tt.stage)
	}
}

func TestBroadcastSnapshotSemantics(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	var log []string

	victim := a.NewNode(nil)
	var added DrawableNode
	first := a.NewNodeWithKey(c, NewSortKey(1))
	first.RegisterEventHandler(func(Stage, *RenderParams) {
		log = append(log, "first")
		victim.DisposeNode()
		if !added.Valid() {
			added = recordingNode(a, c, "added", &log)
		}
		// re-keying itself to the end must not revisit it
		first.SetNodeSortWeight(100)
	})
	victim.RebindController(c)
	victim.SetNodeSortWeight(2)
	victim.RegisterEventHandler(func(Stage, *RenderParams) { log = append(log, "victim") })
	last := recordingNode(a, c, "last", &log)
	last.SetNodeSortWeight(3)

	c.BroadcastNotification(StageBeforeRender, &RenderParams{})
	assert.Equal(t, []string{"first", "last"}, log)

	log = log[:0]
	c.BroadcastNotification(StageBeforeRender, &RenderParams{})
	assert.Equal(t, []string{"added", "last", "first"}, log)
}

func TestBroadcastSkipsNodesMovedAway(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	other := NewDrawNodeController(a)
	var log []string
	var second DrawableNode
	mover := a.NewNodeWithKey(c, NewSortKey(1))
	mover.RegisterEventHandler(func(Stage, *RenderParams) {
		log = append(log, "mover")
		second.RebindController(other)
	})
	second = recordingNode(a, c, "second", &log)
	second.SetNodeSortWeight(2)

	c.BroadcastNotification(StageBeforeRender, &RenderParams{})
	assert.Equal(t, []string{"mover"}, log)
}

func TestNestedBroadcastUsesSeparateSnapshots(t *testing.T) {
	a := NewArena()
	outer := NewDrawNodeController(a)
	inner := NewDrawNodeController(a)
	var log []string
	recordingNode(a, inner, "inner", &log)
	n := a.NewNode(outer)
	n.RegisterEventHandler(func(stage Stage, p *RenderParams) {
		log = append(log, "outer")
		inner.BroadcastNotification(stage, p)
	})
	recordingNode(a, outer, "after", &log)

	outer.BroadcastNotification(StageOnRendering, &RenderParams{})
	assert.Equal(t, []string{"outer", "inner", "after"}, log)
}

func TestControllerCloseDetachesNodes(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	n := a.NewNode(c)
	c.Close()
	assert.Equal(t, 0, c.Len())
	assert.True(t, n.Valid())
	assert.Nil(t, n.Controller())
}

func TestParentViewport(t *testing.T) {
	a := NewArena()
	c := NewDrawNodeController(a)
	info := ViewportInfo{Bound: Rect{1, 2, 3, 4}, Origin: Point{5, 6}}
	c.SetViewportInfo(info)
	n := a.NewNode(c)
	assert.Equal(t, info, n.ParentViewport())
	n.RebindController(nil)
	assert.Equal(t, ViewportInfo{}, n.ParentViewport())
}

func TestStageString(t *testing.T) {
	tests := []struct {
		s    Stage
		want string
	}{
		{StageBeforeRender, "before-render"},
		{StageOnRendering, "on-rendering"},
		{StageNotification, "notification"},
		{Stage(9), "stage(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
