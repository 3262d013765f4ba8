package intrusive

import (
	"math/rand"
	"sort"
	"testing"
)

type testNode struct {
	value     int
	heapIndex int
}

func TestHeapOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	h := NewHeap(func(a, b *testNode) bool { return a.value < b.value }, 0)
	var nodes []*testNode
	for i := 0; i < 1000; i++ {
		node := &testNode{value: rnd.Intn(100)}
		nodes = append(nodes, node)
		if !h.Insert(node, &node.heapIndex) {
			t.Fatal("insert of new node must succeed")
		}
		if h.Insert(node, &node.heapIndex) {
			t.Fatal("double insert must fail")
		}
	}
	// erase a random third
	for i := 0; i < 300; i++ {
		j := rnd.Intn(len(nodes))
		node := nodes[j]
		nodes = append(nodes[:j], nodes[j+1:]...)
		if !h.Erase(node, &node.heapIndex) {
			t.Fatal("erase of inserted node must succeed")
		}
		if h.Erase(node, &node.heapIndex) {
			t.Fatal("double erase must fail")
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].value < nodes[j].value })
	for _, expected := range nodes {
		got := h.Front()
		if got.value != expected.value {
			t.Fatalf("front %d, expected %d", got.value, expected.value)
		}
		h.PopFront()
		if got.heapIndex != 0 {
			t.Fatal("popped node must have zero heap index")
		}
	}
	if h.Len() != 0 {
		t.Fatalf("heap must be empty, %d left", h.Len())
	}
}
