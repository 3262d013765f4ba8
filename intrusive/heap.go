// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package intrusive

// Min-heap which stores its index inside the element, so Erase of an
// arbitrary element is O(log N) without a search. Index 0 means
// "not in a heap", storage slot i keeps index i+1.

type pair[T any] struct {
	ptr       *T
	heapIndex *int
}

type Heap[T any] struct {
	storage []pair[T]
	pred    func(*T, *T) bool // Less; front is the smallest element
}

func NewHeap[T any](pred func(*T, *T) bool, size int) *Heap[T] {
	return &Heap[T]{
		pred:    pred,
		storage: make([]pair[T], 0, size),
	}
}

func (h *Heap[T]) Len() int {
	return len(h.storage)
}

func (h *Heap[T]) Front() *T {
	return h.storage[0].ptr
}

func (h *Heap[T]) Insert(node *T, heapIndex *int) bool {
	if *heapIndex != 0 {
		return false
	}
	h.storage = append(h.storage, pair[T]{node, heapIndex})
	h.moveUp(len(h.storage) - 1)
	return true
}

func (h *Heap[T]) Erase(node *T, heapIndex *int) bool {
	if *heapIndex == 0 {
		return false
	}
	ind := *heapIndex - 1
	if h.storage[ind] != (pair[T]{node, heapIndex}) {
		// this is the caller's invariant, keep it to debug business logic
		panic("heap invariant violated")
	}
	*heapIndex = 0
	h.popBackToIndex(ind)
	if ind < len(h.storage) {
		h.adjust(ind)
	}
	return true
}

func (h *Heap[T]) PopFront() {
	*h.storage[0].heapIndex = 0
	h.popBackToIndex(0)
	if len(h.storage) > 0 {
		h.moveDown(0)
	}
}

func (h *Heap[T]) popBackToIndex(ind int) {
	h.storage[ind] = h.storage[len(h.storage)-1]
	h.storage[len(h.storage)-1] = pair[T]{nil, nil} // do not leave aliases
	h.storage = h.storage[:len(h.storage)-1]
}

func (h *Heap[T]) adjust(ind int) {
	if ind > 0 && h.pred(h.storage[ind].ptr, h.storage[(ind-1)/2].ptr) {
		h.moveUp(ind)
	} else {
		h.moveDown(ind)
	}
}

func (h *Heap[T]) moveDown(ind int) {
	size := len(h.storage)
	data := h.storage[ind]

	for {
		lc := ind*2 + 1
		if lc >= size {
			break
		}
		if lc+1 < size && !h.pred(h.storage[lc].ptr, h.storage[lc+1].ptr) {
			lc++
		}
		if !h.pred(h.storage[lc].ptr, data.ptr) {
			break
		}
		h.storage[ind] = h.storage[lc]
		*h.storage[ind].heapIndex = ind + 1
		ind = lc
	}
	h.storage[ind] = data
	*h.storage[ind].heapIndex = ind + 1
}

func (h *Heap[T]) moveUp(ind int) {
	data := h.storage[ind]

	for ind > 0 {
		p := (ind - 1) / 2
		if !h.pred(data.ptr, h.storage[p].ptr) {
			break
		}
		h.storage[ind] = h.storage[p]
		*h.storage[ind].heapIndex = ind + 1
		ind = p
	}
	h.storage[ind] = data
	*h.storage[ind].heapIndex = ind + 1
}
