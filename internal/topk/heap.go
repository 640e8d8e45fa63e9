// Package topk keeps every inserted item in a binary max-heap and
// returns the K largest on demand, repurposed from a generic priority queue originally
// built for a SentencePiece merge frontier, for a different job:
// picking the heaviest files out of a `kimitok scan` run without
// sorting the whole result set.
package topk

// Heap is a generic priority queue backed by a binary max-heap, ordered
// by cmp(a, b): cmp(a, b) > 0 means a sorts above b.
type Heap[T any] struct {
	cmp   func(a, b T) int
	items []T
}

// New creates an empty heap. sizeHint preallocates capacity.
func New[T any](sizeHint int, cmp func(a, b T) int) *Heap[T] {
	return &Heap[T]{cmp: cmp, items: make([]T, 1, max(1, sizeHint+1))}
}

// Len returns the number of items in the heap.
func (h *Heap[T]) Len() int {
	return len(h.items) - 1
}

// Insert adds elem to the heap.
func (h *Heap[T]) Insert(elem T) {
	h.items = append(h.items, elem)
	h.siftup(len(h.items) - 1)
}

// PopMax removes and returns the highest-priority item.
func (h *Heap[T]) PopMax() T {
	if len(h.items) < 2 {
		panic("popping from empty heap")
	}
	top := h.items[1]
	h.items[1] = h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	h.siftdown(1)
	return top
}

// Top returns the K highest-priority items inserted so far, in
// descending order, without mutating the heap.
func (h *Heap[T]) Top(k int) []T {
	if k > h.Len() {
		k = h.Len()
	}
	scratch := &Heap[T]{cmp: h.cmp, items: append([]T(nil), h.items...)}
	out := make([]T, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, scratch.PopMax())
	}
	return out
}

func (h *Heap[T]) siftup(n int) {
	i := n
	for {
		if i == 1 {
			return
		}
		p := i / 2
		if h.cmp(h.items[p], h.items[i]) >= 0 {
			return
		}
		h.items[i], h.items[p] = h.items[p], h.items[i]
		i = p
	}
}

func (h *Heap[T]) siftdown(i int) {
	for {
		c := 2 * i
		if c >= len(h.items) {
			return
		}
		maxChild := c
		if c+1 < len(h.items) {
			if h.cmp(h.items[c+1], h.items[c]) > 0 {
				maxChild = c + 1
			}
		}
		if h.cmp(h.items[i], h.items[maxChild]) >= 0 {
			return
		}
		h.items[i], h.items[maxChild] = h.items[maxChild], h.items[i]
		i = maxChild
	}
}
