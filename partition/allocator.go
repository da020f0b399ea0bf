package partition

// Allocator hands out monotonically increasing chunk ids starting at
// 1. It is passed by reference through the driver instead of living
// behind a package-level counter, so running the driver twice
// concurrently (or in tests) never shares state.
type Allocator struct {
	next int
}

// NewAllocator returns an allocator whose first Next() call returns 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1}
}

// Next returns the next unused chunk id.
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}
