package ecs

import "unsafe"

// Column is a type-erased, growable, contiguous store for one component's
// values within one archetype. It owns a raw byte buffer whose element
// size and alignment are known only at runtime, mirroring
// delaneyj-arche's per-archetype reflect.Value buffers but without
// requiring a reflect.Type: the registry hands this package only
// (size, align, drop), so storage is managed as raw aligned bytes
// instead of a typed reflect array.
type Column struct {
	componentIdx ComponentIdx
	layout       Layout
	drop         DropFn

	raw  []byte // backing allocation; keeps base reachable for the GC
	base unsafe.Pointer
	len  uint32
	cap  uint32
}

// zeroSizedSentinel is the well-aligned dangling base address returned
// for zero-sized components, whose columns never allocate.
var zeroSizedSentinel struct{}

// NewColumn creates an empty, zero-capacity column for componentIdx with
// the given layout and drop function.
func NewColumn(componentIdx ComponentIdx, layout Layout, drop DropFn) *Column {
	c := &Column{componentIdx: componentIdx, layout: layout, drop: drop}
	if layout.Size == 0 {
		c.base = unsafe.Pointer(&zeroSizedSentinel)
	}
	return c
}

// ComponentIdx returns the component index this column stores.
func (c *Column) ComponentIdx() ComponentIdx { return c.componentIdx }

// ElemLayout returns the column's element layout.
func (c *Column) ElemLayout() Layout { return c.layout }

// Len returns the number of elements currently stored.
func (c *Column) Len() uint32 { return c.len }

// Cap returns the column's current capacity.
func (c *Column) Cap() uint32 { return c.cap }

// AsPtr returns the column's current base address. The address may
// change on any Push that triggers reallocation; callers must not cache
// it across a mutation without observing a RefreshPointers notification.
func (c *Column) AsPtr() unsafe.Pointer { return c.base }

func (c *Column) elemPtr(i uint32) unsafe.Pointer {
	if c.layout.Size == 0 {
		return c.base
	}
	return unsafe.Add(c.base, uintptr(i)*c.layout.Size)
}

// Push grows the column if it is full and returns an aligned,
// uninitialised slot for the caller to write into. Growth multiplies
// capacity by Config.growthFactor (2, i.e. doubling, unless changed with
// SetGrowthFactor), starting from Config.initialColumnCapacity for
// nonzero-size elements. Zero-sized elements never allocate; their
// capacity is effectively unbounded.
func (c *Column) Push() unsafe.Pointer {
	if c.layout.Size == 0 {
		c.len++
		return c.base
	}
	if c.len >= c.cap {
		c.grow()
	}
	ptr := c.elemPtr(c.len)
	c.len++
	return ptr
}

func (c *Column) grow() {
	newCap := c.cap * Config.growthFactor
	if newCap == 0 {
		newCap = Config.initialColumnCapacity
	}
	c.reallocate(newCap)
}

// reallocate allocates a fresh, suitably aligned buffer of newCap
// elements and copies the live [0, len) elements into it. The new
// backing array is over-allocated by layout.Align-1 bytes and the base
// pointer is shifted forward to the first aligned byte, since make([]byte, n)
// only guarantees the allocator's default alignment.
func (c *Column) reallocate(newCap uint32) {
	size := c.layout.Size
	align := c.layout.Align
	if align == 0 {
		align = 1
	}
	total := uintptr(newCap)*size + align - 1
	raw := make([]byte, total)
	rawBase := unsafe.Pointer(&raw[0])
	aligned := (uintptr(rawBase) + align - 1) &^ (align - 1)
	base := unsafe.Add(rawBase, aligned-uintptr(rawBase))

	if c.len > 0 {
		oldBytes := unsafe.Slice((*byte)(c.base), uintptr(c.len)*size)
		newBytes := unsafe.Slice((*byte)(base), uintptr(c.len)*size)
		copy(newBytes, oldBytes)
	}
	c.raw = raw
	c.base = base
	c.cap = newCap
}

// SwapRemove runs the drop function on element i, then, if i is not the
// last element, byte-copies the last element over slot i and decrements
// the length. For zero-sized elements only the length changes.
func (c *Column) SwapRemove(i uint32) {
	debugAssert(i < c.len, "swap_remove: index out of range")
	if c.layout.Size == 0 {
		if c.drop != nil {
			c.drop(c.base)
		}
		c.len--
		return
	}
	ptr := c.elemPtr(i)
	if c.drop != nil {
		c.drop(ptr)
	}
	last := c.len - 1
	if i != last {
		c.copyElem(c.elemPtr(last), ptr)
	}
	c.len--
}

// TransferElem byte-moves element i out of c into a freshly pushed slot
// at the end of other (no drop runs on the moved bytes — ownership
// transfers), then removes slot i from c without running its drop,
// since ownership of the value already transferred. Both columns must
// share the same layout.
func (c *Column) TransferElem(other *Column, i uint32) {
	debugAssert(i < c.len, "transfer_elem: index out of range")
	debugAssert(c.layout == other.layout, "transfer_elem: mismatched layouts")

	dst := other.Push()
	if c.layout.Size > 0 {
		c.copyElem(c.elemPtr(i), dst)
	}
	c.removeNoDrop(i)
}

// removeNoDrop is SwapRemove without invoking the drop function, used
// only by TransferElem once ownership of the element's bytes has already
// moved to another column.
func (c *Column) removeNoDrop(i uint32) {
	if c.layout.Size == 0 {
		c.len--
		return
	}
	last := c.len - 1
	if i != last {
		c.copyElem(c.elemPtr(last), c.elemPtr(i))
	}
	c.len--
}

// Get returns a pointer to element i, for callers that need to read or
// write a stored value in place.
func (c *Column) Get(i uint32) unsafe.Pointer {
	debugAssert(i < c.len, "get: index out of range")
	return c.elemPtr(i)
}

func (c *Column) copyElem(src, dst unsafe.Pointer) {
	size := c.layout.Size
	srcBytes := unsafe.Slice((*byte)(src), size)
	dstBytes := unsafe.Slice((*byte)(dst), size)
	copy(dstBytes, srcBytes)
}

// ShrinkToFit releases excess capacity, reallocating to exactly Len
// elements (never below 1 for nonzero-size columns with any history of
// allocation). It never deallocates the column itself, matching the
// supplemented ShrinkToFit operation from SPEC_FULL.md §5.
func (c *Column) ShrinkToFit() {
	if c.layout.Size == 0 || c.cap == c.len {
		return
	}
	newCap := c.len
	if newCap == 0 {
		newCap = 1
	}
	if newCap == c.cap {
		return
	}
	c.reallocate(newCap)
}
