// Package device models the accelerator memory domain.
//
// Data living in a Device is reachable only through explicit transfers
// (CopyFromHost, CopyToHost) or by kernels that run on the device itself.
// The implementation here simulates the domain in process memory, which
// keeps the host/device split a checked property of the types rather than
// a calling convention; an actual accelerator binding would implement the
// same surface on top of its runtime's alloc/memcpy primitives.
//
// A Device tracks its allocations. Close fails while allocations are
// live, so leaks surface in tests instead of silently accumulating.
package device

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var (
	// ErrOutOfMemory is returned when an allocation exceeds the device
	// capacity.
	ErrOutOfMemory = errors.New("device: out of memory")
	// ErrClosed is returned for operations on a closed device.
	ErrClosed = errors.New("device: closed")
	// ErrFreed is returned for operations on freed memory.
	ErrFreed = errors.New("device: buffer freed")
	// ErrSizeMismatch is returned when a transfer's host length does not
	// match the device buffer length.
	ErrSizeMismatch = errors.New("device: transfer size mismatch")
	// ErrNotOwner is returned when Free is called on a region view.
	ErrNotOwner = errors.New("device: buffer is a region view, not an allocation")
)

// Word constrains the element types device memory can hold.
type Word interface {
	~uint8 | ~uint16 | ~int16
}

// Device is one accelerator memory domain. The zero value is not usable;
// call New or NewWithCapacity.
//
// Allocation and free are safe for concurrent use. Buffer contents carry
// no internal synchronization; callers sequence kernels and transfers.
type Device struct {
	mu       sync.Mutex
	capacity int // bytes, 0 means unlimited
	live     int // bytes currently allocated
	allocs   int // live allocation count
	closed   bool
}

// New returns a device with unlimited capacity.
func New() *Device {
	return &Device{}
}

// NewWithCapacity returns a device that fails allocations once more than
// capacity bytes are live. Used to model finite accelerator memory.
func NewWithCapacity(capacity int) *Device {
	return &Device{capacity: capacity}
}

// LiveBytes reports the number of device bytes currently allocated.
func (d *Device) LiveBytes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// LiveAllocs reports the number of live allocations.
func (d *Device) LiveAllocs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allocs
}

// Close shuts the device down. It fails if allocations are still live.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.allocs != 0 {
		return fmt.Errorf("device: close with %d live allocations (%d bytes)", d.allocs, d.live)
	}
	d.closed = true
	return nil
}

func (d *Device) reserve(bytes int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if d.capacity > 0 && d.live+bytes > d.capacity {
		return fmt.Errorf("%w: %d bytes requested, %d of %d live", ErrOutOfMemory, bytes, d.live, d.capacity)
	}
	d.live += bytes
	d.allocs++
	return nil
}

func (d *Device) release(bytes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.live -= bytes
	d.allocs--
}

// Buffer is device-resident storage for n elements of type T.
type Buffer[T Word] struct {
	dev   *Device
	data  []T
	owner bool
	freed bool
}

// Alloc allocates n elements of type T on the device. Contents are zeroed.
func Alloc[T Word](d *Device, n int) (*Buffer[T], error) {
	if n <= 0 {
		return nil, fmt.Errorf("device: invalid allocation size %d", n)
	}
	if err := d.reserve(n * sizeOf[T]()); err != nil {
		return nil, err
	}
	return &Buffer[T]{dev: d, data: make([]T, n), owner: true}, nil
}

func sizeOf[T Word]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// Len reports the buffer length in elements.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Region returns a view of n elements starting at off. The view shares the
// allocation and must not be freed.
func (b *Buffer[T]) Region(off, n int) *Buffer[T] {
	return &Buffer[T]{dev: b.dev, data: b.data[off : off+n]}
}

// Data exposes the device-resident elements. Only kernel implementations
// running on the same device may touch this; host code uses transfers.
func (b *Buffer[T]) Data() []T { return b.data }

// CopyFromHost transfers src from host memory into the buffer.
// len(src) must equal the buffer length.
func (b *Buffer[T]) CopyFromHost(src []T) error {
	if b.freed {
		return ErrFreed
	}
	if len(src) != len(b.data) {
		return fmt.Errorf("%w: host %d elements, device %d", ErrSizeMismatch, len(src), len(b.data))
	}
	copy(b.data, src)
	return nil
}

// CopyToHost transfers the buffer into dst in host memory.
// len(dst) must equal the buffer length.
func (b *Buffer[T]) CopyToHost(dst []T) error {
	if b.freed {
		return ErrFreed
	}
	if len(dst) != len(b.data) {
		return fmt.Errorf("%w: host %d elements, device %d", ErrSizeMismatch, len(dst), len(b.data))
	}
	copy(dst, b.data)
	return nil
}

// Free releases the allocation. Freeing a region view or freeing twice is
// an error.
func (b *Buffer[T]) Free() error {
	if !b.owner {
		return ErrNotOwner
	}
	if b.freed {
		return ErrFreed
	}
	b.dev.release(len(b.data) * sizeOf[T]())
	b.freed = true
	b.data = nil
	return nil
}
