package device

// Staged is a buffer mirrored in host and device memory. The two copies
// are reconciled only by explicit sync calls, so a read of Host after a
// device-side write is stale until SyncToHost runs. Making the sync an
// operation of the type keeps the pipeline's ordering requirement visible
// at the call site.
type Staged[T Word] struct {
	// Host is the host-resident copy.
	Host []T

	dev *Buffer[T]
}

// AllocStaged allocates n elements in both memory domains.
func AllocStaged[T Word](d *Device, n int) (*Staged[T], error) {
	buf, err := Alloc[T](d, n)
	if err != nil {
		return nil, err
	}
	return &Staged[T]{Host: make([]T, n), dev: buf}, nil
}

// Device returns the device-resident half.
func (s *Staged[T]) Device() *Buffer[T] { return s.dev }

// Len reports the length in elements.
func (s *Staged[T]) Len() int { return len(s.Host) }

// SyncToHost copies the device contents over the host copy in one bulk
// transfer.
func (s *Staged[T]) SyncToHost() error {
	return s.dev.CopyToHost(s.Host)
}

// SyncToDevice copies the host contents over the device copy.
func (s *Staged[T]) SyncToDevice() error {
	return s.dev.CopyFromHost(s.Host)
}

// Free releases the device half. The host copy is left to the garbage
// collector.
func (s *Staged[T]) Free() error {
	return s.dev.Free()
}
