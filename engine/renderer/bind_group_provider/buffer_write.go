package bind_group_provider

import "fmt"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Validate checks the write against the provider's staged uniform size.
//
// Returns:
//   - error: non-nil if the provider is missing, the binding is not a staged uniform,
//     or the write would run past the end of the buffer
func (w BufferWrite) Validate() error {
	if w.Provider == nil {
		return fmt.Errorf("buffer write to binding %d has no provider", w.Binding)
	}
	size, ok := w.Provider.UniformSize(w.Binding)
	if !ok {
		return fmt.Errorf("provider %s has no uniform at binding %d", w.Provider.Label(), w.Binding)
	}
	if end := w.Offset + uint64(len(w.Data)); end > size {
		return fmt.Errorf("write of %d bytes at offset %d overflows %d-byte uniform %s/%d",
			len(w.Data), w.Offset, size, w.Provider.Label(), w.Binding)
	}
	return nil
}
