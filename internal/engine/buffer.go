package engine

// Float32Buffer is a growable vertex buffer. Its backing array is kept
// across frames; Floats only ever exposes the prefix written for the
// current frame.
type Float32Buffer struct {
	data []float32
	n    int
}

// Reserve makes room for size floats and resets the valid length to zero.
// The returned slice has length size and aliases the backing array.
func (b *Float32Buffer) Reserve(size int) []float32 {
	if size > cap(b.data) {
		newCap := max(size, 2*cap(b.data))
		b.data = make([]float32, newCap)
	}
	b.data = b.data[:cap(b.data)]
	b.n = 0
	return b.data[:size]
}

// SetLen marks the first n floats as valid.
func (b *Float32Buffer) SetLen(n int) {
	b.n = min(n, len(b.data))
}

// Floats returns the valid prefix.
func (b *Float32Buffer) Floats() []float32 {
	return b.data[:b.n]
}

func (b *Float32Buffer) Len() int { return b.n }
func (b *Float32Buffer) Cap() int { return cap(b.data) }
