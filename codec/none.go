package codec

import "fmt"

// None is the pass-through codec: compressed bytes are the source bytes,
// verbatim. Decompression validates that the declared uncompressed size
// equals the stored size before copying.
type None struct{}

// Name implements Codec.
func (None) Name() string { return "none" }

// Method implements Codec.
func (None) Method() byte { return MethodNone }

// CompressBlock implements Codec.
func (None) CompressBlock(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// DecompressBlock implements Codec.
func (None) DecompressBlock(dst, src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) != uncompressedSize {
		return nil, fmt.Errorf("%w: have %d bytes, declared %d", ErrSizeMismatch, len(src), uncompressedSize)
	}
	return append(dst, src...), nil
}
