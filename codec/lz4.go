package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// LZ4 is an LZ4 block codec (fast, moderate ratio).
type LZ4 struct{}

// Name implements Codec.
func (LZ4) Name() string { return "lz4" }

// Method implements Codec.
func (LZ4) Method() byte { return MethodLZ4 }

// CompressBlock implements Codec. Incompressible input is stored as a raw
// LZ4 literal block, so output never fails for lack of compressibility.
func (LZ4) CompressBlock(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}
	bound := lz4.CompressBlockBound(len(src))
	buf := make([]byte, bound)
	n, err := lz4.CompressBlock(src, buf, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Incompressible. Emit a literal-only block so decompression still
		// round-trips.
		return appendLiteralBlock(dst, src), nil
	}
	return append(dst, buf[:n]...), nil
}

// appendLiteralBlock frames src as a single LZ4 literal sequence with no
// match part, which is a valid final sequence in the block format.
func appendLiteralBlock(dst, src []byte) []byte {
	n := len(src)
	if n >= 15 {
		dst = append(dst, 0xF0)
		for r := n - 15; ; r -= 255 {
			if r < 255 {
				dst = append(dst, byte(r))
				break
			}
			dst = append(dst, 255)
		}
	} else {
		dst = append(dst, byte(n)<<4)
	}
	return append(dst, src...)
}

// DecompressBlock implements Codec.
func (LZ4) DecompressBlock(dst, src []byte, uncompressedSize int) ([]byte, error) {
	if len(src) == 0 && uncompressedSize == 0 {
		return dst, nil
	}
	buf := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, buf)
	if err != nil {
		return nil, err
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("%w: got %d bytes, declared %d", ErrSizeMismatch, n, uncompressedSize)
	}
	return append(dst, buf[:n]...), nil
}
