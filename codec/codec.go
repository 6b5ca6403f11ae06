// Package codec provides block compression codecs for column data.
//
// Codecs compress and decompress raw byte blocks; they carry no framing of
// their own. The caller records the codec's method byte and the uncompressed
// size alongside the compressed bytes and supplies both on decompression.
package codec

import (
	"errors"
	"fmt"
)

// Method bytes are stable identifiers; they must never be renumbered.
const (
	// MethodNone identifies the pass-through codec.
	MethodNone byte = 0x02
	// MethodLZ4 identifies the LZ4 block codec.
	MethodLZ4 byte = 0x82
	// MethodZSTD identifies the ZSTD block codec.
	MethodZSTD byte = 0x90
)

// ErrSizeMismatch is returned when decompressed output does not match the
// declared uncompressed size.
var ErrSizeMismatch = errors.New("codec: uncompressed size mismatch")

// Codec compresses and decompresses byte blocks.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the codec's stable name.
	Name() string

	// Method returns the codec's stable method byte.
	Method() byte

	// CompressBlock compresses src, appending to dst, and returns the
	// extended buffer.
	CompressBlock(dst, src []byte) ([]byte, error)

	// DecompressBlock decompresses src, appending exactly uncompressedSize
	// bytes to dst, and returns the extended buffer.
	DecompressBlock(dst, src []byte, uncompressedSize int) ([]byte, error)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "none":
		return None{}, true
	case "lz4":
		return LZ4{}, true
	case "zstd":
		return ZSTD{}, true
	default:
		return nil, false
	}
}

// ByMethod returns a built-in codec by its stable method byte.
func ByMethod(method byte) (Codec, bool) {
	switch method {
	case MethodNone:
		return None{}, true
	case MethodLZ4:
		return LZ4{}, true
	case MethodZSTD:
		return ZSTD{}, true
	default:
		return nil, false
	}
}

// MustByName is ByName that panics on an unknown name. Intended for static
// configuration.
func MustByName(name string) Codec {
	c, ok := ByName(name)
	if !ok {
		panic(fmt.Errorf("codec: unknown codec %q", name))
	}
	return c
}
