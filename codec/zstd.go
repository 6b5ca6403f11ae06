package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// ZSTD is a ZSTD block codec (better ratio than LZ4, still fast).
type ZSTD struct{}

// Name implements Codec.
func (ZSTD) Name() string { return "zstd" }

// Method implements Codec.
func (ZSTD) Method() byte { return MethodZSTD }

// CompressBlock implements Codec.
func (ZSTD) CompressBlock(dst, src []byte) ([]byte, error) {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(src, dst), nil
}

// DecompressBlock implements Codec.
func (ZSTD) DecompressBlock(dst, src []byte, uncompressedSize int) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)

	mark := len(dst)
	out, err := dec.DecodeAll(src, dst)
	if err != nil {
		return nil, err
	}
	if got := len(out) - mark; got != uncompressedSize {
		return nil, fmt.Errorf("%w: got %d bytes, declared %d", ErrSizeMismatch, got, uncompressedSize)
	}
	return out, nil
}
