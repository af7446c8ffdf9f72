// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/jacs-foundation/jacs/lib/codec"
	"github.com/jacs-foundation/jacs/lib/schema"
)

// Bundle framing: a fixed header followed by a deterministic-CBOR
// payload holding the envelopes.
//
//	offset 0: magic "JACB" (4 bytes)
//	offset 4: format version (1 byte)
//	offset 5: compression tag (1 byte)
//	offset 6: uncompressed payload length, big-endian uint32 (4 bytes)
//	offset 10: payload (compressed per the tag)
//
// These values are protocol constants — changing them breaks bundle
// compatibility.
const (
	bundleMagic   = "JACB"
	bundleVersion = 1
	headerSize    = 10
)

// CompressionTag identifies the compression algorithm used for a
// bundle payload. The tag is stored in the bundle header (1 byte).
type CompressionTag uint8

const (
	// CompressionNone indicates an uncompressed payload. Also the
	// fallback when the payload turns out to be incompressible.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 indicates LZ4 block compression. Fast default
	// for bundles of mixed or binary artifacts.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd indicates zstd compression at level 3. Better
	// ratios for the JSON-heavy payloads typical of envelope chains.
	CompressionZstd CompressionTag = 2
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses a compression tag from its string
// representation.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// errIncompressible signals that compression did not reduce the
// payload size. Export falls back to CompressionNone.
var errIncompressible = errors.New("provenance: payload is incompressible")

// ErrBadBundle is returned by Import when the input is not a valid
// bundle: wrong magic, unsupported version, truncated header, or a
// payload that does not match its declared length.
var ErrBadBundle = errors.New("provenance: malformed bundle")

// bundlePayload is the CBOR shape of a bundle's payload.
type bundlePayload struct {
	Envelopes []*schema.Envelope `cbor:"1,keyasint"`
}

// Export serializes envelopes into a bundle, compressing the payload
// with the requested algorithm. When the payload is incompressible
// the bundle is written uncompressed and the header tag reflects
// that, so the caller's choice is a ceiling, not a guarantee.
func Export(envelopes []*schema.Envelope, tag CompressionTag) ([]byte, error) {
	if len(envelopes) == 0 {
		return nil, errors.New("provenance: bundle needs at least one envelope")
	}

	payload, err := codec.Marshal(bundlePayload{Envelopes: envelopes})
	if err != nil {
		return nil, fmt.Errorf("provenance: encoding bundle payload: %w", err)
	}
	if len(payload) > math.MaxUint32 {
		return nil, fmt.Errorf("provenance: bundle payload too large: %d bytes", len(payload))
	}

	compressed, err := compressPayload(payload, tag)
	if err != nil {
		if !errors.Is(err, errIncompressible) {
			return nil, err
		}
		compressed = payload
		tag = CompressionNone
	}

	bundle := make([]byte, headerSize+len(compressed))
	copy(bundle, bundleMagic)
	bundle[4] = bundleVersion
	bundle[5] = byte(tag)
	binary.BigEndian.PutUint32(bundle[6:10], uint32(len(payload)))
	copy(bundle[headerSize:], compressed)
	return bundle, nil
}

// Import parses a bundle produced by Export and returns its
// envelopes. Import validates only the framing; the envelopes still
// need ChainVerifier treatment before anything trusts them.
func Import(bundle []byte) ([]*schema.Envelope, error) {
	if len(bundle) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadBundle, len(bundle))
	}
	if string(bundle[:4]) != bundleMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrBadBundle)
	}
	if bundle[4] != bundleVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadBundle, bundle[4])
	}

	tag := CompressionTag(bundle[5])
	uncompressedSize := int(binary.BigEndian.Uint32(bundle[6:10]))
	payload, err := decompressPayload(bundle[headerSize:], tag, uncompressedSize)
	if err != nil {
		return nil, err
	}

	var decoded bundlePayload
	if err := codec.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", ErrBadBundle, err)
	}
	if len(decoded.Envelopes) == 0 {
		return nil, fmt.Errorf("%w: bundle holds no envelopes", ErrBadBundle)
	}
	return decoded.Envelopes, nil
}

func compressPayload(payload []byte, tag CompressionTag) ([]byte, error) {
	switch tag {
	case CompressionNone:
		return payload, nil
	case CompressionLZ4:
		return compressLZ4(payload)
	case CompressionZstd:
		return compressZstd(payload)
	default:
		return nil, fmt.Errorf("provenance: unsupported compression tag: %d", tag)
	}
}

func decompressPayload(compressed []byte, tag CompressionTag, uncompressedSize int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(compressed) != uncompressedSize {
			return nil, fmt.Errorf("%w: payload size %d does not match declared %d",
				ErrBadBundle, len(compressed), uncompressedSize)
		}
		return compressed, nil
	case CompressionLZ4:
		return decompressLZ4(compressed, uncompressedSize)
	case CompressionZstd:
		return decompressZstd(compressed, uncompressedSize)
	default:
		return nil, fmt.Errorf("%w: unsupported compression tag: %d", ErrBadBundle, tag)
	}
}

// LZ4 compression: block-mode LZ4.

func compressLZ4(data []byte) ([]byte, error) {
	bound := lz4.CompressBlockBound(len(data))
	destination := make([]byte, bound)

	written, err := lz4.CompressBlock(data, destination, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}

	// CompressBlock returns 0 when it determines the data is
	// incompressible. We also check whether the compressed output
	// is actually smaller than the input — if not, compression is
	// not worthwhile.
	if written == 0 || written >= len(data) {
		return nil, errIncompressible
	}

	return destination[:written], nil
}

func decompressLZ4(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, uncompressedSize)
	read, err := lz4.UncompressBlock(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 decompress: %v", ErrBadBundle, err)
	}
	if read != uncompressedSize {
		return nil, fmt.Errorf("%w: lz4 decompress: got %d bytes, expected %d",
			ErrBadBundle, read, uncompressedSize)
	}
	return destination, nil
}

// Zstd compression: level 3 (the "default" level — good ratio
// without excessive CPU).

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. zstd.Encoder and zstd.Decoder
// are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("provenance: zstd encoder initialization failed: " + err.Error())
	}

	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("provenance: zstd decoder initialization failed: " + err.Error())
	}
}

func compressZstd(data []byte) ([]byte, error) {
	compressed := zstdEncoder.EncodeAll(data, nil)
	if len(compressed) >= len(data) {
		return nil, errIncompressible
	}
	return compressed, nil
}

func decompressZstd(compressed []byte, uncompressedSize int) ([]byte, error) {
	destination := make([]byte, 0, uncompressedSize)
	result, err := zstdDecoder.DecodeAll(compressed, destination)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decompress: %v", ErrBadBundle, err)
	}
	if len(result) != uncompressedSize {
		return nil, fmt.Errorf("%w: zstd decompress: got %d bytes, expected %d",
			ErrBadBundle, len(result), uncompressedSize)
	}
	return result, nil
}
