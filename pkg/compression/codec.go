package compression

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
)

var (
	ErrTooSmall          = errors.New("file too small")
	ErrTruncated         = errors.New("ScsC file too short")
	ErrBinaryUnsupported = errors.New("binary format BSII not supported, use g_save_format 2")
	ErrUnknownFormat     = errors.New("unknown format")
	ErrDecrypt           = errors.New("AES decryption failed")
	ErrDecompress        = errors.New("zlib decompression failed")
	ErrTooLarge          = errors.New("decompressed save exceeds size limit")
	ErrEncode            = errors.New("encode failed")
)

const (
	hmacOffset = magicSize
	ivOffset   = hmacOffset + sha256.Size
	sizeOffset = ivOffset + aes.BlockSize
	headerSize = sizeOffset + 4

	maxPrealloc = 64 << 20

	// DefaultMaxSize bounds the inflated size of a single save.
	DefaultMaxSize int64 = 256 << 20
)

// key is the AES-256 key shared by ETS2 and ATS save containers.
var key = []byte{
	0x2a, 0x5f, 0xcb, 0x17, 0x91, 0xd2, 0x2f, 0xb6,
	0x02, 0x45, 0xb3, 0xd8, 0x36, 0x9e, 0xd0, 0xb2,
	0xc2, 0x73, 0x71, 0x56, 0x3f, 0xbf, 0x1f, 0x3c,
	0x9e, 0xdf, 0x6b, 0x11, 0x82, 0x5a, 0x5d, 0x0a,
}

// Codec decodes and encodes save payloads. Create instances with [NewCodec].
// The zero value is not usable.
type Codec struct {
	random  io.Reader
	maxSize int64
}

type CodecOpts func(*Codec)

// WithMaxSize bounds the inflated size of an ScsC payload. Values <= 0
// remove the bound.
func WithMaxSize(n int64) CodecOpts {
	return func(c *Codec) {
		c.maxSize = n
	}
}

// WithRandom sets the source of IVs used by [Codec.Encode].
func WithRandom(r io.Reader) CodecOpts {
	return func(c *Codec) {
		c.random = r
	}
}

func NewCodec(opts ...CodecOpts) *Codec {
	c := &Codec{
		random:  rand.Reader,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

var defaultCodec = NewCodec()

// Decode decodes data with the default [Codec].
func Decode(data []byte) (string, error) {
	return defaultCodec.Decode(data)
}

// Encode encodes content with the default [Codec].
func Encode(content string) ([]byte, error) {
	return defaultCodec.Encode(content)
}

// Decode returns the SII text held in data.
func (c *Codec) Decode(data []byte) (string, error) {
	if len(data) < magicSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}

	switch Detect(data) {
	case FormatEncrypted:
		return c.decrypt(data)
	case FormatBinary:
		return "", ErrBinaryUnsupported
	case FormatText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: SiiN payload is not valid UTF-8", ErrUnknownFormat)
		}

		return string(data), nil
	case FormatUnknown:
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w, magic: %q", ErrUnknownFormat, data[:magicSize])
	}

	return string(data), nil
}

func (c *Codec) decrypt(data []byte) (string, error) {
	if len(data) < headerSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	iv := data[ivOffset:sizeOffset]
	size := binary.LittleEndian.Uint32(data[sizeOffset:headerSize])

	encrypted := data[headerSize:]
	if rem := len(encrypted) % aes.BlockSize; rem != 0 {
		padded := make([]byte, len(encrypted)+aes.BlockSize-rem)
		copy(padded, encrypted)
		encrypted = padded
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecrypt, err)
	}

	plain := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, encrypted)

	slog.Debug("decrypted save container",
		slog.Int("encrypted_bytes", len(encrypted)),
		slog.Uint64("declared_size", uint64(size)),
	)

	// The zlib stream ends before the PKCS#7 padding, and bytes after the
	// stream's checksum are never read.
	return c.inflate(plain, size)
}

func (c *Codec) inflate(data []byte, sizeHint uint32) (string, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecompress, err)
	}
	defer func() {
		err := zr.Close()
		if err != nil {
			slog.Debug("failed to close zlib reader", slog.Any("err", err))
		}
	}()

	limit := int64(math.MaxInt64)
	if c.maxSize > 0 {
		limit = c.maxSize
	}

	buf := bytes.NewBuffer(make([]byte, 0, min(int64(sizeHint), limit, maxPrealloc)))

	n, err := io.Copy(buf, io.LimitReader(zr, limit))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecompress, err)
	}

	if n == limit && c.maxSize > 0 {
		// Anything left past the limit means the payload is too large.
		extra, _ := io.CopyN(io.Discard, zr, 1)
		if extra > 0 {
			return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, c.maxSize)
		}
	}

	if !utf8.Valid(buf.Bytes()) {
		return "", fmt.Errorf("%w: payload is not valid UTF-8", ErrDecompress)
	}

	return buf.String(), nil
}

// Encode wraps content in an ScsC container.
func (c *Codec) Encode(content string) ([]byte, error) {
	data := []byte(content)
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: content too large", ErrEncode)
	}

	var compressed bytes.Buffer

	zw, err := zlib.NewWriterLevel(&compressed, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return nil, fmt.Errorf("%w: read IV: %w", ErrEncode, err)
	}

	pad := aes.BlockSize - compressed.Len()%aes.BlockSize
	padded := append(compressed.Bytes(), bytes.Repeat([]byte{byte(pad)}, pad)...)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	encrypted := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(encrypted, padded)

	mac := hmac.New(sha256.New, key)
	mac.Write(iv)
	mac.Write(encrypted)

	out := make([]byte, 0, headerSize+len(encrypted))
	out = append(out, magicEncrypted...)
	out = mac.Sum(out)
	out = append(out, iv...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(data)))
	out = append(out, encrypted...)

	return out, nil
}
