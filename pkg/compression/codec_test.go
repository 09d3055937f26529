package compression_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsvibes/ets-vibes/pkg/compression"
)

const sampleSave = `SiiNunit
{
economy : _nameless.1a2b.3c4d {
 money_account: 1234567
 experience_points: 8900
}
}
`

var testIV = []byte("0123456789abcdef")

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, compression.FormatEncrypted, compression.Detect([]byte("ScsC....")))
	assert.Equal(t, compression.FormatBinary, compression.Detect([]byte("BSII....")))
	assert.Equal(t, compression.FormatText, compression.Detect([]byte(sampleSave)))
	assert.Equal(t, compression.FormatUnknown, compression.Detect([]byte("ab")))
	assert.Equal(t, "ScsC", compression.FormatEncrypted.String())
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	c := compression.NewCodec(compression.WithRandom(bytes.NewReader(testIV)))

	data, err := c.Encode(sampleSave)
	require.NoError(t, err)

	require.Equal(t, compression.FormatEncrypted, compression.Detect(data))
	assert.Equal(t, testIV, data[36:52])
	assert.Equal(t, uint32(len(sampleSave)), binary.LittleEndian.Uint32(data[52:56]))
	assert.Zero(t, (len(data)-56)%16)

	mac := hmac.New(sha256.New, keyForTest())
	mac.Write(data[36:52])
	mac.Write(data[56:])
	assert.Equal(t, mac.Sum(nil), data[4:36])

	got, err := compression.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, sampleSave, got)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input []byte
		err   error
	}{
		"too small": {
			input: []byte("Sc"),
			err:   compression.ErrTooSmall,
		},
		"truncated container": {
			input: append([]byte("ScsC"), make([]byte, 20)...),
			err:   compression.ErrTruncated,
		},
		"binary": {
			input: []byte("BSII\x00\x01\x02"),
			err:   compression.ErrBinaryUnsupported,
		},
		"unknown binary": {
			input: []byte{0xff, 0xfe, 0x00, 0x81, 0x82},
			err:   compression.ErrUnknownFormat,
		},
		"garbage ciphertext": {
			input: append(append([]byte("ScsC"), make([]byte, 52)...), bytes.Repeat([]byte{0x42}, 32)...),
			err:   compression.ErrDecompress,
		},
		"invalid utf-8 text": {
			input: []byte("SiiN\xff\xfe\n"),
			err:   compression.ErrUnknownFormat,
		},
		"invalid utf-8 payload": {
			input: sealForTest(t, padForTest(deflateForTest(t, "SiiNunit\n\xff\xfe\n"))),
			err:   compression.ErrDecompress,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := compression.Decode(tc.input)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDecodePlainText(t *testing.T) {
	t.Parallel()

	got, err := compression.Decode([]byte(sampleSave))
	require.NoError(t, err)
	assert.Equal(t, sampleSave, got)

	got, err = compression.Decode([]byte("money_account: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, "money_account: 5\n", got)
}

func TestDecodeMaxSize(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("x", 4096)

	data, err := compression.Encode(content)
	require.NoError(t, err)

	_, err = compression.NewCodec(compression.WithMaxSize(1024)).Decode(data)
	require.ErrorIs(t, err, compression.ErrTooLarge)

	got, err := compression.NewCodec(compression.WithMaxSize(4096)).Decode(data)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	got, err = compression.NewCodec(compression.WithMaxSize(0)).Decode(data)
	require.NoError(t, err)
	assert.Len(t, got, 4096)
}

func TestDecodeTrailingPadding(t *testing.T) {
	t.Parallel()

	compressed := deflateForTest(t, sampleSave)

	tcs := map[string][]byte{
		"pkcs7":      padForTest(compressed),
		"full block": append(padForTest(compressed), bytes.Repeat([]byte{0x10}, 16)...),
		"garbage":    append(padForTest(compressed), bytes.Repeat([]byte{0xee}, 32)...),
	}

	for name, plain := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := compression.Decode(sealForTest(t, plain))
			require.NoError(t, err)
			assert.Equal(t, sampleSave, got)
		})
	}
}

func TestDecodeShortCiphertext(t *testing.T) {
	t.Parallel()

	// One spare block after the padded stream absorbs the damage from
	// zero-filling the final ciphertext block.
	plain := append(padForTest(deflateForTest(t, sampleSave)), bytes.Repeat([]byte{0x10}, 16)...)
	data := sealForTest(t, plain)

	for trim := 1; trim < aes.BlockSize; trim++ {
		got, err := compression.Decode(data[:len(data)-trim])
		require.NoError(t, err, "trimmed %d bytes", trim)
		assert.Equal(t, sampleSave, got, "trimmed %d bytes", trim)
	}
}

func deflateForTest(t *testing.T, content string) []byte {
	t.Helper()

	var buf bytes.Buffer

	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func padForTest(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize

	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

// sealForTest encrypts a block-aligned plaintext into an ScsC container. The
// HMAC is left zeroed since decoding does not verify it.
func sealForTest(t *testing.T, plain []byte) []byte {
	t.Helper()

	block, err := aes.NewCipher(keyForTest())
	require.NoError(t, err)

	encrypted := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, testIV).CryptBlocks(encrypted, plain)

	data := append([]byte("ScsC"), make([]byte, 32)...)
	data = append(data, testIV...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(plain)))

	return append(data, encrypted...)
}

func keyForTest() []byte {
	return []byte{
		0x2a, 0x5f, 0xcb, 0x17, 0x91, 0xd2, 0x2f, 0xb6,
		0x02, 0x45, 0xb3, 0xd8, 0x36, 0x9e, 0xd0, 0xb2,
		0xc2, 0x73, 0x71, 0x56, 0x3f, 0xbf, 0x1f, 0x3c,
		0x9e, 0xdf, 0x6b, 0x11, 0x82, 0x5a, 0x5d, 0x0a,
	}
}
