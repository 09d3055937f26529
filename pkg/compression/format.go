package compression

import "bytes"

// Format identifies the container of a save payload.
type Format int

const (
	FormatUnknown Format = iota
	FormatEncrypted
	FormatBinary
	FormatText
)

var (
	magicEncrypted = []byte("ScsC")
	magicBinary    = []byte("BSII")
	magicText      = []byte("SiiN")
)

const magicSize = 4

func (f Format) String() string {
	switch f {
	case FormatEncrypted:
		return "ScsC"
	case FormatBinary:
		return "BSII"
	case FormatText:
		return "SiiN"
	case FormatUnknown:
	}

	return "unknown"
}

// Detect reports the [Format] of data from its magic bytes.
func Detect(data []byte) Format {
	if len(data) < magicSize {
		return FormatUnknown
	}

	switch magic := data[:magicSize]; {
	case bytes.Equal(magic, magicEncrypted):
		return FormatEncrypted
	case bytes.Equal(magic, magicBinary):
		return FormatBinary
	case bytes.Equal(magic, magicText):
		return FormatText
	}

	return FormatUnknown
}
