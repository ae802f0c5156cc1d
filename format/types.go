package format

type (
	TableMode       uint8
	CompressionType uint8
)

const (
	// TableHierarchical reads pointer words until the first zero word; the
	// zero terminator is not part of the table.
	TableHierarchical TableMode = 0x1
	// TableNonHierarchical skips exactly one leading zero word (a reserved
	// slot) and then reads pointer words until the next zero word.
	TableNonHierarchical TableMode = 0x2

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionZlib CompressionType = 0x5 // CompressionZlib represents zlib/DEFLATE compression.
)

func (m TableMode) String() string {
	switch m {
	case TableHierarchical:
		return "Hierarchical"
	case TableNonHierarchical:
		return "NonHierarchical"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a user-facing name (as accepted by the mrx CLI)
// to a CompressionType. Returns false for unknown names.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "zlib":
		return CompressionZlib, true
	default:
		return 0, false
	}
}
