package format

// On-disk constants of the MIRAX index file. The word stream starts at a
// descriptor-supplied header offset and consists of 4-byte little-endian
// signed integers from there to end of file.
const (
	// WordSize is the size in bytes of one index word.
	WordSize = 4

	// AbsentSentinel is the reserved page-size value marking a
	// non-hierarchical section as intentionally absent. It is the ASCII
	// bytes "01.0" read as a little-endian word; the vendor overloads the
	// version string as an empty-slot marker.
	AbsentSentinel = 0x302e3130

	// TupleMarker is the empirically discovered literal announcing that a
	// table of 4-word tuples follows in the raw word stream. It was
	// observed on real slides during format recovery and is not documented
	// anywhere else; the heuristic walker must treat it exactly as found.
	TupleMarker = 128

	// TupleTypeTag is the expected fourth field of each 4-word tuple in a
	// TupleMarker table. A tuple whose tag differs ends the table.
	TupleTypeTag = 4

	// PositionEntrySize is the size in bytes of one packed tile position
	// entry: uint8 flag, int32 x, int32 y.
	PositionEntrySize = 9

	// PositionScale converts position map coordinates to pixels. The map
	// stores fixed-point values in 1/256-pixel units.
	PositionScale = 256.0

	// HierPageHeaderWords is the number of words in a hierarchical page
	// header: entry count and next page pointer.
	HierPageHeaderWords = 2

	// HierEntryWords is the number of words per hierarchical page entry:
	// tile index, offset, length, file number.
	HierEntryWords = 4
)

// DataFilePattern is the printf pattern of companion data file names.
const DataFilePattern = "Data%04d.dat"
