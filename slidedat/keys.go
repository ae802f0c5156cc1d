package slidedat

// Key-file group and key names of the Slidedat.ini descriptor.
const (
	GroupGeneral  = "GENERAL"
	GroupHier     = "HIERARCHICAL"
	GroupDatafile = "DATAFILE"

	KeySlideVersion   = "SLIDE_VERSION"
	KeySlideID        = "SLIDE_ID"
	KeySlideType      = "SLIDE_TYPE"
	KeyImagenumberX   = "IMAGENUMBER_X"
	KeyImagenumberY   = "IMAGENUMBER_Y"
	KeyImageDivisions = "CameraImageDivisionsPerSide"

	KeyIndexFile = "INDEXFILE"
	KeyFileCount = "FILE_COUNT"
	KeyFileN     = "FILE_%d"

	KeyOverlapX          = "OVERLAP_X"
	KeyOverlapY          = "OVERLAP_Y"
	KeyImageFormat       = "IMAGE_FORMAT"
	KeyImageFillColorBGR = "IMAGE_FILL_COLOR_BGR"
	KeyDigitizerWidth    = "DIGITIZER_WIDTH"
	KeyDigitizerHeight   = "DIGITIZER_HEIGHT"
	KeyImageConcatFactor = "IMAGE_CONCAT_FACTOR"

	KeyPositionFormatVersion = "VIMSLIDE_POSITION_DATA_FORMAT_VERSION"
)

// Hierarchy key patterns. %d placeholders are the layer index, then (for
// VAL keys) the level index within the layer.
const (
	KeyHierCount         = "HIER_COUNT"
	KeyHierName          = "HIER_%d_NAME"
	KeyHierSection       = "HIER_%d_SECTION"
	KeyHierValCount      = "HIER_%d_COUNT"
	KeyHierVal           = "HIER_%d_VAL_%d"
	KeyHierValSection    = "HIER_%d_VAL_%d_SECTION"
	KeyNonhierCount      = "NONHIER_COUNT"
	KeyNonhierName       = "NONHIER_%d_NAME"
	KeyNonhierSection    = "NONHIER_%d_SECTION"
	KeyNonhierValCount   = "NONHIER_%d_COUNT"
	KeyNonhierVal        = "NONHIER_%d_VAL_%d"
	KeyNonhierValSection = "NONHIER_%d_VAL_%d_SECTION"
)

// Well-known layer and level names used to locate the interesting records.
const (
	LayerSlideZoom      = "Slide zoom level"
	LayerScanData       = "Scan data layer"
	LayerPositionBuffer = "VIMSLIDE_POSITION_BUFFER"

	LevelMacro     = "ScanDataLayer_SlideThumbnail"
	LevelLabel     = "ScanDataLayer_SlideBarcode"
	LevelThumbnail = "ScanDataLayer_SlidePreview"
	LevelDefault   = "default"
)
