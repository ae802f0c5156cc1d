// Package slidedat reads the Slidedat.ini descriptor that accompanies a
// MIRAX slide directory.
//
// The descriptor is a UTF-8 (optionally BOM-prefixed) key file with three
// fixed groups (GENERAL, HIERARCHICAL and DATAFILE) plus one section per
// zoom level. The HIERARCHICAL group encodes two trees of record slots
// (see Tree); the slot offsets they assign are the only link between the
// descriptor and the binary index file, so this package is the source of
// all constants the index reader needs: version string, slide ID, tile
// grid shape, record slot numbers and companion data file names.
package slidedat

import (
	"fmt"
	"math/bits"

	"gopkg.in/ini.v1"

	"github.com/arloliu/mirax/errs"
)

// ZoomLevel holds the per-zoom-level section values referenced from the
// "Slide zoom level" hierarchy layer.
type ZoomLevel struct {
	Section      string
	ConcatFactor int
	TileWidth    int
	TileHeight   int
	OverlapX     float64
	OverlapY     float64
	Format       string
	// FillRGB is the slide background color. The descriptor stores it as
	// BGR; it is byte-swapped to RGB at load time.
	FillRGB uint32
}

// Slidedat is the parsed descriptor.
type Slidedat struct {
	Version string
	ID      string
	Type    string

	TilesX int
	TilesY int
	// ImageDivisions is the number of camera image divisions per side;
	// defaults to 1 when the key is absent.
	ImageDivisions int

	IndexFile string
	Datafiles []string

	Hier    Tree
	Nonhier Tree

	// ZoomLevels are the resolved sections of the "Slide zoom level"
	// layer, in level order.
	ZoomLevels []ZoomLevel

	// PositionVersion is the position buffer format version, zero when the
	// descriptor declares no position buffer.
	PositionVersion int
}

// Load reads and parses the descriptor at path.
func Load(path string) (*Slidedat, error) {
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSlidedat, err)
	}

	return parse(f)
}

// LoadBytes parses a descriptor from memory. Used by tests and the
// synthetic container builder.
func LoadBytes(data []byte) (*Slidedat, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSlidedat, err)
	}

	return parse(f)
}

func parse(f *ini.File) (*Slidedat, error) {
	d := &Slidedat{ImageDivisions: 1}

	general := f.Section(GroupGeneral)

	var err error
	if d.Version, err = stringKey(general, KeySlideVersion); err != nil {
		return nil, err
	}
	if d.ID, err = stringKey(general, KeySlideID); err != nil {
		return nil, err
	}
	if d.TilesX, err = intKey(general, KeyImagenumberX); err != nil {
		return nil, err
	}
	if d.TilesY, err = intKey(general, KeyImagenumberY); err != nil {
		return nil, err
	}
	// Optional keys; older scanners omit both.
	if general.HasKey(KeySlideType) {
		d.Type = general.Key(KeySlideType).String()
	}
	if general.HasKey(KeyImageDivisions) {
		if d.ImageDivisions, err = intKey(general, KeyImageDivisions); err != nil {
			return nil, err
		}
	}

	hier := f.Section(GroupHier)
	if d.IndexFile, err = stringKey(hier, KeyIndexFile); err != nil {
		return nil, err
	}
	if d.Hier, err = loadTree(hier, hierKeys); err != nil {
		return nil, err
	}
	if d.Nonhier, err = loadTree(hier, nonhierKeys); err != nil {
		return nil, err
	}

	if err = d.loadDatafiles(f); err != nil {
		return nil, err
	}
	if err = d.loadZoomLevels(f); err != nil {
		return nil, err
	}
	d.loadPositionVersion(f)

	return d, nil
}

func (d *Slidedat) loadDatafiles(f *ini.File) error {
	sec := f.Section(GroupDatafile)
	count, err := intKey(sec, KeyFileCount)
	if err != nil {
		return err
	}

	d.Datafiles = make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := stringKey(sec, fmt.Sprintf(KeyFileN, i))
		if err != nil {
			return err
		}
		d.Datafiles = append(d.Datafiles, name)
	}

	return nil
}

func (d *Slidedat) loadZoomLevels(f *ini.File) error {
	layer, ok := d.Hier.LayerByName(LayerSlideZoom)
	if !ok {
		return fmt.Errorf("%w: no %q layer in hierarchical tree", errs.ErrInvalidSlidedat, LayerSlideZoom)
	}

	d.ZoomLevels = make([]ZoomLevel, 0, len(layer.Levels))
	for _, level := range layer.Levels {
		sec := f.Section(level.Section)

		zl := ZoomLevel{Section: level.Section}
		var err error
		if zl.ConcatFactor, err = intKey(sec, KeyImageConcatFactor); err != nil {
			return err
		}
		if zl.TileWidth, err = intKey(sec, KeyDigitizerWidth); err != nil {
			return err
		}
		if zl.TileHeight, err = intKey(sec, KeyDigitizerHeight); err != nil {
			return err
		}
		if zl.OverlapX, err = floatKey(sec, KeyOverlapX); err != nil {
			return err
		}
		if zl.OverlapY, err = floatKey(sec, KeyOverlapY); err != nil {
			return err
		}
		if sec.HasKey(KeyImageFormat) {
			zl.Format = sec.Key(KeyImageFormat).String()
		}

		bgr, err := intKey(sec, KeyImageFillColorBGR)
		if err != nil {
			return err
		}
		zl.FillRGB = bits.ReverseBytes32(uint32(bgr)) >> 8

		d.ZoomLevels = append(d.ZoomLevels, zl)
	}

	return nil
}

func (d *Slidedat) loadPositionVersion(f *ini.File) {
	layer, ok := d.Nonhier.LayerByName(LayerPositionBuffer)
	if !ok || layer.Section == "" {
		return
	}
	sec := f.Section(layer.Section)
	if sec.HasKey(KeyPositionFormatVersion) {
		d.PositionVersion, _ = sec.Key(KeyPositionFormatVersion).Int()
	}
}

// AssociatedImageRecord resolves the record slot of one associated image.
// kind is "macro", "label" or "thumbnail". The second return is false when
// the slide carries no such image; that is a normal outcome.
func (d *Slidedat) AssociatedImageRecord(kind string) (int, bool) {
	var levelName string
	switch kind {
	case "macro":
		levelName = LevelMacro
	case "label":
		levelName = LevelLabel
	case "thumbnail":
		levelName = LevelThumbnail
	default:
		return 0, false
	}

	layer, ok := d.Nonhier.LayerByName(LayerScanData)
	if !ok {
		return 0, false
	}
	level, ok := layer.LevelByName(levelName)
	if !ok {
		return 0, false
	}

	return level.Offset, true
}

// PositionBufferRecord resolves the record slot of the tile position
// buffer, if the slide declares one.
func (d *Slidedat) PositionBufferRecord() (int, bool) {
	layer, ok := d.Nonhier.LayerByName(LayerPositionBuffer)
	if !ok {
		return 0, false
	}
	level, ok := layer.LevelByName(LevelDefault)
	if !ok {
		return 0, false
	}

	return level.Offset, true
}

// ZoomLayer returns the "Slide zoom level" hierarchical layer.
func (d *Slidedat) ZoomLayer() (*Layer, bool) {
	return d.Hier.LayerByName(LayerSlideZoom)
}
