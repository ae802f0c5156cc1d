package slidedat

import (
	"bytes"
	"fmt"
	"math/bits"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
)

// keyWriter appends keys to descriptor sections, remembering the first
// error so call sites stay flat.
type keyWriter struct {
	err error
}

func (w *keyWriter) set(sec *ini.Section, name, value string) {
	if w.err != nil {
		return
	}
	if _, err := sec.NewKey(name, value); err != nil {
		w.err = fmt.Errorf("writing key %s: %w", name, err)
	}
}

func (w *keyWriter) setInt(sec *ini.Section, name string, value int) {
	w.set(sec, name, strconv.Itoa(value))
}

// Bytes serializes the descriptor back into Slidedat.ini form. Only the
// keys this package reads are emitted, which is enough for the synthetic
// container builder and for round-trip tests; scanner-specific keys that
// were present in a loaded file are not preserved.
func (d *Slidedat) Bytes() ([]byte, error) {
	f := ini.Empty()
	var kw keyWriter

	general, err := f.NewSection(GroupGeneral)
	if err != nil {
		return nil, err
	}
	kw.set(general, KeySlideVersion, d.Version)
	kw.set(general, KeySlideID, d.ID)
	if d.Type != "" {
		kw.set(general, KeySlideType, d.Type)
	}
	kw.setInt(general, KeyImagenumberX, d.TilesX)
	kw.setInt(general, KeyImagenumberY, d.TilesY)
	if d.ImageDivisions != 1 {
		kw.setInt(general, KeyImageDivisions, d.ImageDivisions)
	}

	hier, err := f.NewSection(GroupHier)
	if err != nil {
		return nil, err
	}
	kw.set(hier, KeyIndexFile, d.IndexFile)
	writeTree(hier, hierKeys, &d.Hier, &kw)
	writeTree(hier, nonhierKeys, &d.Nonhier, &kw)

	datafile, err := f.NewSection(GroupDatafile)
	if err != nil {
		return nil, err
	}
	kw.setInt(datafile, KeyFileCount, len(d.Datafiles))
	for i, name := range d.Datafiles {
		kw.set(datafile, fmt.Sprintf(KeyFileN, i), name)
	}

	for _, zl := range d.ZoomLevels {
		sec, err := f.NewSection(zl.Section)
		if err != nil {
			return nil, err
		}
		kw.setInt(sec, KeyImageConcatFactor, zl.ConcatFactor)
		kw.setInt(sec, KeyDigitizerWidth, zl.TileWidth)
		kw.setInt(sec, KeyDigitizerHeight, zl.TileHeight)
		kw.set(sec, KeyOverlapX, strconv.FormatFloat(zl.OverlapX, 'f', -1, 64))
		kw.set(sec, KeyOverlapY, strconv.FormatFloat(zl.OverlapY, 'f', -1, 64))
		if zl.Format != "" {
			kw.set(sec, KeyImageFormat, zl.Format)
		}
		bgr := bits.ReverseBytes32(zl.FillRGB << 8)
		kw.set(sec, KeyImageFillColorBGR, strconv.FormatUint(uint64(bgr), 10))
	}

	// Linear scan instead of LayerByName: the lookup map only exists on
	// loaded descriptors, not on ones assembled in memory.
	for _, layer := range d.Nonhier.Layers {
		if layer.Name != LayerPositionBuffer || layer.Section == "" || d.PositionVersion == 0 {
			continue
		}
		sec, err := f.NewSection(layer.Section)
		if err != nil {
			return nil, err
		}
		kw.setInt(sec, KeyPositionFormatVersion, d.PositionVersion)
	}

	if kw.err != nil {
		return nil, kw.err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile serializes the descriptor to path.
func (d *Slidedat) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func writeTree(sec *ini.Section, keys treeKeys, tree *Tree, kw *keyWriter) {
	kw.setInt(sec, keys.count, len(tree.Layers))
	for layerID, layer := range tree.Layers {
		kw.set(sec, fmt.Sprintf(keys.name, layerID), layer.Name)
		if layer.Section != "" {
			kw.set(sec, fmt.Sprintf(keys.section, layerID), layer.Section)
		}
		kw.setInt(sec, fmt.Sprintf(keys.valCount, layerID), len(layer.Levels))
		for levelID, level := range layer.Levels {
			kw.set(sec, fmt.Sprintf(keys.val, layerID, levelID), level.Name)
			kw.set(sec, fmt.Sprintf(keys.valSection, layerID, levelID), level.Section)
		}
	}
}
