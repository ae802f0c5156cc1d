package slidedat

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/arloliu/mirax/errs"
)

// Level is one record slot within a hierarchy layer. Offset is the global
// slot index into the corresponding index file table: slots are numbered
// across all layers of one tree in declaration order, so the third level
// of the second layer does not restart at zero.
type Level struct {
	Name    string
	Section string
	Offset  int
}

// Layer is one named layer of a hierarchy tree, holding an ordered list
// of levels.
type Layer struct {
	Name    string
	Section string
	Levels  []Level

	byName map[string]int
}

// LevelByName returns the layer's level with the given name.
func (l *Layer) LevelByName(name string) (*Level, bool) {
	i, ok := l.byName[name]
	if !ok {
		return nil, false
	}

	return &l.Levels[i], true
}

// Tree is one of the two hierarchy trees of the descriptor: the
// hierarchical tree (zoom levels) or the non-hierarchical tree
// (associated images, position buffer).
type Tree struct {
	Layers []Layer

	byName map[string]int
}

// LayerByName returns the tree's layer with the given name.
func (t *Tree) LayerByName(name string) (*Layer, bool) {
	i, ok := t.byName[name]
	if !ok {
		return nil, false
	}

	return &t.Layers[i], true
}

// treeKeys names the key patterns that describe one hierarchy tree. The
// HIER_* and NONHIER_* trees share their shape and differ only in key
// prefixes.
type treeKeys struct {
	count      string
	name       string
	section    string
	valCount   string
	val        string
	valSection string
}

var (
	hierKeys = treeKeys{
		count:      KeyHierCount,
		name:       KeyHierName,
		section:    KeyHierSection,
		valCount:   KeyHierValCount,
		val:        KeyHierVal,
		valSection: KeyHierValSection,
	}
	nonhierKeys = treeKeys{
		count:      KeyNonhierCount,
		name:       KeyNonhierName,
		section:    KeyNonhierSection,
		valCount:   KeyNonhierValCount,
		val:        KeyNonhierVal,
		valSection: KeyNonhierValSection,
	}
)

// loadTree parses one hierarchy tree out of the HIERARCHICAL group,
// assigning global record slot offsets in declaration order.
func loadTree(sec *ini.Section, keys treeKeys) (Tree, error) {
	layerCount, err := intKey(sec, keys.count)
	if err != nil {
		return Tree{}, err
	}

	tree := Tree{
		Layers: make([]Layer, 0, layerCount),
		byName: make(map[string]int, layerCount),
	}

	nextOffset := 0
	for layerID := 0; layerID < layerCount; layerID++ {
		layer := Layer{byName: make(map[string]int)}

		layer.Name, err = stringKey(sec, fmt.Sprintf(keys.name, layerID))
		if err != nil {
			return Tree{}, err
		}
		// The layer section key is optional for layers whose levels carry
		// their own sections.
		if sec.HasKey(fmt.Sprintf(keys.section, layerID)) {
			layer.Section = sec.Key(fmt.Sprintf(keys.section, layerID)).String()
		}

		levelCount, err := intKey(sec, fmt.Sprintf(keys.valCount, layerID))
		if err != nil {
			return Tree{}, err
		}

		for levelID := 0; levelID < levelCount; levelID++ {
			level := Level{Offset: nextOffset}
			nextOffset++

			level.Name, err = stringKey(sec, fmt.Sprintf(keys.val, layerID, levelID))
			if err != nil {
				return Tree{}, err
			}
			level.Section, err = stringKey(sec, fmt.Sprintf(keys.valSection, layerID, levelID))
			if err != nil {
				return Tree{}, err
			}

			layer.byName[level.Name] = len(layer.Levels)
			layer.Levels = append(layer.Levels, level)
		}

		tree.byName[layer.Name] = len(tree.Layers)
		tree.Layers = append(tree.Layers, layer)
	}

	return tree, nil
}

func stringKey(sec *ini.Section, name string) (string, error) {
	if !sec.HasKey(name) {
		return "", fmt.Errorf("%w: missing key %s in [%s]", errs.ErrInvalidSlidedat, name, sec.Name())
	}

	return sec.Key(name).String(), nil
}

func intKey(sec *ini.Section, name string) (int, error) {
	if !sec.HasKey(name) {
		return 0, fmt.Errorf("%w: missing key %s in [%s]", errs.ErrInvalidSlidedat, name, sec.Name())
	}
	v, err := sec.Key(name).Int()
	if err != nil {
		return 0, fmt.Errorf("%w: key %s in [%s]: %v", errs.ErrInvalidSlidedat, name, sec.Name(), err)
	}

	return v, nil
}

func floatKey(sec *ini.Section, name string) (float64, error) {
	if !sec.HasKey(name) {
		return 0, fmt.Errorf("%w: missing key %s in [%s]", errs.ErrInvalidSlidedat, name, sec.Name())
	}
	v, err := sec.Key(name).Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: key %s in [%s]: %v", errs.ErrInvalidSlidedat, name, sec.Name(), err)
	}

	return v, nil
}
