package video

import "sort"

// layerKind distinguishes how a background layer is rendered in the
// current display mode.
type layerKind int

const (
	layerDisabled layerKind = iota
	layerText
	layerAffine
	layerBitmap
)

// backgroundLayer is one of the four background layers, resolved against
// the active display mode.
type backgroundLayer struct {
	index    int
	kind     layerKind
	priority uint8
}

// modeLayerKinds maps each of the seven display modes to the kind each of
// the four background layers renders as: modes 0-2 are tiled (text/affine
// mixes), modes 3-5 treat BG2 as a bitmap.
func modeLayerKinds(mode uint8) [4]layerKind {
	switch mode {
	case 0:
		return [4]layerKind{layerText, layerText, layerText, layerText}
	case 1:
		return [4]layerKind{layerText, layerText, layerAffine, layerDisabled}
	case 2:
		return [4]layerKind{layerDisabled, layerDisabled, layerAffine, layerAffine}
	case 3, 4, 5:
		return [4]layerKind{layerDisabled, layerDisabled, layerBitmap, layerDisabled}
	default:
		return [4]layerKind{layerDisabled, layerDisabled, layerDisabled, layerDisabled}
	}
}

// orderedBackgroundLayers returns the enabled background layers sorted
// back-to-front: highest priority value (furthest back) first, lowest
// priority value (0, frontmost) last; ties break by descending layer
// index, since BG0 sits in front of BG1/2/3 at equal priority and so is
// drawn last.
func orderedBackgroundLayers(bus regBus, dc dispControl) []backgroundLayer {
	kinds := modeLayerKinds(dc.mode)
	var layers []backgroundLayer
	for i := 0; i < 4; i++ {
		if kinds[i] == layerDisabled || !dc.bgEnabled[i] {
			continue
		}
		ctrl := readBGControl(bus, i)
		layers = append(layers, backgroundLayer{index: i, kind: kinds[i], priority: ctrl.priority})
	}
	sort.SliceStable(layers, func(a, b int) bool {
		if layers[a].priority != layers[b].priority {
			return layers[a].priority > layers[b].priority
		}
		return layers[a].index > layers[b].index
	})
	return layers
}
