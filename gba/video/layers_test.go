package video

import (
	"testing"

	"github.com/arn-dahl/gogba/gba/addr"
	"github.com/arn-dahl/gogba/gba/membus"
	"github.com/stretchr/testify/assert"
)

func TestModeLayerKindsTiledModes(t *testing.T) {
	assert.Equal(t, [4]layerKind{layerText, layerText, layerText, layerText}, modeLayerKinds(0))
	assert.Equal(t, [4]layerKind{layerText, layerText, layerAffine, layerDisabled}, modeLayerKinds(1))
	assert.Equal(t, [4]layerKind{layerDisabled, layerDisabled, layerAffine, layerAffine}, modeLayerKinds(2))
}

func TestModeLayerKindsBitmapModes(t *testing.T) {
	for _, mode := range []uint8{3, 4, 5} {
		assert.Equal(t, [4]layerKind{layerDisabled, layerDisabled, layerBitmap, layerDisabled}, modeLayerKinds(mode))
	}
}

func TestOrderedBackgroundLayersSortsBackToFront(t *testing.T) {
	bus := membus.New()
	bus.WriteHalfWord(addr.DISPCNT, (1<<8)|(1<<9)|(1<<10)|(1<<11)) // all four BGs enabled, mode 0
	bus.WriteHalfWord(addr.BG0CNT, 2) // priority 2
	bus.WriteHalfWord(addr.BG1CNT, 0) // priority 0 (frontmost)
	bus.WriteHalfWord(addr.BG2CNT, 2) // priority 2, tie with BG0 but higher index
	bus.WriteHalfWord(addr.BG3CNT, 1) // priority 1

	dc := readDispControl(bus)
	layers := orderedBackgroundLayers(bus, dc)

	var order []int
	for _, l := range layers {
		order = append(order, l.index)
	}
	// Back-to-front: priority 2 first (BG2 before BG0, so BG0 is drawn over
	// it at the tie), then 1, then 0.
	assert.Equal(t, []int{2, 0, 3, 1}, order)
}

func TestOrderedBackgroundLayersSkipsDisabled(t *testing.T) {
	bus := membus.New()
	bus.WriteHalfWord(addr.DISPCNT, 1<<8) // only BG0 enabled
	dc := readDispControl(bus)
	layers := orderedBackgroundLayers(bus, dc)
	assert.Len(t, layers, 1)
	assert.Equal(t, 0, layers[0].index)
}
