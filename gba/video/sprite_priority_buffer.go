package video

// spritePriorityBuffer tracks, per scanline pixel, which sprite currently
// owns it. This console's object attribute entries carry their own
// two-bit priority (attr2 bits 10-11), so ties are broken by priority
// first and OAM index second (lower index drawn on top).
type spritePriorityBuffer struct {
	owner    [Width]int
	priority [Width]uint8
}

func (s *spritePriorityBuffer) clear() {
	for i := range s.owner {
		s.owner[i] = -1
		s.priority[i] = 0xFF
	}
}

// tryClaim attempts to claim pixelX for sprite spriteIndex at the given
// priority. Lower priority values and, among equal priorities, lower OAM
// indices win.
func (s *spritePriorityBuffer) tryClaim(pixelX, spriteIndex int, priority uint8) {
	if pixelX < 0 || pixelX >= Width {
		return
	}
	current := s.owner[pixelX]
	if current == -1 {
		s.owner[pixelX], s.priority[pixelX] = spriteIndex, priority
		return
	}
	if priority < s.priority[pixelX] || (priority == s.priority[pixelX] && spriteIndex < current) {
		s.owner[pixelX], s.priority[pixelX] = spriteIndex, priority
	}
}

func (s *spritePriorityBuffer) ownerAt(pixelX int) int {
	if pixelX < 0 || pixelX >= Width {
		return -1
	}
	return s.owner[pixelX]
}
