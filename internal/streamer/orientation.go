package streamer

// Orientation is a quadrant-based (0..3, CCW) rotation, plus the two
// sentinel "follow" modes SetVideoOrientation accepts.
type Orientation int32

const (
	Orientation0 Orientation = iota
	Orientation1
	Orientation2
	Orientation3
	// CurrentVideo means "keep whatever orientation is already emitted".
	CurrentVideo Orientation = -1
	// CurrentDisplay means "follow the display's own rotation" (no
	// correction is applied, except the rotation-2 normalization in
	// rotationCorrection).
	CurrentDisplay Orientation = -2
)

func (o Orientation) isFollowDisplay() bool { return o == CurrentDisplay }

func mod4(v int32) int32 {
	v %= 4
	if v < 0 {
		v += 4
	}
	return v
}

// rotationCorrection derives the orientation the emitted video carries
// and its correction relative to the display's own rotation: zero in
// "follow display" mode, video − display otherwise. A display sitting at
// rotation 2 with no correction requested is normalized as if it sat at
// rotation 0 with correction 2: the framework cannot tell upside-down
// portrait from upright portrait in that configuration, and the
// normalized form renders identically on the receiving side.
func rotationCorrection(videoOrientation Orientation, displayRotation int32, followDisplay bool) (emittedOrientation int32, correction int32) {
	if followDisplay {
		emittedOrientation = displayRotation
		correction = 0
	} else {
		emittedOrientation = mod4(int32(videoOrientation))
		correction = mod4(emittedOrientation - displayRotation)
	}
	if displayRotation == 2 && correction == 0 {
		correction = 2
	}
	return emittedOrientation, correction
}

// AdjustPoint rotates (x, y) from the display's canonical (rotation-0)
// orientation into the current display orientation rot, within a frame of
// size (w, h) given in canonical orientation. RotateBackPoint is its
// inverse: RotateBackPoint(AdjustPoint(p, rot), rot) == p for every
// quadrant.
type Point struct{ X, Y int32 }

func AdjustPoint(p Point, w, h int32, rot int32) Point {
	switch mod4(rot) {
	case 0:
		return p
	case 1: // 90° CCW: canonical (x,y) in w×h maps into h×w frame
		return Point{X: p.Y, Y: w - 1 - p.X}
	case 2:
		return Point{X: w - 1 - p.X, Y: h - 1 - p.Y}
	case 3:
		return Point{X: h - 1 - p.Y, Y: p.X}
	default:
		return p
	}
}

// RotateBackPoint inverts AdjustPoint: given a point already rotated by rot
// within a (rotated) frame of size (w, h) — the *canonical* size — it
// returns the original canonical-orientation point.
func RotateBackPoint(p Point, w, h int32, rot int32) Point {
	switch mod4(rot) {
	case 0:
		return p
	case 1:
		// inverse of case 1 above: rotated frame is h×w; canonical is w×h
		return Point{X: w - 1 - p.Y, Y: p.X}
	case 2:
		return Point{X: w - 1 - p.X, Y: h - 1 - p.Y}
	case 3:
		return Point{X: p.Y, Y: h - 1 - p.X}
	default:
		return p
	}
}
