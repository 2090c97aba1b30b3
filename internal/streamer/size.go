package streamer

import "github.com/screenshare/agent/internal/config"

// MinVideoDimension is the floor enforced on each axis of the computed
// video size; encoders reject smaller surfaces.
const MinVideoDimension = 128

// ComputeVideoSize picks the encoded dimensions for a display:
//
//  1. Start from the requested (host) view size, doubled when either of
//     its axes is under half of what the display and encoder together
//     can deliver, so downscaling at the host preserves quality.
//  2. Clip to the encoder's max resolution.
//  3. Solve a scale factor s = clamp(min(max_w/W, max_h/H), max(MIN/W,
//     MIN/H), 1).
//  4. Round the width up to a multiple of max(alignW, 8); derive the
//     height from the width by the display's aspect ratio and round up to
//     alignH. If either exceeds the encoder's max, step the width down by
//     one alignment unit and retry.
func ComputeVideoSize(display config.Size, requested config.Size, encoderMax config.Size, alignW, alignH int32) config.Size {
	W, H := float64(display.W), float64(display.H)
	if W <= 0 || H <= 0 {
		return config.Size{}
	}

	effMaxW, effMaxH := float64(requested.W), float64(requested.H)
	if requested.W > 0 && requested.H > 0 {
		// the host downscales to fit its view; doubling when either axis
		// of the view is under half of what the device could deliver
		// keeps the downscale sharp
		deliverableW, deliverableH := W, H
		if encoderMax.W > 0 {
			deliverableW = min64(deliverableW, float64(encoderMax.W))
		}
		if encoderMax.H > 0 {
			deliverableH = min64(deliverableH, float64(encoderMax.H))
		}
		if effMaxW < deliverableW/2 || effMaxH < deliverableH/2 {
			effMaxW *= 2
			effMaxH *= 2
		}
	} else {
		effMaxW, effMaxH = W, H
	}
	if encoderMax.W > 0 && effMaxW > float64(encoderMax.W) {
		effMaxW = float64(encoderMax.W)
	}
	if encoderMax.H > 0 && effMaxH > float64(encoderMax.H) {
		effMaxH = float64(encoderMax.H)
	}

	minScale := max64(MinVideoDimension/W, MinVideoDimension/H)
	scale := min64(effMaxW/W, effMaxH/H)
	scale = clamp64(scale, minScale, 1)

	unit := alignW
	if unit < 8 {
		unit = 8
	}
	if alignH < 1 {
		alignH = 1
	}

	w := roundUp(int32(W*scale), unit)
	h := deriveHeight(w, W, H, alignH)

	for attempt := 0; attempt < 64 && ((encoderMax.W > 0 && w > encoderMax.W) || (encoderMax.H > 0 && h > encoderMax.H)); attempt++ {
		w -= unit
		if w < MinVideoDimension {
			w = MinVideoDimension
			h = deriveHeight(w, W, H, alignH)
			break
		}
		h = deriveHeight(w, W, H, alignH)
	}

	if w < MinVideoDimension {
		w = roundUp(MinVideoDimension, unit)
	}
	if h < MinVideoDimension {
		h = roundUp(MinVideoDimension, alignH)
	}

	return config.Size{W: w, H: h}
}

func deriveHeight(w int32, displayW, displayH float64, alignH int32) int32 {
	h := float64(w) * displayH / displayW
	return roundUp(int32(h+0.999999), alignH)
}

func roundUp(v, unit int32) int32 {
	if unit <= 0 {
		return v
	}
	if v <= 0 {
		return unit
	}
	return ((v + unit - 1) / unit) * unit
}

func clamp64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
