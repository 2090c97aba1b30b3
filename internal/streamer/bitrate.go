package streamer

// round125 snaps v to the nearest value of the form n·10^k with
// n ∈ {1,2,5}, nearest in the logarithmic sense: the cut points between
// neighboring ladder values are their geometric means (≈1.414, ≈3.162,
// ≈7.071).
func round125(v float64) int32 {
	if v <= 0 {
		return 0
	}
	exp := 0
	for v >= 10 {
		v /= 10
		exp++
	}
	for v < 1 {
		v *= 10
		exp--
	}
	var n float64
	switch {
	case v < 1.4143:
		n = 1
	case v < 3.1623:
		n = 2
	case v < 7.0711:
		n = 5
	default:
		n = 1
		exp++
	}
	result := n
	for i := 0; i < exp; i++ {
		result *= 10
	}
	for i := 0; i > exp; i-- {
		result /= 10
	}
	return int32(result)
}

// nextBitRate halves current and snaps to the nearest 1-2-5 value,
// floored at minBitRate.
func nextBitRate(current int32, minBitRate int32) int32 {
	halved := round125(float64(current) / 2)
	if halved < minBitRate {
		return minBitRate
	}
	return halved
}
