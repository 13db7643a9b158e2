package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampMagnitude scales the vector (x, y) down to the given maximum
// length. Vectors at or below the limit are returned unchanged.
func ClampMagnitude(x, y, maxLen float32) (float32, float32) {
	lenSq := x*x + y*y
	if lenSq <= maxLen*maxLen || lenSq == 0 {
		return x, y
	}
	scale := maxLen / float32(math.Sqrt(float64(lenSq)))
	return x * scale, y * scale
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Mod returns positive modulo (Go's % can return negative). The result
// is always in [0, b).
func Mod(a, b float32) float32 {
	m := math.Mod(float64(a), float64(b))
	if m < 0 {
		m += float64(b)
	}
	r := float32(m)
	if r >= b {
		r = 0
	}
	return r
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}
