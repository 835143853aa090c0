package utils

// CeilDiv returns ceil(a/b) for positive b. Non-positive a yields 0.
func CeilDiv(a, b int) int {
	if b <= 0 || a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Clamp01 bounds v to [0,1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
