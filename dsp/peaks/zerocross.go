package peaks

// ZeroCrossings returns the indices immediately following each strict sign
// change of x, scanning left to right. A crossing between samples i and i+1
// is reported as i+1. Returns nil if the signal never changes sign.
func ZeroCrossings(x []float64) []int {
	var crossings []int
	for i := 0; i+1 < len(x); i++ {
		if x[i]*x[i+1] < 0 {
			crossings = append(crossings, i+1)
		}
	}
	return crossings
}

// FirstZeroCrossing returns the index of the first strict sign change of x
// and whether one exists.
func FirstZeroCrossing(x []float64) (int, bool) {
	for i := 0; i+1 < len(x); i++ {
		if x[i]*x[i+1] < 0 {
			return i + 1, true
		}
	}
	return 0, false
}
