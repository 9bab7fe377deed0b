package diagram

import "math"

// GridLayout places n nodes on a grid of at most six columns, in input
// order. Every index gets its own cell, so positions are pairwise distinct.
func GridLayout(n int, canvasWidth, canvasHeight float64, origin Point) []Point {
	if n <= 0 {
		return nil
	}
	cols := int(math.Min(6, math.Ceil(math.Sqrt(float64(n)))))
	if cols < 1 {
		cols = 1
	}
	rows := int(math.Ceil(float64(n) / float64(cols)))

	spacingX := canvasWidth / float64(cols+1)
	spacingY := canvasHeight / float64(rows+1)

	out := make([]Point, n)
	for i := range out {
		out[i] = Point{
			X: origin.X + float64(i%cols)*spacingX,
			Y: origin.Y + float64(i/cols)*spacingY,
		}
	}
	return out
}
