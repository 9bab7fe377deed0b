package diagram

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLayout_DistinctPositions(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 7, 16, 36, 37, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			points := GridLayout(n, 2600, 1600, Point{X: 80, Y: 40})
			require.Len(t, points, n)

			seen := make(map[Point]int, n)
			for i, p := range points {
				if j, dup := seen[p]; dup {
					t.Fatalf("nodes %d and %d share %v", j, i, p)
				}
				seen[p] = i
			}
		})
	}
}

func TestGridLayout_ColumnsCappedAtSix(t *testing.T) {
	points := GridLayout(49, 2100, 1600, Point{})

	xs := make(map[float64]struct{})
	for _, p := range points {
		xs[p.X] = struct{}{}
	}
	assert.Len(t, xs, 6)
	// spacing is width/(cols+1)
	assert.Equal(t, Point{X: 300, Y: 0}, points[1])
}

func TestGridLayout_InputOrder(t *testing.T) {
	points := GridLayout(4, 300, 300, Point{X: 10, Y: 10})
	assert.Equal(t, []Point{
		{X: 10, Y: 10}, {X: 110, Y: 10},
		{X: 10, Y: 110}, {X: 110, Y: 110},
	}, points)
}

func TestGridLayout_Empty(t *testing.T) {
	assert.Nil(t, GridLayout(0, 100, 100, Point{}))
}
