package game

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAABBFromDimensions(t *testing.T) {
	box := AABBFromDimensions(0.6, 1.8)
	assert.Equal(t, mgl32.Vec3{-0.3, 0, -0.3}, box.Min())
	assert.Equal(t, mgl32.Vec3{0.3, 1.8, 0.3}, box.Max())
}

func TestAABBVectorDistance(t *testing.T) {
	box := cube.Box(0, 0, 0, 1, 1, 1)

	assert.Zero(t, AABBVectorDistance(box, mgl32.Vec3{0.5, 0.5, 0.5}), "inside the box")
	assert.Zero(t, AABBVectorDistance(box, mgl32.Vec3{1, 1, 1}), "on the corner")
	assert.Equal(t, float32(2), AABBVectorDistance(box, mgl32.Vec3{3, 0.5, 0.5}))
	assert.Equal(t, float32(5), AABBVectorDistance(box, mgl32.Vec3{4, 0.5, 5}))
}

func TestBlockIteratorBounds(t *testing.T) {
	// A unit box spans cell 0 plus one padding cell on every side.
	blocks := BlocksWithin(cube.Box(0.2, 0.2, 0.2, 0.8, 0.8, 0.8))
	require.Len(t, blocks, 27)
	assert.Equal(t, cube.Pos{-1, -1, -1}, blocks[0])
	assert.Equal(t, cube.Pos{1, 1, 1}, blocks[len(blocks)-1])
	assert.Contains(t, blocks, cube.Pos{0, 0, 0})
}

func TestBlockIteratorOrder(t *testing.T) {
	it := NewBlockIterator(cube.Box(0.2, 0.2, 0.2, 0.8, 0.8, 0.8))

	first, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, cube.Pos{-1, -1, -1}, first)

	second, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, cube.Pos{-1, -1, 0}, second, "z varies fastest")

	var count int
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	assert.Equal(t, 25, count)

	_, ok = it.Next()
	assert.False(t, ok, "exhausted iterator stays exhausted")

	it.Reset()
	again, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestBlockIteratorEpsilon(t *testing.T) {
	// Bounds landing exactly on a cell border still include the border cell.
	blocks := BlocksWithin(cube.Box(0, 0, 0, 1, 1, 1))
	assert.Contains(t, blocks, cube.Pos{1, 1, 1})
	assert.Contains(t, blocks, cube.Pos{-1, -1, -1})
}

func TestBlockIteratorNegativeCoordinates(t *testing.T) {
	blocks := BlocksWithin(cube.Box(-2.5, -2.5, -2.5, -1.5, -1.5, -1.5))
	assert.Contains(t, blocks, cube.Pos{-3, -3, -3})
	assert.Contains(t, blocks, cube.Pos{-2, -2, -2})
	assert.NotContains(t, blocks, cube.Pos{0, 0, 0})
}
