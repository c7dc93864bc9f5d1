package game

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// boundEpsilon is shaved off the box bounds before flooring so that cells
// only touched by floating point noise still count.
const boundEpsilon = 0.001

// AABBFromDimensions returns a bounding box from the given dimensions.
func AABBFromDimensions(width, height float32) cube.BBox {
	h := width / 2
	return cube.Box(
		-h, 0, -h,
		h, height, h,
	)
}

// AABBVectorDistance calculates the distance between an AABB and a vector.
func AABBVectorDistance(a cube.BBox, v mgl32.Vec3) float32 {
	x := math32.Max(a.Min().X()-v.X(), math32.Max(0, v.X()-a.Max().X()))
	y := math32.Max(a.Min().Y()-v.Y(), math32.Max(0, v.Y()-a.Max().Y()))
	z := math32.Max(a.Min().Z()-v.Z(), math32.Max(0, v.Z()-a.Max().Z()))

	dist := math32.Sqrt(math32.Pow(x, 2) + math32.Pow(y, 2) + math32.Pow(z, 2))
	if math32.IsNaN(dist) {
		dist = 0
	}

	return dist
}

// BlockIterator enumerates every unit cell a bounding box could touch, in a
// fixed x, then y, then z order. The sequence is finite and restartable.
type BlockIterator struct {
	min, max cube.Pos
	cur      cube.Pos
	done     bool
}

// NewBlockIterator returns an iterator over the cells of the box passed. The
// bounds are floored with a small epsilon and grown by one cell on every
// face, so border-touching cells are always included.
func NewBlockIterator(box cube.BBox) *BlockIterator {
	min := cube.Pos{
		int(math32.Floor(box.Min().X()-boundEpsilon)) - 1,
		int(math32.Floor(box.Min().Y()-boundEpsilon)) - 1,
		int(math32.Floor(box.Min().Z()-boundEpsilon)) - 1,
	}
	max := cube.Pos{
		int(math32.Floor(box.Max().X()+boundEpsilon)) + 1,
		int(math32.Floor(box.Max().Y()+boundEpsilon)) + 1,
		int(math32.Floor(box.Max().Z()+boundEpsilon)) + 1,
	}
	it := &BlockIterator{min: min, max: max}
	it.Reset()
	return it
}

// Reset rewinds the iterator to the first cell of the cuboid.
func (it *BlockIterator) Reset() {
	it.cur = it.min
	it.done = false
}

// Next returns the next cell of the cuboid, or false once every cell has
// been produced. z varies fastest, then y, then x.
func (it *BlockIterator) Next() (cube.Pos, bool) {
	if it.done {
		return cube.Pos{}, false
	}
	pos := it.cur

	it.cur[2]++
	if it.cur[2] > it.max[2] {
		it.cur[2] = it.min[2]
		it.cur[1]++
		if it.cur[1] > it.max[1] {
			it.cur[1] = it.min[1]
			it.cur[0]++
			if it.cur[0] > it.max[0] {
				it.done = true
			}
		}
	}
	return pos, true
}

// BlocksWithin collects every cell of the box into a slice, in iteration
// order.
func BlocksWithin(box cube.BBox) []cube.Pos {
	it := NewBlockIterator(box)
	var out []cube.Pos
	for pos, ok := it.Next(); ok; pos, ok = it.Next() {
		out = append(out, pos)
	}
	return out
}
