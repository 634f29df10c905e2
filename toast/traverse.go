package toast

// A CornerIterator walks the TOAST quadtree from the four root faces down to
// a fixed depth, in postfix order: all descendants of a node come before the
// node itself. Every IterCorners call returns an independent iterator with
// its own worklist; a single iterator is consumed once, front to back.
type CornerIterator struct {
	depth      int
	bottomOnly bool
	nextRoot   int
	stack      []traverseFrame
}

type traverseFrame struct {
	tile     Tile
	children [4]Tile
	next     int // index of the next child to descend into
}

// IterCorners iterates over the corners of all TOAST tiles down to depth.
// With bottomOnly, only the tiles at exactly that depth are emitted; every
// subtree is still descended in full to reach them. A depth below 1 emits
// the root faces only (unless bottomOnly).
func IterCorners(depth int, bottomOnly bool) *CornerIterator {
	return &CornerIterator{depth: depth, bottomOnly: bottomOnly}
}

// Next returns the next tile, or false when the traversal is exhausted.
func (it *CornerIterator) Next() (Tile, bool) {
	for {
		if len(it.stack) == 0 {
			if it.nextRoot == len(rootFaces) {
				return Tile{}, false
			}
			it.stack = append(it.stack, traverseFrame{tile: rootFaces[it.nextRoot]})
			it.nextRoot++
		}
		f := &it.stack[len(it.stack)-1]
		if f.tile.Pos.N < it.depth && f.next < 4 {
			if f.next == 0 {
				f.children = f.tile.Subdivide()
			}
			child := f.children[f.next]
			f.next++
			it.stack = append(it.stack, traverseFrame{tile: child})
			continue
		}
		tile := f.tile
		it.stack = it.stack[:len(it.stack)-1]
		if tile.Pos.N == it.depth || !it.bottomOnly {
			return tile, true
		}
	}
}
