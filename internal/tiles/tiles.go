// Package tiles hands out the tiles of an image to concurrent workers.
package tiles

import (
	"image"
	"sync"
)

// Default tile edge in pixels. A 64×64 RGBA tile is 16KB.
const DefaultSize = 64

// Scheduler hands out the tiles of an image exactly once each, row by row,
// and tracks how much of the image is finished. Tiles are computed from
// their index when popped; those on the right and bottom edges are clipped
// to the bounds. It is safe for concurrent use.
type Scheduler struct {
	bounds       image.Rectangle
	tileW, tileH int
	cols, count  int

	m              sync.Mutex
	next           int
	inProcess      map[image.Rectangle]struct{}
	finishedPixels int
}

// NewScheduler prepares the tiles covering bounds. It panics if a tile
// dimension is not positive.
func NewScheduler(bounds image.Rectangle, tileW, tileH int) *Scheduler {
	if tileW <= 0 || tileH <= 0 {
		panic("tiles: tile dimensions must be positive")
	}
	bounds = bounds.Canon()
	cols := ceilDiv(bounds.Dx(), tileW)
	rows := ceilDiv(bounds.Dy(), tileH)
	return &Scheduler{
		bounds:    bounds,
		tileW:     tileW,
		tileH:     tileH,
		cols:      cols,
		count:     cols * rows,
		inProcess: make(map[image.Rectangle]struct{}),
	}
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// tile returns tile i in row-major order.
func (s *Scheduler) tile(i int) image.Rectangle {
	origin := s.bounds.Min.Add(image.Pt(i%s.cols*s.tileW, i/s.cols*s.tileH))
	r := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(s.tileW, s.tileH))}
	return r.Intersect(s.bounds)
}

// Pop returns the next unstarted tile. found is false once every tile has
// been handed out.
func (s *Scheduler) Pop() (tile image.Rectangle, found bool) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.next >= s.count {
		return image.Rectangle{}, false
	}
	tile = s.tile(s.next)
	s.next++
	s.inProcess[tile] = struct{}{}
	return tile, true
}

// Done marks a popped tile finished. Unknown or repeated tiles are ignored.
func (s *Scheduler) Done(tile image.Rectangle) {
	s.m.Lock()
	defer s.m.Unlock()

	if _, found := s.inProcess[tile]; !found {
		return
	}
	delete(s.inProcess, tile)
	s.finishedPixels += tile.Dx() * tile.Dy()
}

// Progress reports the finished fraction of pixels in [0, 1].
func (s *Scheduler) Progress() float64 {
	s.m.Lock()
	defer s.m.Unlock()

	total := s.bounds.Dx() * s.bounds.Dy()
	if total == 0 {
		return 1
	}
	return float64(s.finishedPixels) / float64(total)
}

// Finished reports whether every tile has been popped and marked done.
func (s *Scheduler) Finished() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.next >= s.count && len(s.inProcess) == 0
}

// Len is the total number of tiles.
func (s *Scheduler) Len() int {
	return s.count
}
