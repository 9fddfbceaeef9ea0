// Package imgpool recycles sprite images between renders.
package imgpool

import (
	"sync"

	"github.com/gogpu/sprite"
)

// Pool is a thread-safe pool of reusable images.
//
// Images are grouped by size and pixel format, so a caller rendering many
// frames of the same sprite gets the same few buffers back instead of
// allocating one per frame.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[key][]*sprite.Image
	maxSize int // max images per bucket
}

type key struct {
	width, height int
	format        sprite.PixelFormat
}

// New creates a pool keeping at most maxPerBucket images of each size and
// format. Zero means unlimited.
func New(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[key][]*sprite.Image),
		maxSize: maxPerBucket,
	}
}

// Get returns a cleared image of the given size and format, reusing a
// pooled one when available.
func (p *Pool) Get(width, height int, format sprite.PixelFormat) (*sprite.Image, error) {
	k := key{width: width, height: height, format: format}

	p.mu.Lock()
	if bucket := p.buckets[k]; len(bucket) > 0 {
		img := bucket[len(bucket)-1]
		p.buckets[k] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		img.Clear()
		return img, nil
	}
	p.mu.Unlock()

	return sprite.NewImage(width, height, format)
}

// Put returns img to the pool. A nil image, or one whose bucket is full,
// is dropped.
func (p *Pool) Put(img *sprite.Image) {
	if img == nil {
		return
	}
	k := key{width: img.Width(), height: img.Height(), format: img.Format()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[k]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[k] = append(bucket, img)
}

// Len returns the number of pooled images.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
