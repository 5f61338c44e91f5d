package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// Cache stores decoded images by key. It is safe for concurrent use so
// independent map loads can share one Loader.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*ebiten.Image
}

// Register stores an image by key.
func (c *Cache) Register(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.images == nil {
		c.images = map[string]*ebiten.Image{}
	}
	c.images[key] = img
}

// Get returns a cached image by key.
func (c *Cache) Get(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.images[key]
}

// Reset drops every cached image so the next load decodes from disk again.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images = nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
