package main

import "sync"

// menuCache holds the rendered menu context between queries. Staff edits
// arrive as change events from the cdc service and clear it.
type menuCache struct {
	mu    sync.Mutex
	value string
	valid bool
}

func (c *menuCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.valid
}

func (c *menuCache) Set(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.valid = true
}

func (c *menuCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = ""
	c.valid = false
}
