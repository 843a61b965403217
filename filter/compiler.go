package filter

import "strings"

const defaultCacheSize = 64

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache sets the number of compiled filters kept. Zero disables caching.
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size <= 0 {
			c.cache = nil
			return
		}
		c.cache = newLRUCache[*Filter](size)
	}
}

// Compiler compiles expressions and caches the results. Safe for concurrent use.
type Compiler struct {
	cache *lruCache[*Filter]
}

// NewCompiler creates a caching compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		cache: newLRUCache[*Filter](defaultCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile returns a cached filter or compiles a new one
func (c *Compiler) Compile(expression string) (*Filter, error) {
	key := strings.TrimSpace(expression)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	f, err := Compile(key)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.Put(key, f)
	}
	return f, nil
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Size()
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}
