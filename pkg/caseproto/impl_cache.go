/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

// Intern returns the cached proto equal to p, caching p if there is none
func (c *Cache) Intern(p *Proto) *Proto {
	if cached, ok := c.lru.Get(p.key); ok {
		return cached
	}
	c.lru.Add(p.key, p)
	return p
}

// Get returns the interned proto for widths
func (c *Cache) Get(widths ...int) *Proto {
	return c.Intern(New(widths...))
}

// Len returns the number of interned protos
func (c *Cache) Len() int {
	return c.lru.Len()
}
