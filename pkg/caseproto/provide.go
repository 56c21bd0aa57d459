/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package caseproto

import lru "github.com/hashicorp/golang-lru/v2"

// New creates a proto with the given widths
func New(widths ...int) *Proto {
	w := make([]int, len(widths))
	copy(w, widths)
	return newProto(w)
}

// NewCache creates an interning cache holding at most size protos
func NewCache(size int) *Cache {
	c, err := lru.New[string, *Proto](size)
	if err != nil {
		// notest
		panic(err)
	}
	return &Cache{lru: c}
}
