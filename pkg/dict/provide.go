/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import "github.com/lemenkov/pspp-sub003/pkg/caseproto"

// New creates an empty dictionary whose string cells use the named encoding.
// An empty name means UTF-8
func New(encoding string) (*Dictionary, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if _, err := LookupEncoding(encoding); err != nil {
		return nil, err
	}
	return newDictionary(encoding), nil
}

// NewUTF8 creates an empty UTF-8 dictionary
func NewUTF8() *Dictionary {
	return newDictionary(DefaultEncoding)
}

func newDictionary(encoding string) *Dictionary {
	return &Dictionary{
		encoding:   encoding,
		names:      map[string]*Variable{},
		attributes: Attributes{},
		protos:     caseproto.NewCache(caseproto.DefaultCacheSize),
	}
}
