/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package dict

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	xunicode "golang.org/x/text/encoding/unicode"
)

var foldedNames *lru.Cache[string, string]

func init() {
	c, err := lru.New[string, string](nameCacheSize)
	if err != nil {
		// notest
		panic(err)
	}
	foldedNames = c
}

// FoldName returns the case-insensitive key of a name
func FoldName(name string) string {
	if folded, ok := foldedNames.Get(name); ok {
		return folded
	}
	folded := cases.Fold().String(name)
	foldedNames.Add(name, folded)
	return folded
}

// NamesEqual compares names case-insensitively
func NamesEqual(a, b string) bool {
	return FoldName(a) == FoldName(b)
}

// IsValidName returns nil if name may name a variable
func IsValidName(name string) error {
	if name == "" {
		return ErrInvalid("empty name")
	}
	if len(name) > MaxNameLength {
		return ErrInvalid("name «%s» is longer than %d bytes", name, MaxNameLength)
	}
	if !utf8.ValidString(name) {
		return ErrInvalid("name «%s» is not valid UTF-8", name)
	}
	for i, r := range name {
		if i == 0 && !isIDStart(r) {
			return ErrInvalid("name «%s» may not begin with «%c»", name, r)
		}
		if i > 0 && !isIDChar(r) {
			return ErrInvalid("name «%s» may not contain «%c»", name, r)
		}
	}
	if reservedWords[strings.ToUpper(name)] {
		return ErrInvalid("«%s» is a reserved word", name)
	}
	return nil
}

// IsScratchName returns true for names of scratch variables
func IsScratchName(name string) bool {
	return strings.HasPrefix(name, "#")
}

func isIDStart(r rune) bool {
	return unicode.IsLetter(r) || r == '@' || r == '#' || r == '$'
}

func isIDChar(r rune) bool {
	return isIDStart(r) || unicode.IsDigit(r) || r == '.' || r == '_'
}

// LookupEncoding resolves an IANA encoding name
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" || strings.EqualFold(name, DefaultEncoding) {
		return xunicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, ErrInvalid("encoding «%s»: %v", name, err)
	}
	if enc == nil {
		return nil, ErrInvalid("encoding «%s» is not supported", name)
	}
	return enc, nil
}
