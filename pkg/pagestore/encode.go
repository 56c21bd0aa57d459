/*
 * Copyright (c) 2026-present unTill Pro, Ltd.
 */

package pagestore

import (
	"encoding/binary"
	"math"

	"github.com/lemenkov/pspp-sub003/pkg/caseproto"
	"github.com/lemenkov/pspp-sub003/pkg/ccase"
	"github.com/lemenkov/pspp-sub003/pkg/value"
)

// CaseBytes returns the size of an encoded case of proto
func CaseBytes(proto *caseproto.Proto) int {
	n := proto.ByteWidth()
	if n == 0 {
		// zero-width cases still occupy a byte so that blocks count them
		return 1
	}
	return n
}

func appendCase(buf []byte, c *ccase.Case) []byte {
	proto := c.Proto()
	if proto.N() == 0 {
		return append(buf, 0)
	}
	for i := 0; i < proto.N(); i++ {
		if proto.IsString(i) {
			buf = append(buf, c.Str(i)...)
			continue
		}
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c.Num(i)))
	}
	return buf
}

func decodeCase(proto *caseproto.Proto, b []byte) *ccase.Case {
	c := ccase.New(proto)
	ofs := 0
	for i := 0; i < proto.N(); i++ {
		if w := proto.Width(i); w > 0 {
			c.SetValue(i, value.Str(b[ofs:ofs+w], w))
			ofs += w
			continue
		}
		c.SetNum(i, math.Float64frombits(binary.LittleEndian.Uint64(b[ofs:])))
		ofs += numericBytes
	}
	return c
}

func blockKey(block uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, block)
}
