// seehuhn.de/go/sfntedit - edit names and layout features of font files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package cff

import (
	"fmt"
)

type dictOp uint16

func (d dictOp) String() string {
	switch d {
	case opVersion:
		return "Version"
	case opNotice:
		return "Notice"
	case opFullName:
		return "FullName"
	case opFamilyName:
		return "FamilyName"
	case opWeight:
		return "Weight"
	case opCharset:
		return "Charset"
	case opEncoding:
		return "Encoding"
	case opCharStrings:
		return "CharStrings"
	case opPrivate:
		return "Private"
	case opCopyright:
		return "Copyright"
	case opROS:
		return "ROS"
	case opFDArray:
		return "FDArray"
	case opFDSelect:
		return "FDSelect"
	case opFontName:
		return "FontName"
	default:
		if d < 256 {
			return fmt.Sprintf("%d", d)
		}
		return fmt.Sprintf("%d %d", d>>8, d&0xff)
	}
}

const (
	// top DICT operators
	opVersion     dictOp = 0x0000
	opNotice      dictOp = 0x0001
	opFullName    dictOp = 0x0002
	opFamilyName  dictOp = 0x0003
	opWeight      dictOp = 0x0004
	opCharset     dictOp = 0x000F
	opEncoding    dictOp = 0x0010
	opCharStrings dictOp = 0x0011
	opPrivate     dictOp = 0x0012
	opCopyright   dictOp = 0x0C00
	opROS         dictOp = 0x0C1E
	opFDArray     dictOp = 0x0C24
	opFDSelect    dictOp = 0x0C25
	opFontName    dictOp = 0x0C26
)

// operand is a single DICT operand.  The original encoding is kept, so that
// unchanged operands are written back byte for byte.
type operand struct {
	raw   []byte
	val   int32
	isInt bool
}

func intOperand(x int32) operand {
	return operand{raw: encodeInt(x), val: x, isInt: true}
}

func offsetOperand(x int32) operand {
	u := uint32(x)
	return operand{
		raw:   []byte{29, byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)},
		val:   x,
		isInt: true,
	}
}

type dictEntry struct {
	op   dictOp
	args []operand
}

// dict is a CFF DICT, with the entries in their original order.
type dict struct {
	entries []*dictEntry
}

func decodeDict(buf []byte) (*dict, error) {
	res := &dict{}
	var stack []operand

	flush := func(op dictOp) {
		res.entries = append(res.entries, &dictEntry{op: op, args: stack})
		stack = nil
	}

	for len(buf) > 0 {
		b0 := buf[0]
		switch {
		case b0 == 12:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			flush(dictOp(b0)<<8 + dictOp(buf[1]))
			buf = buf[2:]
		case b0 <= 21:
			flush(dictOp(b0))
			buf = buf[1:]
		case b0 <= 27: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		case b0 == 28:
			if len(buf) < 3 {
				return nil, errCorruptDict
			}
			stack = append(stack, operand{
				raw:   buf[:3],
				val:   int32(int16(uint16(buf[1])<<8 + uint16(buf[2]))),
				isInt: true,
			})
			buf = buf[3:]
		case b0 == 29:
			if len(buf) < 5 {
				return nil, errCorruptDict
			}
			stack = append(stack, operand{
				raw:   buf[:5],
				val:   int32(uint32(buf[1])<<24 + uint32(buf[2])<<16 + uint32(buf[3])<<8 + uint32(buf[4])),
				isInt: true,
			})
			buf = buf[5:]
		case b0 == 30:
			n, err := realLength(buf)
			if err != nil {
				return nil, err
			}
			stack = append(stack, operand{raw: buf[:n]})
			buf = buf[n:]
		case b0 == 31: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		case b0 <= 246:
			stack = append(stack, operand{
				raw:   buf[:1],
				val:   int32(b0) - 139,
				isInt: true,
			})
			buf = buf[1:]
		case b0 <= 250:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			stack = append(stack, operand{
				raw:   buf[:2],
				val:   int32(b0)*256 + int32(buf[1]) + (108 - 247*256),
				isInt: true,
			})
			buf = buf[2:]
		case b0 <= 254:
			if len(buf) < 2 {
				return nil, errCorruptDict
			}
			stack = append(stack, operand{
				raw:   buf[:2],
				val:   -int32(b0)*256 - int32(buf[1]) - (108 - 251*256),
				isInt: true,
			})
			buf = buf[2:]
		default: // values 22–27, 31, and 255 are reserved
			return nil, errCorruptDict
		}
	}

	if len(stack) > 0 {
		return nil, errCorruptDict
	}

	return res, nil
}

// realLength returns the number of bytes used by a real number operand,
// including the leading 0x1e.
func realLength(buf []byte) (int, error) {
	for i := 1; i < len(buf); i++ {
		b := buf[i]
		if b>>4 == 0xf || b&0xf == 0xf {
			return i + 1, nil
		}
	}
	return 0, errCorruptDict
}

func (d *dict) find(op dictOp) *dictEntry {
	for _, e := range d.entries {
		if e.op == op {
			return e
		}
	}
	return nil
}

func (d *dict) getInt(op dictOp) (int32, bool) {
	e := d.find(op)
	if e == nil || len(e.args) != 1 || !e.args[0].isInt {
		return 0, false
	}
	return e.args[0].val, true
}

// set replaces the operands of op, or appends a new entry if op is not
// present.
func (d *dict) set(op dictOp, args ...operand) {
	e := d.find(op)
	if e == nil {
		d.entries = append(d.entries, &dictEntry{op: op, args: args})
		return
	}
	e.args = args
}

// offsetArg returns the index of the operand which holds a file offset, or
// -1 if the entry does not refer to data in the CFF table.
func (e *dictEntry) offsetArg() int {
	switch e.op {
	case opCharset:
		// 0, 1 and 2 denote predefined charsets
		if len(e.args) == 1 && !(e.args[0].isInt && e.args[0].val <= 2) {
			return 0
		}
	case opEncoding:
		// 0 and 1 denote predefined encodings
		if len(e.args) == 1 && !(e.args[0].isInt && e.args[0].val <= 1) {
			return 0
		}
	case opCharStrings, opFDArray, opFDSelect:
		return 0
	case opPrivate:
		return 1
	}
	return -1
}

// encode converts the DICT into its binary form.  All file offsets are
// moved by shift and are written as 5-byte integers, so that the size of the
// result does not depend on shift.
func (d *dict) encode(shift int32) []byte {
	var res []byte
	for _, e := range d.entries {
		k := e.offsetArg()
		for i, arg := range e.args {
			if i == k {
				res = append(res, offsetOperand(arg.val+shift).raw...)
			} else {
				res = append(res, arg.raw...)
			}
		}
		if e.op > 255 {
			res = append(res, 12)
		}
		res = append(res, byte(e.op))
	}
	return res
}

func encodeInt(a int32) []byte {
	switch {
	case a >= -107 && a <= 107:
		return []byte{byte(a + 139)}
	case a >= 108 && a <= 1131:
		// a = (b0–247)*256+b1+108
		a -= 108
		b1 := byte(a)
		a >>= 8
		b0 := byte(a + 247)
		return []byte{b0, b1}
	case a >= -1131 && a <= -108:
		// a = -(b0–251)*256-b1-108
		a = -108 - a
		b1 := byte(a)
		a >>= 8
		b0 := byte(a + 251)
		return []byte{b0, b1}
	case a >= -32768 && a <= 32767:
		a16 := uint16(a)
		return []byte{28, byte(a16 >> 8), byte(a16)}
	default:
		a32 := uint32(a)
		return []byte{29, byte(a32 >> 24), byte(a32 >> 16), byte(a32 >> 8), byte(a32)}
	}
}
