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

package testfont

import (
	"bytes"
)

// CFFNames gives the names stored in a "CFF " table.
type CFFNames struct {
	FontName   string
	FullName   string
	FamilyName string

	// CID makes the font CID-keyed.
	CID bool
}

// CFF returns a "CFF " table with two empty glyphs.
//
// The table has the usual layout: header, Name INDEX, Top DICT INDEX,
// String INDEX, Global Subr INDEX, charset, CharStrings INDEX and Private
// DICT, in this order.
func CFF(names CFFNames) []byte {
	var strs [][]byte
	sid := func(s string) int32 {
		for i, b := range strs {
			if string(b) == s {
				return int32(391 + i)
			}
		}
		strs = append(strs, []byte(s))
		return int32(391 + len(strs) - 1)
	}

	gsubrs := index(nil)
	charset := []byte{0, 0, 34} // format 0, glyph 1 is "A"
	charStrings := CharStrings
	private := PrivateDICT

	makeTopDict := func(charsetOffs, charStringsOffs, privateOffs int32) []byte {
		d := &bytes.Buffer{}
		if names.CID {
			d.Write(dictInt(sid("Adobe")))
			d.Write(dictInt(sid("Identity")))
			d.Write(dictInt(0))
			d.Write([]byte{12, 30}) // ROS
		}
		d.Write(dictInt(379)) // "001.000"
		d.WriteByte(0)        // version
		if names.FullName != "" {
			d.Write(dictInt(sid(names.FullName)))
			d.WriteByte(2) // FullName
		}
		if names.FamilyName != "" {
			d.Write(dictInt(sid(names.FamilyName)))
			d.WriteByte(3) // FamilyName
		}
		d.Write(dictInt(388)) // "Regular"
		d.WriteByte(4)        // Weight
		d.Write(dictOffset(charsetOffs))
		d.WriteByte(15) // charset
		d.Write(dictOffset(charStringsOffs))
		d.WriteByte(17) // CharStrings
		d.Write(dictInt(int32(len(private))))
		d.Write(dictOffset(privateOffs))
		d.WriteByte(18) // Private
		return d.Bytes()
	}

	hdr := []byte{1, 0, 4, 4}
	nameIndex := index([][]byte{[]byte(names.FontName)})
	topDict := makeTopDict(0, 0, 0)
	topDictIndex := index([][]byte{topDict})
	stringIndex := index(strs)

	charsetOffs := len(hdr) + len(nameIndex) + len(topDictIndex) + len(stringIndex) + len(gsubrs)
	charStringsOffs := charsetOffs + len(charset)
	privateOffs := charStringsOffs + len(charStrings)

	topDictIndex = index([][]byte{makeTopDict(int32(charsetOffs), int32(charStringsOffs), int32(privateOffs))})

	res := &bytes.Buffer{}
	res.Write(hdr)
	res.Write(nameIndex)
	res.Write(topDictIndex)
	res.Write(stringIndex)
	res.Write(gsubrs)
	res.Write(charset)
	res.Write(charStrings)
	res.Write(private)
	return res.Bytes()
}

// PrivateDICT is the Private DICT used in the fonts generated by CFF.
var PrivateDICT = []byte{239, 20} // defaultWidthX 100

// CharStrings is the CharStrings INDEX used in the fonts generated by CFF.
var CharStrings = index([][]byte{{14}, {14}})

func index(items [][]byte) []byte {
	if len(items) == 0 {
		return []byte{0, 0}
	}
	res := []byte{byte(len(items) >> 8), byte(len(items)), 4}
	pos := uint32(1)
	for i := 0; i <= len(items); i++ {
		res = append(res, byte(pos>>24), byte(pos>>16), byte(pos>>8), byte(pos))
		if i < len(items) {
			pos += uint32(len(items[i]))
		}
	}
	for _, item := range items {
		res = append(res, item...)
	}
	return res
}

func dictInt(x int32) []byte {
	if x >= -107 && x <= 107 {
		return []byte{byte(x + 139)}
	}
	return []byte{28, byte(x >> 8), byte(x)}
}

func dictOffset(x int32) []byte {
	return []byte{29, byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)}
}
