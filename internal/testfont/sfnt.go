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

// Package testfont builds font files for use in unit tests.
//
// The fonts contain only the tables needed by the sfntedit packages, plus a
// minimal "head" table.  Real-world coverage comes from the Go Regular font
// in GoRegular.
package testfont

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/sfntedit/sfnt/header"
)

// GoRegular returns a copy of the Go Regular TrueType font.
func GoRegular() []byte {
	return bytes.Clone(goregular.TTF)
}

// Build assembles an sfnt file from the given tables.  The tables are
// stored in the order given.
func Build(scalerType uint32, tables ...header.Table) []byte {
	buf := &bytes.Buffer{}
	_, err := header.Write(buf, scalerType, tables)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// OpenType returns an OpenType font with CFF outlines, containing the given
// "name", "CFF " and "GSUB" tables.  Tables with nil data are omitted.
func OpenType(name, cff, gsub []byte) []byte {
	tables := []header.Table{{Tag: "head", Data: Head()}}
	if name != nil {
		tables = append(tables, header.Table{Tag: "name", Data: name})
	}
	if cff != nil {
		tables = append(tables, header.Table{Tag: "CFF ", Data: cff})
	}
	if gsub != nil {
		tables = append(tables, header.Table{Tag: "GSUB", Data: gsub})
	}
	return Build(header.ScalerTypeCFF, tables...)
}

// Replace returns a copy of the font data where the given tables are
// replaced or added.  The remaining tables keep their order.
func Replace(font []byte, tables ...header.Table) []byte {
	info, err := header.Read(font)
	if err != nil {
		panic(err)
	}
	repl := make(map[string][]byte, len(tables))
	for _, t := range tables {
		repl[t.Tag] = t.Data
	}

	var out []header.Table
	for _, rec := range info.FileOrder() {
		data, ok := repl[rec.Tag]
		if ok {
			delete(repl, rec.Tag)
		} else {
			data = rec.TableData(font)
		}
		out = append(out, header.Table{Tag: rec.Tag, Data: data})
	}
	for _, t := range tables {
		if _, ok := repl[t.Tag]; ok {
			out = append(out, t)
		}
	}
	return Build(info.ScalerType, out...)
}

// Head returns a minimal "head" table.
func Head() []byte {
	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[0:], 0x00010000)  // version
	binary.BigEndian.PutUint32(head[4:], 0x00010000)  // fontRevision
	binary.BigEndian.PutUint32(head[12:], 0x5F0F3CF5) // magicNumber
	binary.BigEndian.PutUint16(head[18:], 1000)       // unitsPerEm
	binary.BigEndian.PutUint16(head[46:], 3)          // lowestRecPPEM
	binary.BigEndian.PutUint16(head[48:], 2)          // fontDirectionHint
	return head
}
