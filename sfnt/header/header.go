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

// Package header reads and writes the table directory of sfnt font files.
// https://docs.microsoft.com/en-us/typography/opentype/spec/otff#table-directory
package header

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// Scaler types found at the start of sfnt files.
const (
	ScalerTypeTrueType   = 0x00010000
	ScalerTypeCFF        = 0x4F54544F // "OTTO"
	ScalerTypeApple      = 0x74727565 // "true"
	ScalerTypeCollection = 0x74746366 // "ttcf"
	ScalerTypeWOFF       = 0x774F4646 // "wOFF"
	ScalerTypeWOFF2      = 0x774F4632 // "wOF2"
)

// Info describes the table directory of an sfnt file.
type Info struct {
	ScalerType uint32

	// Records lists the table records in the order in which they appear in
	// the directory.
	Records []Record
}

// Record is a single entry of the table directory.
type Record struct {
	Tag      string
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// Read decodes the table directory at the start of data.
func Read(data []byte) (*Info, error) {
	if len(data) < 12 {
		return nil, errInvalid("file too short")
	}
	scalerType := binary.BigEndian.Uint32(data[0:4])
	numTables := int(binary.BigEndian.Uint16(data[4:6]))

	switch scalerType {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
		// pass
	case ScalerTypeCollection:
		return nil, errNotSupported("font collections")
	case ScalerTypeWOFF, ScalerTypeWOFF2:
		return nil, errNotSupported("WOFF files")
	default:
		return nil, errNotSupported(fmt.Sprintf("scaler type 0x%08x", scalerType))
	}
	if numTables == 0 {
		return nil, errInvalid("no tables found")
	}
	if 12+16*numTables > len(data) {
		return nil, errInvalid("table directory exceeds file size")
	}

	info := &Info{
		ScalerType: scalerType,
		Records:    make([]Record, numTables),
	}
	seen := make(map[string]bool, numTables)
	fileSize := uint64(len(data))
	for i := range info.Records {
		buf := data[12+16*i : 28+16*i]
		tag := string(buf[:4])
		if !isValidTag(tag) {
			return nil, errInvalid(fmt.Sprintf("invalid table tag %q", tag))
		}
		if seen[tag] {
			return nil, errInvalid(fmt.Sprintf("duplicate table %q", tag))
		}
		seen[tag] = true

		rec := Record{
			Tag:      tag,
			CheckSum: binary.BigEndian.Uint32(buf[4:8]),
			Offset:   binary.BigEndian.Uint32(buf[8:12]),
			Length:   binary.BigEndian.Uint32(buf[12:16]),
		}
		if uint64(rec.Offset) < uint64(12+16*numTables) ||
			uint64(rec.Offset)+uint64(rec.Length) > fileSize {
			return nil, errInvalid(fmt.Sprintf("table %q extends beyond EOF", tag))
		}
		info.Records[i] = rec
	}

	// perform some sanity checks
	coverage := info.FileOrder()
	for i := 1; i < len(coverage); i++ {
		prev := coverage[i-1]
		if prev.Offset+prev.Length > coverage[i].Offset {
			return nil, errInvalid(fmt.Sprintf("tables %q and %q overlap",
				prev.Tag, coverage[i].Tag))
		}
	}

	return info, nil
}

// FileOrder returns the table records sorted by their position in the file.
func (info *Info) FileOrder() []Record {
	res := slices.Clone(info.Records)
	slices.SortStableFunc(res, func(a, b Record) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return res
}

// TableData returns the bytes of the given table.
// The returned slice shares memory with data.
func (rec Record) TableData(data []byte) []byte {
	return data[rec.Offset : rec.Offset+rec.Length : rec.Offset+rec.Length]
}

func isValidTag(tag string) bool {
	for i := 0; i < len(tag); i++ {
		if tag[i] < 0x20 || tag[i] > 0x7E {
			return false
		}
	}
	return true
}

func errInvalid(reason string) error {
	return &parser.InvalidFontError{
		SubSystem: "sfnt/header",
		Reason:    reason,
	}
}

func errNotSupported(feature string) error {
	return &parser.NotSupportedError{
		SubSystem: "sfnt/header",
		Feature:   feature,
	}
}
