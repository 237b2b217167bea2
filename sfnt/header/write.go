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

package header

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/bits"
	"sort"
)

// Table is a single table to be written by Write.
type Table struct {
	Tag  string
	Data []byte
}

// Write writes an sfnt file containing the given tables.
//
// The table data is written in the order given, each table padded to a
// multiple of four bytes.  The directory is sorted by tag.  The checksum
// adjustment in the "head" table is recomputed for the output; the caller's
// copy of the "head" data is not modified.
func Write(w io.Writer, scalerType uint32, tables []Table) (int64, error) {
	numTables := len(tables)

	// prepare the header
	entrySelector := bits.Len(uint(numTables)) - 1
	header := &offsets{
		ScalerType:    scalerType,
		NumTables:     uint16(numTables),
		SearchRange:   1 << (entrySelector + 4),
		EntrySelector: uint16(entrySelector),
		RangeShift:    uint16(16 * (numTables - 1<<entrySelector)),
	}

	bodies := make([][]byte, numTables)
	headIdx := -1
	for i, t := range tables {
		bodies[i] = t.Data
		if t.Tag == "head" && len(t.Data) >= 12 {
			// temporarily clear the checksum in the "head" table
			headData := bytes.Clone(t.Data)
			clearChecksum(headData)
			bodies[i] = headData
			headIdx = i
		}
	}

	var totalSum uint32
	offset := uint32(12 + 16*numTables)
	records := make([]rawRecord, numTables)
	for i, t := range tables {
		body := bodies[i]
		length := uint32(len(body))
		sum := Checksum(body)

		records[i].Tag = tag{t.Tag[0], t.Tag[1], t.Tag[2], t.Tag[3]}
		records[i].CheckSum = sum
		records[i].Offset = offset
		records[i].Length = length

		totalSum += sum
		offset += 4 * ((length + 3) / 4)
	}
	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].Tag[:], records[j].Tag[:]) < 0
	})

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, header)
	_ = binary.Write(buf, binary.BigEndian, records)
	headerBytes := buf.Bytes()
	totalSum += Checksum(headerBytes)

	// set the final checksum in the "head" table
	if headIdx >= 0 {
		patchChecksum(bodies[headIdx], totalSum)
	}

	// write the tables
	var totalSize int64
	n, err := w.Write(headerBytes)
	totalSize += int64(n)
	if err != nil {
		return totalSize, err
	}
	var pad [3]byte
	for _, body := range bodies {
		n, err := w.Write(body)
		totalSize += int64(n)
		if err != nil {
			return totalSize, err
		}
		if k := n % 4; k != 0 {
			l, err := w.Write(pad[:4-k])
			totalSize += int64(l)
			if err != nil {
				return totalSize, err
			}
		}
	}
	return totalSize, nil
}

// Checksum computes the sfnt checksum of a table.  Data which is not a
// multiple of four bytes long is implicitly padded with zeros.
func Checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var last [4]byte
		copy(last[:], data)
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// HeadChecksum computes the checksum of a "head" table, treating the
// checkSumAdjustment field as zero.
func HeadChecksum(head []byte) uint32 {
	if len(head) < 12 {
		return Checksum(head)
	}
	return Checksum(head) - binary.BigEndian.Uint32(head[8:12])
}

// clearChecksum zeros the checksum field of the head table.
func clearChecksum(head []byte) {
	binary.BigEndian.PutUint32(head[8:12], 0)
}

// patchChecksum updates the checksum of the head table.
// The argument is the checksum of the entire font before patching.
func patchChecksum(head []byte, checksum uint32) {
	binary.BigEndian.PutUint32(head[8:12], 0xB1B0AFBA-checksum)
}

// The offsets sub-table forms the first part of the file header.
type offsets struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

type tag [4]byte

// A rawRecord is part of the file header.  It contains data about a single
// sfnt table.
type rawRecord struct {
	Tag      tag
	CheckSum uint32
	Offset   uint32
	Length   uint32
}
