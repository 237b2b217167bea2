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
	"errors"
)

// decodeIndex reads a CFF INDEX starting at data[pos:].  It returns the
// items of the INDEX and the position of the first byte after the INDEX.
// The returned slices point into data.
func decodeIndex(data []byte, pos int) ([][]byte, int, error) {
	if pos < 0 || pos+2 > len(data) {
		return nil, 0, errCorruptIndex
	}
	count := int(data[pos])<<8 | int(data[pos+1])
	pos += 2
	if count == 0 {
		return nil, pos, nil
	}

	if pos >= len(data) {
		return nil, 0, errCorruptIndex
	}
	offSize := int(data[pos])
	pos++
	if offSize < 1 || offSize > 4 {
		return nil, 0, errCorruptIndex
	}
	if pos+(count+1)*offSize > len(data) {
		return nil, 0, errCorruptIndex
	}

	dataStart := pos + (count+1)*offSize - 1
	offsets := make([]int, count+1)
	prevOffset := 1
	for i := 0; i <= count; i++ {
		offs := 0
		for _, x := range data[pos : pos+offSize] {
			offs = offs<<8 + int(x)
		}
		pos += offSize
		if offs < prevOffset || dataStart+offs > len(data) {
			return nil, 0, errCorruptIndex
		}
		offsets[i] = dataStart + offs
		prevOffset = offs
	}

	res := make([][]byte, count)
	for i := 0; i < count; i++ {
		res[i] = data[offsets[i]:offsets[i+1]]
	}
	return res, offsets[count], nil
}

// encodeIndex converts data into a CFF INDEX, using the smallest possible
// offset size.
func encodeIndex(data [][]byte) ([]byte, error) {
	count := len(data)
	if count >= 1<<16 {
		return nil, errors.New("too many items for CFF INDEX")
	}
	if count == 0 {
		return []byte{0, 0}, nil
	}

	bodyLength := 0
	for _, blob := range data {
		bodyLength += len(blob)
	}

	offSize := 1
	for bodyLength+1 >= 1<<(8*offSize) {
		offSize++
	}
	if offSize > 4 {
		return nil, errors.New("too much data for CFF INDEX")
	}

	res := make([]byte, 0, 3+(count+1)*offSize+bodyLength)
	res = append(res,
		byte(count>>8), byte(count), // count
		byte(offSize),               // offSize
	)

	pos := uint32(1)
	for i := 0; i <= count; i++ {
		for j := 0; j < offSize; j++ {
			res = append(res, byte(pos>>(8*(offSize-j-1))))
		}
		if i < count {
			pos += uint32(len(data[i]))
		}
	}
	for i := 0; i < count; i++ {
		res = append(res, data[i]...)
	}

	return res, nil
}
