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

// Package cff gives access to the font names stored in the "CFF " table of
// an OpenType font.
//
// Only the Name INDEX, the Top DICTs and the String INDEX are decoded.  All
// data following the String INDEX (global subroutines, charsets, encodings,
// CharStrings and Private DICTs) is kept as an opaque block.  When names are
// changed, this block is moved as a whole and the offsets in the Top DICTs
// are adjusted.
//
// https://adobe-type-tools.github.io/font-tech-notes/pdfs/5176.CFF.pdf
package cff

import (
	"errors"
	"fmt"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// Table is a decoded "CFF " table.
type Table struct {
	data []byte

	header   []byte
	names    [][]byte
	topDicts []*dict
	strings  [][]byte

	// tailStart is the offset of the Global Subr INDEX.
	tailStart int

	editErr error
	changed bool
}

// ErrCIDKeyed is returned when trying to modify a CID-keyed font.
var ErrCIDKeyed = errors.New("cff: CID-keyed fonts cannot be modified")

// Decode reads the names from a "CFF " table.
func Decode(data []byte) (*Table, error) {
	if len(data) < 4 {
		return nil, invalidSince("header too short")
	}
	major := data[0]
	if major != 1 {
		return nil, &parser.NotSupportedError{
			SubSystem: "sfnt/cff",
			Feature:   fmt.Sprintf("CFF version %d", major),
		}
	}
	hdrSize := int(data[2])
	if hdrSize < 4 || hdrSize > len(data) {
		return nil, invalidSince("invalid header size")
	}

	names, pos, err := decodeIndex(data, hdrSize)
	if err != nil {
		return nil, fmt.Errorf("Name INDEX: %w", err)
	}
	if len(names) == 0 {
		return nil, invalidSince("no fonts in Name INDEX")
	}
	topDictData, pos, err := decodeIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("Top DICT INDEX: %w", err)
	}
	if len(topDictData) != len(names) {
		return nil, invalidSince(fmt.Sprintf("%d Top DICTs for %d fonts",
			len(topDictData), len(names)))
	}
	strings, pos, err := decodeIndex(data, pos)
	if err != nil {
		return nil, fmt.Errorf("String INDEX: %w", err)
	}

	t := &Table{
		data:      data,
		header:    data[:hdrSize],
		names:     names,
		strings:   strings,
		tailStart: pos,
	}
	for _, buf := range topDictData {
		d, err := decodeDict(buf)
		if err != nil {
			return nil, err
		}
		t.topDicts = append(t.topDicts, d)
	}

	t.editErr = t.checkRelocatable()

	return t, nil
}

// checkRelocatable verifies that all data referenced from the Top DICTs
// is located after the String INDEX.
func (t *Table) checkRelocatable() error {
	for i := range t.topDicts {
		if t.IsCIDKeyed(i) {
			return ErrCIDKeyed
		}
	}
	for _, d := range t.topDicts {
		for _, e := range d.entries {
			k := e.offsetArg()
			if k < 0 {
				continue
			}
			if k >= len(e.args) || !e.args[k].isInt {
				return invalidSince(fmt.Sprintf("malformed %s operand", e.op))
			}
			offs := int(e.args[k].val)
			if offs < t.tailStart || offs > len(t.data) {
				return invalidSince(fmt.Sprintf("%s offset %d outside relocatable data", e.op, offs))
			}
		}
	}
	return nil
}

// NumFonts returns the number of fonts in the table.
// OpenType fonts have exactly one font in the "CFF " table.
func (t *Table) NumFonts() int {
	return len(t.names)
}

// IsCIDKeyed reports whether font i is CID-keyed.
func (t *Table) IsCIDKeyed(i int) bool {
	return t.topDicts[i].find(opROS) != nil
}

// Editable returns an error if the names of the table cannot be changed.
// This is the case for CID-keyed fonts and for tables where data is stored
// before the end of the String INDEX.
func (t *Table) Editable() error {
	return t.editErr
}

// FontName returns the PostScript name of font i, as given in the Name
// INDEX.
func (t *Table) FontName(i int) string {
	return string(t.names[i])
}

// SetFontName changes the entry of font i in the Name INDEX.
func (t *Table) SetFontName(i int, name string) error {
	if t.editErr != nil {
		return t.editErr
	}
	if string(t.names[i]) == name {
		return nil
	}
	t.names[i] = []byte(name)
	t.changed = true
	return nil
}

// FullName returns the FullName entry of the Top DICT of font i.
func (t *Table) FullName(i int) (string, bool) {
	return t.getString(i, opFullName)
}

// SetFullName changes the FullName entry of the Top DICT of font i.
func (t *Table) SetFullName(i int, s string) error {
	return t.setString(i, opFullName, s)
}

// FamilyName returns the FamilyName entry of the Top DICT of font i.
func (t *Table) FamilyName(i int) (string, bool) {
	return t.getString(i, opFamilyName)
}

// SetFamilyName changes the FamilyName entry of the Top DICT of font i.
func (t *Table) SetFamilyName(i int, s string) error {
	return t.setString(i, opFamilyName, s)
}

// Changed reports whether any names were modified.
func (t *Table) Changed() bool {
	return t.changed
}

func (t *Table) getString(i int, op dictOp) (string, bool) {
	sid, ok := t.topDicts[i].getInt(op)
	if !ok {
		return "", false
	}
	return t.lookupString(sid)
}

func (t *Table) setString(i int, op dictOp, s string) error {
	if t.editErr != nil {
		return t.editErr
	}
	if old, ok := t.getString(i, op); ok && old == s {
		return nil
	}
	sid, err := t.stringID(s)
	if err != nil {
		return err
	}
	t.topDicts[i].set(op, intOperand(sid))
	t.changed = true
	return nil
}

func (t *Table) lookupString(sid int32) (string, bool) {
	if sid < 0 {
		return "", false
	}
	if sid < nStdStrings {
		return stdStrings[sid], true
	}
	k := int(sid - nStdStrings)
	if k >= len(t.strings) {
		return "", false
	}
	return string(t.strings[k]), true
}

// stringID returns the SID for s, adding s to the String INDEX if needed.
func (t *Table) stringID(s string) (int32, error) {
	if sid, ok := stdStringIndex[s]; ok {
		return sid, nil
	}
	for k, b := range t.strings {
		if string(b) == s {
			return int32(k) + nStdStrings, nil
		}
	}
	if nStdStrings+len(t.strings) >= 1<<16 {
		return 0, invalidSince("too many strings")
	}
	t.strings = append(t.strings, []byte(s))
	return int32(len(t.strings)-1) + nStdStrings, nil
}

// Encode converts the table into its binary form.  If no names were
// changed, the original data is returned.
func (t *Table) Encode() ([]byte, error) {
	if !t.changed {
		return t.data, nil
	}
	if t.editErr != nil {
		return nil, t.editErr
	}

	nameIndex, err := encodeIndex(t.names)
	if err != nil {
		return nil, err
	}
	stringIndex, err := encodeIndex(t.strings)
	if err != nil {
		return nil, err
	}

	// The size of the Top DICTs does not depend on the shift.
	topDicts := make([][]byte, len(t.topDicts))
	for i, d := range t.topDicts {
		topDicts[i] = d.encode(0)
	}
	topDictIndex, err := encodeIndex(topDicts)
	if err != nil {
		return nil, err
	}
	newTailStart := len(t.header) + len(nameIndex) + len(topDictIndex) + len(stringIndex)
	shift := int32(newTailStart - t.tailStart)
	if shift != 0 {
		for i, d := range t.topDicts {
			topDicts[i] = d.encode(shift)
		}
		topDictIndex, err = encodeIndex(topDicts)
		if err != nil {
			return nil, err
		}
	}

	tail := t.data[t.tailStart:]
	res := make([]byte, 0, newTailStart+len(tail))
	res = append(res, t.header...)
	res = append(res, nameIndex...)
	res = append(res, topDictIndex...)
	res = append(res, stringIndex...)
	res = append(res, tail...)
	if len(res) != newTailStart+len(tail) {
		panic("inconsistent CFF layout")
	}
	return res, nil
}

func invalidSince(reason string) error {
	return &parser.InvalidFontError{
		SubSystem: "sfnt/cff",
		Reason:    reason,
	}
}

var (
	errCorruptDict  = invalidSince("invalid DICT")
	errCorruptIndex = invalidSince("invalid INDEX")
)
