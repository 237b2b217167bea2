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

// Package name has code for reading and writing OpenType "name" tables.
// These tables contain localized strings associated with a font.
//
// Unlike a full decoder, this package keeps every name record of the
// original table, in the original order, together with its raw bytes.
// Records which are changed are re-encoded using their own platform and
// encoding IDs.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/name
package name

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// ID is the role of a name record.
type ID uint16

// Name IDs used by this package.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#name-ids
const (
	Copyright            ID = 0
	Family               ID = 1
	Subfamily            ID = 2
	UniqueID             ID = 3
	FullName             ID = 4
	Version              ID = 5
	PostScriptName       ID = 6
	Trademark            ID = 7
	TypographicFamily    ID = 16
	TypographicSubfamily ID = 17
	WWSFamily            ID = 21
	WWSSubfamily         ID = 22
)

func (id ID) String() string {
	switch id {
	case Copyright:
		return "Copyright"
	case Family:
		return "Family"
	case Subfamily:
		return "Subfamily"
	case UniqueID:
		return "UniqueID"
	case FullName:
		return "FullName"
	case Version:
		return "Version"
	case PostScriptName:
		return "PostScriptName"
	case Trademark:
		return "Trademark"
	case TypographicFamily:
		return "TypographicFamily"
	case TypographicSubfamily:
		return "TypographicSubfamily"
	case WWSFamily:
		return "WWSFamily"
	case WWSSubfamily:
		return "WWSSubfamily"
	default:
		return fmt.Sprintf("name ID %d", uint16(id))
	}
}

// Table is a decoded "name" table.
type Table struct {
	// Format is the table version, 0 or 1.
	Format uint16

	// Records lists all name records in their original order.
	Records []*Record

	// LangTags contains the language-tag strings of format 1 tables.
	// Language ID 0x8000+i refers to LangTags[i].
	LangTags []string

	langTagData [][]byte
}

// Record is a single name record.
type Record struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     ID

	data    []byte
	text    string
	err     error
	changed bool
}

// RecordError is returned when a name record cannot be decoded or encoded.
type RecordError struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     ID
	Err        error
}

func (err *RecordError) Error() string {
	return fmt.Sprintf("name record %d/%d/0x%04x %s: %v",
		err.PlatformID, err.EncodingID, err.LanguageID, err.NameID, err.Err)
}

func (err *RecordError) Unwrap() error {
	return err.Err
}

// NewRecord allocates a new name record with the given text.
func NewRecord(platformID, encodingID, languageID uint16, nameID ID, text string) (*Record, error) {
	r := &Record{
		PlatformID: platformID,
		EncodingID: encodingID,
		LanguageID: languageID,
		NameID:     nameID,
	}
	err := r.SetText(text)
	if err != nil {
		return nil, err
	}
	r.changed = false
	return r, nil
}

// Text returns the decoded string of the record.
// If the record could not be decoded, a *RecordError is returned.
func (r *Record) Text() (string, error) {
	if r.err != nil {
		return "", r.recordError(r.err)
	}
	return r.text, nil
}

// SetText replaces the string of the record.  The text is encoded using
// the character encoding given by the platform and encoding IDs of the
// record.  On failure, the record is left unchanged and a *RecordError is
// returned.
func (r *Record) SetText(s string) error {
	data, err := encodeString(r.PlatformID, r.EncodingID, s)
	if err != nil {
		return r.recordError(err)
	}
	if len(data) > 0xFFFF {
		return r.recordError(errStringTooLong)
	}
	if r.err == nil && r.text == s && bytes.Equal(data, r.data) {
		return nil
	}
	r.data = data
	r.text = s
	r.err = nil
	r.changed = true
	return nil
}

// Bytes returns the encoded string of the record.
// The returned slice must not be modified.
func (r *Record) Bytes() []byte {
	return r.data
}

// Changed reports whether the record was modified since it was decoded.
func (r *Record) Changed() bool {
	return r.changed
}

func (r *Record) recordError(err error) error {
	return &RecordError{
		PlatformID: r.PlatformID,
		EncodingID: r.EncodingID,
		LanguageID: r.LanguageID,
		NameID:     r.NameID,
		Err:        err,
	}
}

// Find returns all records with the given name ID, in table order.
func (t *Table) Find(id ID) []*Record {
	var res []*Record
	for _, r := range t.Records {
		if r.NameID == id {
			res = append(res, r)
		}
	}
	return res
}

// Changed reports whether any record was modified since the table was
// decoded.
func (t *Table) Changed() bool {
	for _, r := range t.Records {
		if r.changed {
			return true
		}
	}
	return false
}

// Decode extracts the records of a "name" table.
// Records with an unknown encoding are kept with their raw bytes; for these
// records Text returns a *RecordError.
func Decode(data []byte) (*Table, error) {
	if len(data) < 6 {
		return nil, errMalformedNames
	}
	format := uint16(data[0])<<8 | uint16(data[1])
	numRec := int(data[2])<<8 | int(data[3])
	storageOffset := int(data[4])<<8 | int(data[5])

	if format > 1 {
		return nil, &parser.NotSupportedError{
			SubSystem: "sfnt/name",
			Feature:   fmt.Sprintf("name table format %d", format),
		}
	}

	recBase := 6
	endOfHeader := recBase + 12*numRec
	if endOfHeader > len(data) {
		return nil, errMalformedNames
	}

	numLang := 0
	if format > 0 {
		if endOfHeader+2 > len(data) {
			return nil, errMalformedNames
		}
		numLang = int(data[endOfHeader])<<8 | int(data[endOfHeader+1])
		endOfHeader += 2 + numLang*4
		if endOfHeader > len(data) {
			return nil, errMalformedNames
		}
	}
	if storageOffset > len(data) {
		return nil, errMalformedNames
	}
	storage := data[storageOffset:]

	t := &Table{
		Format:  format,
		Records: make([]*Record, numRec),
	}
	for i := 0; i < numRec; i++ {
		pos := recBase + i*12
		nameLen := int(data[pos+8])<<8 | int(data[pos+9])
		nameOffset := int(data[pos+10])<<8 | int(data[pos+11])
		if nameOffset+nameLen > len(storage) {
			return nil, errMalformedNames
		}

		r := &Record{
			PlatformID: uint16(data[pos])<<8 | uint16(data[pos+1]),
			EncodingID: uint16(data[pos+2])<<8 | uint16(data[pos+3]),
			LanguageID: uint16(data[pos+4])<<8 | uint16(data[pos+5]),
			NameID:     ID(data[pos+6])<<8 | ID(data[pos+7]),
			data:       bytes.Clone(storage[nameOffset : nameOffset+nameLen]),
		}
		r.text, r.err = decodeString(r.PlatformID, r.EncodingID, r.data)
		t.Records[i] = r
	}

	if format > 0 {
		langBase := recBase + 12*numRec + 2
		for i := 0; i < numLang; i++ {
			pos := langBase + 4*i
			tagLen := int(data[pos])<<8 | int(data[pos+1])
			tagOffset := int(data[pos+2])<<8 | int(data[pos+3])
			if tagOffset+tagLen > len(storage) {
				return nil, errMalformedNames
			}
			raw := bytes.Clone(storage[tagOffset : tagOffset+tagLen])
			t.langTagData = append(t.langTagData, raw)
			tag, _ := decodeString(0, 4, raw)
			t.LangTags = append(t.LangTags, tag)
		}
	}

	return t, nil
}

// Encode converts a "name" table into its binary form.
// Records are written in the order given by t.Records; identical strings
// share storage.
func (t *Table) Encode() ([]byte, error) {
	numRec := len(t.Records)
	numLang := 0
	if t.Format > 0 {
		numLang = len(t.langTagData)
	}
	if numRec > 0xFFFF || numLang > 0xFFFF {
		return nil, errTooManyRecords
	}

	b := newNameBuilder()
	type span struct {
		offset, length uint16
	}
	recSpans := make([]span, numRec)
	for i, r := range t.Records {
		offset, length, err := b.Add(r.data)
		if err != nil {
			return nil, err
		}
		recSpans[i] = span{offset, length}
	}
	langSpans := make([]span, numLang)
	for i := 0; i < numLang; i++ {
		offset, length, err := b.Add(t.langTagData[i])
		if err != nil {
			return nil, err
		}
		langSpans[i] = span{offset, length}
	}

	startOfStrings := 6 + numRec*12
	if t.Format > 0 {
		startOfStrings += 2 + 4*numLang
	}
	if startOfStrings > 0xFFFF {
		return nil, errTooManyRecords
	}
	res := make([]byte, startOfStrings+len(b.data))

	res[0] = byte(t.Format >> 8)
	res[1] = byte(t.Format)
	res[2] = byte(numRec >> 8)
	res[3] = byte(numRec)
	res[4] = byte(startOfStrings >> 8)
	res[5] = byte(startOfStrings)
	for i, rec := range t.Records {
		base := 6 + i*12
		res[base] = byte(rec.PlatformID >> 8)
		res[base+1] = byte(rec.PlatformID)
		res[base+2] = byte(rec.EncodingID >> 8)
		res[base+3] = byte(rec.EncodingID)
		res[base+4] = byte(rec.LanguageID >> 8)
		res[base+5] = byte(rec.LanguageID)
		res[base+6] = byte(rec.NameID >> 8)
		res[base+7] = byte(rec.NameID)
		res[base+8] = byte(recSpans[i].length >> 8)
		res[base+9] = byte(recSpans[i].length)
		res[base+10] = byte(recSpans[i].offset >> 8)
		res[base+11] = byte(recSpans[i].offset)
	}
	if t.Format > 0 {
		base := 6 + numRec*12
		res[base] = byte(numLang >> 8)
		res[base+1] = byte(numLang)
		for i, s := range langSpans {
			pos := base + 2 + 4*i
			res[pos] = byte(s.length >> 8)
			res[pos+1] = byte(s.length)
			res[pos+2] = byte(s.offset >> 8)
			res[pos+3] = byte(s.offset)
		}
	}
	copy(res[startOfStrings:], b.data)

	return res, nil
}

type nameBuilder struct {
	data []byte
	idx  map[string]uint16
}

func newNameBuilder() *nameBuilder {
	return &nameBuilder{
		idx: make(map[string]uint16),
	}
}

func (nb *nameBuilder) Add(b []byte) (offs, length uint16, err error) {
	key := string(b)
	if idx, ok := nb.idx[key]; ok {
		return idx, uint16(len(b)), nil
	}
	if len(nb.data) > 0xFFFF || len(b) > 0xFFFF {
		return 0, 0, errStorageOverflow
	}
	idx := uint16(len(nb.data))
	nb.idx[key] = idx
	nb.data = append(nb.data, b...)
	return idx, uint16(len(b)), nil
}

var (
	errMalformedNames = &parser.InvalidFontError{
		SubSystem: "sfnt/name",
		Reason:    "malformed name table",
	}
	errTooManyRecords = &parser.InvalidFontError{
		SubSystem: "sfnt/name",
		Reason:    "too many name records",
	}
	errStorageOverflow = &parser.InvalidFontError{
		SubSystem: "sfnt/name",
		Reason:    "string storage exceeds 64kB",
	}
	errStringTooLong = &parser.InvalidFontError{
		SubSystem: "sfnt/name",
		Reason:    "string too long",
	}
)
