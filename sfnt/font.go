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

// Package sfnt loads and saves OpenType and TrueType font files.
//
// A Font keeps the bytes of every table of the file.  The "name", "CFF ",
// "GSUB" and "GPOS" tables are also decoded, so that they can be edited.
// When a font is saved, only the tables which were changed are re-encoded;
// all other tables are copied byte for byte.
package sfnt

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/sfntedit/internal/logging"
	"seehuhn.de/go/sfntedit/sfnt/cff"
	"seehuhn.de/go/sfntedit/sfnt/header"
	"seehuhn.de/go/sfntedit/sfnt/name"
	"seehuhn.de/go/sfntedit/sfnt/opentype/gtab"
)

// Table is a table of a font file.
//
// The concrete type of a Table is one of *name.Table, *cff.Table,
// *gtab.Table or Raw.
type Table interface {
	// Changed reports whether the table was modified.
	Changed() bool

	// Encode returns the binary form of the table.
	Encode() ([]byte, error)
}

// Raw is a table which is not decoded.  Raw tables never change.
type Raw []byte

// Changed implements the Table interface.
func (r Raw) Changed() bool {
	return false
}

// Encode implements the Table interface.
func (r Raw) Encode() ([]byte, error) {
	return r, nil
}

// DecodeError is returned by Load if a font file cannot be decoded.
type DecodeError struct {
	// Table is the tag of the table which could not be decoded, or the
	// empty string for errors in the table directory.
	Table string

	Err error
}

func (err *DecodeError) Error() string {
	if err.Table == "" {
		return "sfnt: invalid table directory: " + err.Err.Error()
	}
	return fmt.Sprintf("sfnt: cannot decode %q table: %v", err.Table, err.Err)
}

func (err *DecodeError) Unwrap() error {
	return err.Err
}

// Font is an sfnt font file.
type Font struct {
	ScalerType uint32

	data    []byte
	entries []*entry
}

type entry struct {
	rec   header.Record
	table Table

	// err is set for layout tables which could not be decoded.  These are
	// kept as Raw.
	err error
}

// decoders lists the tables which are decoded by Load.
var decoders = map[string]func(data []byte) (Table, error){
	"name": func(data []byte) (Table, error) {
		return name.Decode(data)
	},
	"CFF ": func(data []byte) (Table, error) {
		return cff.Decode(data)
	},
	"GSUB": func(data []byte) (Table, error) {
		return gtab.Decode("GSUB", data)
	},
	"GPOS": func(data []byte) (Table, error) {
		return gtab.Decode("GPOS", data)
	},
}

// Load decodes a font file.  The font keeps a reference to data, which must
// not be modified while the font is in use.
//
// Checksum mismatches are tolerated.  A "GSUB" or "GPOS" table which cannot
// be decoded does not make Load fail; the table is kept unchanged, and the
// error is reported by Layout.
func Load(data []byte) (*Font, error) {
	info, err := header.Read(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	f := &Font{
		ScalerType: info.ScalerType,
		data:       data,
	}
	for _, rec := range info.Records {
		body := rec.TableData(data)

		var sum uint32
		if rec.Tag == "head" {
			sum = header.HeadChecksum(body)
		} else {
			sum = header.Checksum(body)
		}
		if sum != rec.CheckSum {
			logging.Logger().Debug("checksum mismatch",
				"table", rec.Tag, "stored", rec.CheckSum, "computed", sum)
		}

		e := &entry{rec: rec, table: Raw(body)}
		if decode, ok := decoders[rec.Tag]; ok {
			table, err := decode(body)
			switch {
			case err == nil:
				e.table = table
			case rec.Tag == "GSUB" || rec.Tag == "GPOS":
				e.err = &DecodeError{Table: rec.Tag, Err: err}
				logging.Logger().Warn("layout table not decoded",
					"table", rec.Tag, "err", err)
			default:
				return nil, &DecodeError{Table: rec.Tag, Err: err}
			}
		}
		f.entries = append(f.entries, e)
	}
	return f, nil
}

// Tags returns the tags of all tables, in the order of the table
// directory.
func (f *Font) Tags() []string {
	res := make([]string, len(f.entries))
	for i, e := range f.entries {
		res[i] = e.rec.Tag
	}
	return res
}

// Has reports whether the font contains the given table.
func (f *Font) Has(tag string) bool {
	return f.find(tag) != nil
}

// Table returns the given table, or nil if the table is not present.
func (f *Font) Table(tag string) Table {
	e := f.find(tag)
	if e == nil {
		return nil
	}
	return e.table
}

// Name returns the "name" table, or nil if the font has no "name" table.
func (f *Font) Name() *name.Table {
	t, _ := f.Table("name").(*name.Table)
	return t
}

// CFF returns the "CFF " table, or nil if the font has no CFF outlines.
func (f *Font) CFF() *cff.Table {
	t, _ := f.Table("CFF ").(*cff.Table)
	return t
}

// GSUB returns the "GSUB" table, or nil if the font has no decodable
// "GSUB" table.
func (f *Font) GSUB() *gtab.Table {
	t, _ := f.Layout("GSUB")
	return t
}

// GPOS returns the "GPOS" table, or nil if the font has no decodable
// "GPOS" table.
func (f *Font) GPOS() *gtab.Table {
	t, _ := f.Layout("GPOS")
	return t
}

// Layout returns the "GSUB" or "GPOS" table with the given tag.  If the
// font has no such table, nil is returned with a nil error.  If the table
// is present but could not be decoded, the *DecodeError found by Load is
// returned.
func (f *Font) Layout(tag string) (*gtab.Table, error) {
	e := f.find(tag)
	if e == nil {
		return nil, nil
	}
	if e.err != nil {
		return nil, e.err
	}
	t, _ := e.table.(*gtab.Table)
	return t, nil
}

// Changed reports whether any table was modified.
func (f *Font) Changed() bool {
	for _, e := range f.entries {
		if e.table.Changed() {
			return true
		}
	}
	return false
}

// Encode returns the binary form of the font.  If no table was changed,
// the original data is returned.  Otherwise, the tables are stored in their
// original order, the table directory is sorted by tag, and all checksums
// are recomputed.
func (f *Font) Encode() ([]byte, error) {
	if !f.Changed() {
		return f.data, nil
	}

	order := slices.Clone(f.entries)
	sortByOffset(order)

	tables := make([]header.Table, len(order))
	var changed []string
	for i, e := range order {
		var body []byte
		if e.table.Changed() {
			var err error
			body, err = e.table.Encode()
			if err != nil {
				return nil, fmt.Errorf("sfnt: encoding %q table: %w", e.rec.Tag, err)
			}
			changed = append(changed, e.rec.Tag)
		} else {
			body = e.rec.TableData(f.data)
		}
		tables[i] = header.Table{Tag: e.rec.Tag, Data: body}
	}
	logging.Logger().Debug("encoding font", "changed", strings.Join(changed, ","))

	buf := &bytes.Buffer{}
	_, err := header.Write(buf, f.ScalerType, tables)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *Font) find(tag string) *entry {
	for _, e := range f.entries {
		if e.rec.Tag == tag {
			return e
		}
	}
	return nil
}
