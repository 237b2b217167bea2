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

// Package gtab reads and edits the feature indices of OpenType "GSUB" and
// "GPOS" tables.
//
// Only the parts of the table which refer to the FeatureList are decoded:
// the ScriptList with its LangSys tables, the FeatureList records, and the
// FeatureTableSubstitution tables of a FeatureVariations table.  Lookups,
// Feature tables and all other data are never touched.
//
// Removing features only ever shrinks the decoded structures.  The encoder
// therefore rewrites them in place, at their original offsets, and all
// other bytes of the table are kept unchanged.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2
package gtab

import (
	"bytes"
	"fmt"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// FeatureIndex enumerates features.
// It is used as an index into Table.Features.
// Valid values are in the range from 0 to 0xFFFE.
type FeatureIndex uint16

// NoRequiredFeature is used in LangSys.Required to indicate that a
// language system has no required feature.
const NoRequiredFeature FeatureIndex = 0xFFFF

// Table is a decoded "GSUB" or "GPOS" table.
type Table struct {
	// Name is the table tag, "GSUB" or "GPOS".
	Name string

	MajorVersion, MinorVersion uint16

	Scripts    []*Script
	Features   []*FeatureRecord
	Variations []*FeatureVariation

	data []byte

	featureListPos  int64
	numFeaturesOrig int

	langSys []*LangSys
	substs  []*FeatureSubstitutions

	changed bool
}

// Decode reads the script, feature and feature variation information from
// a "GSUB" or "GPOS" table.  The table name is used in error messages.
func Decode(tableName string, data []byte) (*Table, error) {
	p := parser.New(tableName, bytes.NewReader(data))

	buf, err := p.ReadBytes(10)
	if err != nil {
		return nil, err
	}
	majorVersion := uint16(buf[0])<<8 | uint16(buf[1])
	minorVersion := uint16(buf[2])<<8 | uint16(buf[3])
	scriptListOffset := uint16(buf[4])<<8 | uint16(buf[5])
	featureListOffset := uint16(buf[6])<<8 | uint16(buf[7])
	lookupListOffset := uint16(buf[8])<<8 | uint16(buf[9])
	if majorVersion != 1 || minorVersion > 1 {
		return nil, &parser.NotSupportedError{
			SubSystem: "sfnt/" + tableName,
			Feature:   fmt.Sprintf("table version %d.%d", majorVersion, minorVersion),
		}
	}
	var featureVariationsOffset uint32
	if minorVersion == 1 {
		featureVariationsOffset, err = p.ReadUint32()
		if err != nil {
			return nil, err
		}
	}

	t := &Table{
		Name:         tableName,
		MajorVersion: majorVersion,
		MinorVersion: minorVersion,
		data:         data,
	}
	spans := &spanList{}
	spans.add(0, p.Pos(), false)

	if featureListOffset != 0 {
		t.featureListPos = int64(featureListOffset)
		t.Features, err = readFeatureList(p, t.featureListPos, spans)
		if err != nil {
			return nil, err
		}
		t.numFeaturesOrig = len(t.Features)
	}

	if scriptListOffset != 0 {
		seen := make(map[int64]*LangSys)
		t.Scripts, err = readScriptList(p, int64(scriptListOffset), seen, spans)
		if err != nil {
			return nil, err
		}
		t.langSys = sortedLangSys(seen)
	}

	if featureVariationsOffset != 0 {
		seen := make(map[int64]*FeatureSubstitutions)
		t.Variations, err = readFeatureVariations(p, int64(featureVariationsOffset), seen, spans)
		if err != nil {
			return nil, err
		}
		t.substs = sortedSubsts(seen)
	}

	if lookupListOffset != 0 {
		err = readLookupList(p, int64(lookupListOffset), spans)
		if err != nil {
			return nil, err
		}
	}

	// The FeatureList, LangSys and FeatureTableSubstitution tables are
	// rewritten in place and must not share bytes with other structures.
	if err := spans.checkOverlap(tableName); err != nil {
		return nil, err
	}

	return t, nil
}

// readLookupList records the extent of the LookupList header.  The lookups
// themselves are not decoded.
func readLookupList(p *parser.Parser, pos int64, spans *spanList) error {
	err := p.SeekPos(pos)
	if err != nil {
		return err
	}
	count, err := p.ReadUint16()
	if err != nil {
		return err
	}
	if 2*int64(count) > p.Size()-p.Pos() {
		return p.Error("invalid lookupCount %d", count)
	}
	spans.add(pos, p.Pos()+2*int64(count), false)
	return nil
}

// Changed reports whether the table was modified since it was decoded.
func (t *Table) Changed() bool {
	return t.changed
}

// LangSys returns all distinct LangSys tables, in file order.
// LangSys tables shared between several scripts or languages are listed
// only once.
func (t *Table) LangSys() []*LangSys {
	return t.langSys
}

// Encode returns the binary form of the table.  If the table was not
// modified, the original data is returned.
func (t *Table) Encode() ([]byte, error) {
	if !t.changed {
		return t.data, nil
	}

	buf := bytes.Clone(t.data)
	if t.numFeaturesOrig > 0 || len(t.Features) > 0 {
		err := writeFeatureList(buf, t.featureListPos, t.Features, t.numFeaturesOrig)
		if err != nil {
			return nil, err
		}
	}
	for _, ls := range t.langSys {
		ls.writeTo(buf)
	}
	for _, s := range t.substs {
		s.writeTo(buf)
	}
	return buf, nil
}

func invalidSince(tableName, reason string) error {
	return &parser.InvalidFontError{
		SubSystem: "sfnt/" + tableName,
		Reason:    reason,
	}
}
