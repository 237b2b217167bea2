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

package gtab

import (
	"golang.org/x/exp/slices"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// FeatureVariation is a record of the FeatureVariations table.  The
// condition set is not decoded.
type FeatureVariation struct {
	// Substitutions is nil if the record has no FeatureTableSubstitution
	// table.
	Substitutions *FeatureSubstitutions
}

// FeatureSubstitutions is a FeatureTableSubstitution table.
// Several FeatureVariation records may share the same table.
type FeatureSubstitutions struct {
	Records []*FeatureSubstitution

	pos       int64
	version   uint32
	origCount int
}

// FeatureSubstitution replaces the Feature table of a feature when the
// conditions of the variation record are met.
type FeatureSubstitution struct {
	FeatureIndex FeatureIndex

	// alternateFeatureOffset, from the start of the FeatureTableSubstitution
	// table
	offset uint32
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#featurevariations-table
func readFeatureVariations(p *parser.Parser, pos int64, seen map[int64]*FeatureSubstitutions, spans *spanList) ([]*FeatureVariation, error) {
	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}
	buf, err := p.ReadBytes(8)
	if err != nil {
		return nil, err
	}
	majorVersion := uint16(buf[0])<<8 | uint16(buf[1])
	if majorVersion != 1 {
		return nil, &parser.NotSupportedError{
			SubSystem: "sfnt/gtab",
			Feature:   "FeatureVariations table version",
		}
	}
	count := uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	if 8*int64(count) > p.Size()-p.Pos() {
		return nil, p.Error("invalid featureVariationRecordCount %d", count)
	}

	conditionSets := make([]uint32, count)
	offsets := make([]uint32, count)
	for i := range offsets {
		buf, err := p.ReadBytes(8)
		if err != nil {
			return nil, err
		}
		conditionSets[i] = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
		offsets[i] = uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	}
	spans.add(pos, p.Pos(), false)

	res := make([]*FeatureVariation, count)
	for i, offs := range offsets {
		if conditionSets[i] != 0 {
			err = readConditionSet(p, pos+int64(conditionSets[i]), spans)
			if err != nil {
				return nil, err
			}
		}
		v := &FeatureVariation{}
		if offs != 0 {
			v.Substitutions, err = readFeatureSubstitutions(p, pos+int64(offs), seen, spans)
			if err != nil {
				return nil, err
			}
		}
		res[i] = v
	}
	return res, nil
}

// readConditionSet records the extent of a ConditionSet table and of its
// conditions.  The conditions are not interpreted.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#conditionset-table
func readConditionSet(p *parser.Parser, pos int64, spans *spanList) error {
	err := p.SeekPos(pos)
	if err != nil {
		return err
	}
	count, err := p.ReadUint16()
	if err != nil {
		return err
	}
	if 4*int64(count) > p.Size()-p.Pos() {
		return p.Error("invalid conditionCount %d", count)
	}
	offsets := make([]uint32, count)
	for i := range offsets {
		offsets[i], err = p.ReadUint32()
		if err != nil {
			return err
		}
	}
	spans.add(pos, p.Pos(), false)

	for _, offs := range offsets {
		start := pos + int64(offs)
		// Condition table format 1 has a fixed size of 8 bytes.
		if start+8 > p.Size() {
			return p.Error("condition table at %d exceeds table", start)
		}
		spans.add(start, start+8, false)
	}
	return nil
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#featuretablesubstitution-table
func readFeatureSubstitutions(p *parser.Parser, pos int64, seen map[int64]*FeatureSubstitutions, spans *spanList) (*FeatureSubstitutions, error) {
	if s, ok := seen[pos]; ok {
		return s, nil
	}

	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}
	buf, err := p.ReadBytes(6)
	if err != nil {
		return nil, err
	}
	version := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	count := int(buf[4])<<8 | int(buf[5])
	if 6*int64(count) > p.Size()-p.Pos() {
		return nil, p.Error("invalid substitutionCount %d", count)
	}

	s := &FeatureSubstitutions{
		Records:   make([]*FeatureSubstitution, count),
		pos:       pos,
		version:   version,
		origCount: count,
	}
	for i := range s.Records {
		buf, err := p.ReadBytes(6)
		if err != nil {
			return nil, err
		}
		s.Records[i] = &FeatureSubstitution{
			FeatureIndex: FeatureIndex(buf[0])<<8 | FeatureIndex(buf[1]),
			offset:       uint32(buf[2])<<24 | uint32(buf[3])<<16 | uint32(buf[4])<<8 | uint32(buf[5]),
		}
	}
	seen[pos] = s
	spans.add(pos, p.Pos(), true)

	for _, rec := range s.Records {
		start := pos + int64(rec.offset)
		err = p.SeekPos(start)
		if err != nil {
			return nil, err
		}
		err = p.Discard(2) // featureParamsOffset
		if err != nil {
			return nil, err
		}
		_, err = p.ReadUint16Slice()
		if err != nil {
			return nil, err
		}
		spans.add(start, p.Pos(), false)
	}
	return s, nil
}

func sortedSubsts(seen map[int64]*FeatureSubstitutions) []*FeatureSubstitutions {
	res := make([]*FeatureSubstitutions, 0, len(seen))
	for _, s := range seen {
		res = append(res, s)
	}
	slices.SortFunc(res, func(a, b *FeatureSubstitutions) int {
		return int(a.pos - b.pos)
	})
	return res
}

// writeTo overwrites the FeatureTableSubstitution table in buf.  The list
// of records must not be longer than the original list; the space freed by
// removed records is zeroed.
func (s *FeatureSubstitutions) writeTo(buf []byte) {
	if len(s.Records) > s.origCount {
		panic("FeatureTableSubstitution table cannot grow")
	}

	p := int(s.pos)
	end := p + 6 + 6*s.origCount
	buf[p] = byte(s.version >> 24)
	buf[p+1] = byte(s.version >> 16)
	buf[p+2] = byte(s.version >> 8)
	buf[p+3] = byte(s.version)
	buf[p+4] = byte(len(s.Records) >> 8)
	buf[p+5] = byte(len(s.Records))
	p += 6
	for _, rec := range s.Records {
		buf[p] = byte(rec.FeatureIndex >> 8)
		buf[p+1] = byte(rec.FeatureIndex)
		buf[p+2] = byte(rec.offset >> 24)
		buf[p+3] = byte(rec.offset >> 16)
		buf[p+4] = byte(rec.offset >> 8)
		buf[p+5] = byte(rec.offset)
		p += 6
	}
	clear(buf[p:end])
}
