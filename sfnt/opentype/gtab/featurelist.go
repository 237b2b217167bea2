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
	"fmt"

	"seehuhn.de/go/sfntedit/sfnt/parser"
)

// LookupIndex enumerates lookups in the LookupList.
type LookupIndex uint16

// FeatureRecord is an entry in the FeatureList.
type FeatureRecord struct {
	// Tag describes the function of this feature.
	// https://docs.microsoft.com/en-us/typography/opentype/spec/featuretags
	Tag string

	// Lookups is the list of lookup indices used by this feature.
	Lookups []LookupIndex

	// offset of the Feature table, from the start of the FeatureList
	offset uint16
}

func (f FeatureRecord) String() string {
	return fmt.Sprintf("%s:%v", f.Tag, f.Lookups)
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#feature-list-table
func readFeatureList(p *parser.Parser, pos int64, spans *spanList) ([]*FeatureRecord, error) {
	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}

	featureCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if 6*int64(featureCount) > p.Size()-p.Pos() {
		return nil, p.Error("invalid featureCount %d", featureCount)
	}

	res := make([]*FeatureRecord, featureCount)
	for i := range res {
		buf, err := p.ReadBytes(6)
		if err != nil {
			return nil, err
		}
		res[i] = &FeatureRecord{
			Tag:    string(buf[:4]),
			offset: uint16(buf[4])<<8 | uint16(buf[5]),
		}
	}
	spans.add(pos, p.Pos(), featureCount > 0)

	for _, rec := range res {
		start := pos + int64(rec.offset)
		err = p.SeekPos(start)
		if err != nil {
			return nil, err
		}
		err = p.Discard(2) // featureParamsOffset
		if err != nil {
			return nil, err
		}
		lookups, err := p.ReadUint16Slice()
		if err != nil {
			return nil, err
		}
		rec.Lookups = make([]LookupIndex, len(lookups))
		for i, l := range lookups {
			rec.Lookups[i] = LookupIndex(l)
		}
		spans.add(start, p.Pos(), false)
	}

	return res, nil
}

// writeFeatureList overwrites the FeatureList records at pos.  The list
// must not be longer than the original list of origCount records; the space
// freed by removed records is zeroed.
func writeFeatureList(buf []byte, pos int64, features []*FeatureRecord, origCount int) error {
	if len(features) > origCount {
		panic("feature list cannot grow")
	}
	end := int(pos) + 2 + 6*origCount
	if end > len(buf) {
		return &parser.InvalidFontError{
			SubSystem: "sfnt/gtab",
			Reason:    "feature list overflow",
		}
	}

	p := int(pos)
	buf[p] = byte(len(features) >> 8)
	buf[p+1] = byte(len(features))
	p += 2
	for _, f := range features {
		copy(buf[p:p+4], f.Tag)
		buf[p+4] = byte(f.offset >> 8)
		buf[p+5] = byte(f.offset)
		p += 6
	}
	clear(buf[p:end])
	return nil
}
