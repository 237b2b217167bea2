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

// Script is an entry in the ScriptList.
type Script struct {
	Tag string

	// DefaultLangSys is nil if the script has no default language system.
	DefaultLangSys *LangSys

	LangSys []*LangSysRecord
}

// LangSysRecord associates a language system tag with a LangSys table.
type LangSysRecord struct {
	Tag     string
	LangSys *LangSys
}

// LangSys describes the features used by a language system.
// Several Script and LangSysRecord entries may point to the same LangSys.
type LangSys struct {
	// Required is NoRequiredFeature if there is no required feature.
	Required FeatureIndex

	// Features lists the indices of the optional features.
	Features []FeatureIndex

	pos         int64
	lookupOrder uint16
	origCount   int
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#script-list-table-and-script-record
func readScriptList(p *parser.Parser, pos int64, seen map[int64]*LangSys, spans *spanList) ([]*Script, error) {
	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}

	scriptCount, err := p.ReadUint16()
	if err != nil {
		return nil, err
	}
	if 6*int64(scriptCount) > p.Size()-p.Pos() {
		return nil, p.Error("invalid scriptCount %d", scriptCount)
	}

	type scriptRecord struct {
		tag    string
		offset uint16
	}
	records := make([]scriptRecord, scriptCount)
	for i := range records {
		buf, err := p.ReadBytes(6)
		if err != nil {
			return nil, err
		}
		records[i] = scriptRecord{
			tag:    string(buf[:4]),
			offset: uint16(buf[4])<<8 | uint16(buf[5]),
		}
		if int(records[i].offset) < 2+6*int(scriptCount) {
			return nil, p.Error("invalid script table offset %d", records[i].offset)
		}
	}
	spans.add(pos, p.Pos(), false)

	res := make([]*Script, len(records))
	for i, rec := range records {
		script, err := readScriptTable(p, pos+int64(rec.offset), seen, spans)
		if err != nil {
			return nil, err
		}
		script.Tag = rec.tag
		res[i] = script
	}
	return res, nil
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#script-table-and-language-system-record
func readScriptTable(p *parser.Parser, pos int64, seen map[int64]*LangSys, spans *spanList) (*Script, error) {
	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}

	data, err := p.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	defaultLangSysOffset := uint16(data[0])<<8 | uint16(data[1])
	langSysCount := uint16(data[2])<<8 | uint16(data[3])

	if defaultLangSysOffset > 0 && int(defaultLangSysOffset) < 4+6*int(langSysCount) {
		return nil, p.Error("invalid defaultLangSysOffset %d", defaultLangSysOffset)
	}
	if 6*int64(langSysCount) > p.Size()-p.Pos() {
		return nil, p.Error("invalid langSysCount %d", langSysCount)
	}

	type langSysRecord struct {
		tag    string
		offset uint16
	}
	records := make([]langSysRecord, langSysCount)
	for i := range records {
		buf, err := p.ReadBytes(6)
		if err != nil {
			return nil, err
		}
		records[i] = langSysRecord{
			tag:    string(buf[:4]),
			offset: uint16(buf[4])<<8 | uint16(buf[5]),
		}
	}
	spans.add(pos, p.Pos(), false)

	script := &Script{}
	if defaultLangSysOffset != 0 {
		script.DefaultLangSys, err = readLangSysTable(p, pos+int64(defaultLangSysOffset), seen, spans)
		if err != nil {
			return nil, err
		}
	}
	for _, rec := range records {
		ls, err := readLangSysTable(p, pos+int64(rec.offset), seen, spans)
		if err != nil {
			return nil, err
		}
		script.LangSys = append(script.LangSys, &LangSysRecord{
			Tag:     rec.tag,
			LangSys: ls,
		})
	}
	return script, nil
}

// readLangSysTable decodes the LangSys table at pos.  Tables which have
// been seen before are not decoded again.
//
// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#language-system-table
func readLangSysTable(p *parser.Parser, pos int64, seen map[int64]*LangSys, spans *spanList) (*LangSys, error) {
	if ls, ok := seen[pos]; ok {
		return ls, nil
	}

	err := p.SeekPos(pos)
	if err != nil {
		return nil, err
	}
	data, err := p.ReadBytes(4)
	if err != nil {
		return nil, err
	}
	lookupOrderOffset := uint16(data[0])<<8 | uint16(data[1])
	requiredFeatureIndex := FeatureIndex(data[2])<<8 | FeatureIndex(data[3])

	indices, err := p.ReadUint16Slice()
	if err != nil {
		return nil, err
	}
	features := make([]FeatureIndex, len(indices))
	for i, idx := range indices {
		features[i] = FeatureIndex(idx)
	}

	ls := &LangSys{
		Required:    requiredFeatureIndex,
		Features:    features,
		pos:         pos,
		lookupOrder: lookupOrderOffset,
		origCount:   len(features),
	}
	seen[pos] = ls
	spans.add(pos, p.Pos(), true)
	return ls, nil
}

func sortedLangSys(seen map[int64]*LangSys) []*LangSys {
	res := make([]*LangSys, 0, len(seen))
	for _, ls := range seen {
		res = append(res, ls)
	}
	slices.SortFunc(res, func(a, b *LangSys) int {
		return int(a.pos - b.pos)
	})
	return res
}

// writeTo overwrites the LangSys table in buf.  The list of feature indices
// must not be longer than the original list; the space freed by removed
// indices is zeroed.
func (ls *LangSys) writeTo(buf []byte) {
	if len(ls.Features) > ls.origCount {
		panic("LangSys table cannot grow")
	}

	p := int(ls.pos)
	end := p + 6 + 2*ls.origCount
	buf[p] = byte(ls.lookupOrder >> 8)
	buf[p+1] = byte(ls.lookupOrder)
	buf[p+2] = byte(ls.Required >> 8)
	buf[p+3] = byte(ls.Required)
	buf[p+4] = byte(len(ls.Features) >> 8)
	buf[p+5] = byte(len(ls.Features))
	p += 6
	for _, idx := range ls.Features {
		buf[p] = byte(idx >> 8)
		buf[p+1] = byte(idx)
		p += 2
	}
	clear(buf[p:end])
}
