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

package testfont

import (
	"encoding/binary"
)

// Layout describes the contents of a "GSUB" table.
type Layout struct {
	Scripts    []*Script
	Features   []*Feature
	Variations []*Variation
}

// Script is a ScriptList entry.  LangSys tables which are used several
// times are stored only once.
type Script struct {
	Tag     string
	Default *LangSys
	Langs   []*Lang
}

// Lang is a LangSysRecord.
type Lang struct {
	Tag     string
	LangSys *LangSys
}

// LangSys is a LangSys table.  Required is 0xFFFF if there is no required
// feature.
type LangSys struct {
	Required uint16
	Features []uint16
}

// Feature is a FeatureList entry.
type Feature struct {
	Tag     string
	Lookups []uint16
}

// Variation is a FeatureVariationRecord.  The condition set selects a range
// of the first variation axis.
type Variation struct {
	Substs []*Subst
}

// Subst replaces the Feature table of one feature.
type Subst struct {
	FeatureIndex uint16
	Lookups      []uint16
}

type layoutWriter []byte

func (w *layoutWriter) pos() int {
	return len(*w)
}

func (w *layoutWriter) grow(n int) int {
	pos := len(*w)
	*w = append(*w, make([]byte, n)...)
	return pos
}

func (w *layoutWriter) put16(pos int, x uint16) {
	binary.BigEndian.PutUint16((*w)[pos:], x)
}

func (w *layoutWriter) put32(pos int, x uint32) {
	binary.BigEndian.PutUint32((*w)[pos:], x)
}

func (w *layoutWriter) putTag(pos int, tag string) {
	copy((*w)[pos:pos+4], tag)
}

func (w *layoutWriter) featureTable(lookups []uint16) int {
	pos := w.grow(4 + 2*len(lookups))
	w.put16(pos+2, uint16(len(lookups)))
	for i, l := range lookups {
		w.put16(pos+4+2*i, l)
	}
	return pos
}

// Encode converts the layout into a "GSUB" table.  The table has one
// single substitution lookup for every lookup index used.
func (l *Layout) Encode() []byte {
	w := &layoutWriter{}

	headerSize := 10
	if l.Variations != nil {
		headerSize = 14
	}
	w.grow(headerSize)
	w.put16(0, 1)
	if l.Variations != nil {
		w.put16(2, 1)
	}

	// ScriptList
	scriptListPos := w.pos()
	w.put16(4, uint16(scriptListPos))
	w.grow(2 + 6*len(l.Scripts))
	w.put16(scriptListPos, uint16(len(l.Scripts)))
	scriptPos := make([]int, len(l.Scripts))
	for i, s := range l.Scripts {
		scriptPos[i] = w.grow(4 + 6*len(s.Langs))
		rec := scriptListPos + 2 + 6*i
		w.putTag(rec, s.Tag)
		w.put16(rec+4, uint16(scriptPos[i]-scriptListPos))
	}
	langSysPos := make(map[*LangSys]int)
	writeLangSys := func(ls *LangSys) int {
		if pos, ok := langSysPos[ls]; ok {
			return pos
		}
		pos := w.grow(6 + 2*len(ls.Features))
		w.put16(pos+2, ls.Required)
		w.put16(pos+4, uint16(len(ls.Features)))
		for i, idx := range ls.Features {
			w.put16(pos+6+2*i, idx)
		}
		langSysPos[ls] = pos
		return pos
	}
	for i, s := range l.Scripts {
		if s.Default != nil {
			pos := writeLangSys(s.Default)
			w.put16(scriptPos[i], uint16(pos-scriptPos[i]))
		}
		w.put16(scriptPos[i]+2, uint16(len(s.Langs)))
		for j, lang := range s.Langs {
			pos := writeLangSys(lang.LangSys)
			rec := scriptPos[i] + 4 + 6*j
			w.putTag(rec, lang.Tag)
			w.put16(rec+4, uint16(pos-scriptPos[i]))
		}
	}

	// FeatureList
	numLookups := 0
	useLookups := func(lookups []uint16) {
		for _, l := range lookups {
			if int(l) >= numLookups {
				numLookups = int(l) + 1
			}
		}
	}
	featureListPos := w.pos()
	w.put16(6, uint16(featureListPos))
	w.grow(2 + 6*len(l.Features))
	w.put16(featureListPos, uint16(len(l.Features)))
	for i, f := range l.Features {
		pos := w.featureTable(f.Lookups)
		rec := featureListPos + 2 + 6*i
		w.putTag(rec, f.Tag)
		w.put16(rec+4, uint16(pos-featureListPos))
		useLookups(f.Lookups)
	}
	for _, v := range l.Variations {
		for _, s := range v.Substs {
			useLookups(s.Lookups)
		}
	}

	// LookupList
	lookupListPos := w.pos()
	w.put16(8, uint16(lookupListPos))
	w.grow(2 + 2*numLookups)
	w.put16(lookupListPos, uint16(numLookups))
	for i := 0; i < numLookups; i++ {
		pos := w.grow(20)
		w.put16(lookupListPos+2+2*i, uint16(pos-lookupListPos))
		w.put16(pos, 1)     // lookupType: single substitution
		w.put16(pos+4, 1)   // subTableCount
		w.put16(pos+6, 8)   // subtableOffset
		w.put16(pos+8, 1)   // substFormat
		w.put16(pos+10, 6)  // coverageOffset
		w.put16(pos+12, 1)  // deltaGlyphID
		w.put16(pos+14, 1)  // coverageFormat
		w.put16(pos+16, 1)  // glyphCount
		w.put16(pos+18, 10) // glyphArray
	}

	// FeatureVariations
	if l.Variations != nil {
		fvPos := w.pos()
		w.put32(10, uint32(fvPos))
		w.grow(8 + 8*len(l.Variations))
		w.put16(fvPos, 1)
		w.put32(fvPos+4, uint32(len(l.Variations)))
		for i, v := range l.Variations {
			rec := fvPos + 8 + 8*i

			condSet := w.grow(6 + 8)
			w.put16(condSet, 1)         // conditionCount
			w.put32(condSet+2, 6)       // conditionOffset
			w.put16(condSet+6, 1)       // format
			w.put16(condSet+10, 0x2000) // filterRangeMinValue 0.5
			w.put16(condSet+12, 0x4000) // filterRangeMaxValue 1.0
			w.put32(rec, uint32(condSet-fvPos))

			fts := w.grow(6 + 6*len(v.Substs))
			w.put16(fts, 1)
			w.put16(fts+4, uint16(len(v.Substs)))
			for j, s := range v.Substs {
				pos := w.featureTable(s.Lookups)
				sRec := fts + 6 + 6*j
				w.put16(sRec, s.FeatureIndex)
				w.put32(sRec+2, uint32(pos-fts))
			}
			w.put32(rec+4, uint32(fts-fvPos))
		}
	}

	return *w
}
