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
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfntedit/internal/logging"
	"seehuhn.de/go/sfntedit/internal/testfont"
	"seehuhn.de/go/sfntedit/sfnt/parser"
)

func featureTags(tab *Table) []string {
	var res []string
	for _, f := range tab.Features {
		res = append(res, f.Tag)
	}
	return res
}

func decode(t *testing.T, data []byte) *Table {
	t.Helper()
	tab, err := Decode("GSUB", data)
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

// roundTrip encodes the table and decodes the result.
func roundTrip(t *testing.T, tab *Table) *Table {
	t.Helper()
	data, err := tab.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != len(tab.data) {
		t.Errorf("table size changed from %d to %d", len(tab.data), len(data))
	}
	return decode(t, data)
}

func TestRemoveFeature(t *testing.T) {
	ls := &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 2}}
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: ls},
		},
		Features: []*testfont.Feature{
			{Tag: "calt", Lookups: []uint16{0}},
			{Tag: "liga", Lookups: []uint16{1}},
			{Tag: "kern", Lookups: []uint16{2}},
		},
	}
	tab := decode(t, layout.Encode())

	n := tab.RemoveFeature("calt")
	if n != 1 {
		t.Errorf("removed %d features, expected 1", n)
	}

	out := roundTrip(t, tab)
	if d := cmp.Diff([]string{"liga", "kern"}, featureTags(out)); d != "" {
		t.Errorf("wrong features (-want +got):\n%s", d)
	}
	got := out.Scripts[0].DefaultLangSys
	if d := cmp.Diff([]FeatureIndex{1}, got.Features); d != "" {
		t.Errorf("wrong LangSys features (-want +got):\n%s", d)
	}
	if got.Required != NoRequiredFeature {
		t.Errorf("wrong required feature %d", got.Required)
	}

	// the feature tables are still where they were
	if d := cmp.Diff([]LookupIndex{1}, out.Features[0].Lookups); d != "" {
		t.Errorf("wrong lookups for liga (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]LookupIndex{2}, out.Features[1].Lookups); d != "" {
		t.Errorf("wrong lookups for kern (-want +got):\n%s", d)
	}
}

func TestRemoveNothing(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "DFLT", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0}}},
		},
		Features: []*testfont.Feature{{Tag: "liga", Lookups: []uint16{0}}},
	}
	data := layout.Encode()
	tab := decode(t, data)

	if n := tab.RemoveFeature("calt"); n != 0 {
		t.Errorf("removed %d features", n)
	}
	if tab.Changed() {
		t.Error("table reports changes")
	}
	out, err := tab.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, data) {
		t.Error("unchanged table was modified")
	}
}

func TestSharedLangSys(t *testing.T) {
	shared := &testfont.LangSys{Required: 0xFFFF, Features: []uint16{1, 3}}
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "cyrl", Default: shared},
			{Tag: "latn", Default: shared, Langs: []*testfont.Lang{
				{Tag: "TRK ", LangSys: shared},
				{Tag: "NLD ", LangSys: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1, 2, 3}}},
			}},
		},
		Features: []*testfont.Feature{
			{Tag: "calt", Lookups: []uint16{0}},
			{Tag: "liga", Lookups: []uint16{1}},
			{Tag: "calt", Lookups: []uint16{2}},
			{Tag: "kern", Lookups: []uint16{3}},
		},
	}
	tab := decode(t, layout.Encode())
	if len(tab.LangSys()) != 2 {
		t.Fatalf("found %d LangSys tables, expected 2", len(tab.LangSys()))
	}

	n := tab.RemoveFeature("calt")
	if n != 2 {
		t.Errorf("removed %d features, expected 2", n)
	}

	out := roundTrip(t, tab)
	if d := cmp.Diff([]string{"liga", "kern"}, featureTags(out)); d != "" {
		t.Errorf("wrong features (-want +got):\n%s", d)
	}
	for _, s := range out.Scripts {
		ls := s.DefaultLangSys
		if d := cmp.Diff([]FeatureIndex{0, 1}, ls.Features); d != "" {
			t.Errorf("%s: wrong default features (-want +got):\n%s", s.Tag, d)
		}
		for _, rec := range s.LangSys {
			if d := cmp.Diff([]FeatureIndex{0, 1}, rec.LangSys.Features); d != "" {
				t.Errorf("%s/%s: wrong features (-want +got):\n%s", s.Tag, rec.Tag, d)
			}
		}
	}
}

func TestRequiredFeature(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "arab", Default: &testfont.LangSys{Required: 0, Features: []uint16{1}}},
			{Tag: "latn", Default: &testfont.LangSys{Required: 2, Features: []uint16{0, 1}}},
		},
		Features: []*testfont.Feature{
			{Tag: "ccmp", Lookups: []uint16{0}},
			{Tag: "liga", Lookups: []uint16{1}},
			{Tag: "rlig", Lookups: []uint16{2}},
		},
	}
	tab := decode(t, layout.Encode())
	tab.RemoveFeature("ccmp")
	out := roundTrip(t, tab)

	arab := out.Scripts[0].DefaultLangSys
	if arab.Required != NoRequiredFeature {
		t.Errorf("arab: required feature %d not removed", arab.Required)
	}
	if d := cmp.Diff([]FeatureIndex{0}, arab.Features); d != "" {
		t.Errorf("arab: wrong features (-want +got):\n%s", d)
	}
	latn := out.Scripts[1].DefaultLangSys
	if latn.Required != 1 {
		t.Errorf("latn: required feature is %d, expected 1", latn.Required)
	}
	if d := cmp.Diff([]FeatureIndex{0}, latn.Features); d != "" {
		t.Errorf("latn: wrong features (-want +got):\n%s", d)
	}
}

func TestFeatureVariations(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1, 2}}},
		},
		Features: []*testfont.Feature{
			{Tag: "rvrn", Lookups: []uint16{0}},
			{Tag: "calt", Lookups: []uint16{1}},
			{Tag: "liga", Lookups: []uint16{2}},
		},
		Variations: []*testfont.Variation{
			{Substs: []*testfont.Subst{
				{FeatureIndex: 1, Lookups: []uint16{3}},
				{FeatureIndex: 2, Lookups: []uint16{4}},
			}},
		},
	}
	tab := decode(t, layout.Encode())
	if tab.MinorVersion != 1 || len(tab.Variations) != 1 {
		t.Fatalf("feature variations not decoded")
	}

	tab.RemoveFeature("calt")
	out := roundTrip(t, tab)

	subst := out.Variations[0].Substitutions
	if len(subst.Records) != 1 {
		t.Fatalf("found %d substitutions, expected 1", len(subst.Records))
	}
	if subst.Records[0].FeatureIndex != 1 {
		t.Errorf("substitution refers to feature %d, expected 1", subst.Records[0].FeatureIndex)
	}
	if err := out.Check(); err != nil {
		t.Error(err)
	}
}

func TestCardinality(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1, 2, 3, 4}}},
		},
		Features: []*testfont.Feature{
			{Tag: "calt"}, {Tag: "liga"}, {Tag: "calt"}, {Tag: "kern"}, {Tag: "calt"},
		},
	}
	for _, tag := range []string{"calt", "liga", "kern", "smcp"} {
		tab := decode(t, layout.Encode())
		before := len(tab.Features)
		n := tab.RemoveFeature(tag)
		if len(tab.Features) != before-n {
			t.Errorf("%s: %d features after removing %d of %d", tag, len(tab.Features), n, before)
		}
		for _, f := range tab.Features {
			if f.Tag == tag {
				t.Errorf("%s: feature still present", tag)
			}
		}
		if err := tab.Check(); err != nil {
			t.Errorf("%s: %v", tag, err)
		}
		if ls := tab.Scripts[0].DefaultLangSys; len(ls.Features) != len(tab.Features) {
			t.Errorf("%s: LangSys has %d features, expected %d", tag, len(ls.Features), len(tab.Features))
		}
	}
}

func TestDanglingIndex(t *testing.T) {
	buf, restore := logging.Capture(slog.LevelWarn)
	defer restore()

	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 7, Features: []uint16{0, 9, 1}}},
		},
		Features: []*testfont.Feature{{Tag: "calt"}, {Tag: "liga"}},
	}
	tab := decode(t, layout.Encode())

	var indexErr *IndexError
	if err := tab.Check(); !errors.As(err, &indexErr) {
		t.Fatalf("invalid index not detected: %v", err)
	}

	tab.RemoveFeature("calt")
	ls := tab.Scripts[0].DefaultLangSys
	if d := cmp.Diff([]FeatureIndex{0}, ls.Features); d != "" {
		t.Errorf("wrong features (-want +got):\n%s", d)
	}
	if ls.Required != NoRequiredFeature {
		t.Errorf("dangling required feature %d kept", ls.Required)
	}
	if !buf.Contains("dangling") {
		t.Error("dropped indices were not logged")
	}
}

func TestEmptyLangSys(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF}},
		},
		Features: []*testfont.Feature{{Tag: "calt"}},
	}
	tab := decode(t, layout.Encode())
	tab.RemoveFeature("calt")
	out := roundTrip(t, tab)
	if len(out.Features) != 0 || len(out.Scripts[0].DefaultLangSys.Features) != 0 {
		t.Error("unexpected features")
	}
}

func TestFreedBytesZeroed(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1}}},
		},
		Features: []*testfont.Feature{{Tag: "liga"}, {Tag: "calt"}},
	}
	in := layout.Encode()
	tab := decode(t, in)
	tab.RemoveFeature("calt")
	out, err := tab.Encode()
	if err != nil {
		t.Fatal(err)
	}

	// the second feature record occupies bytes 8 to 13 of the FeatureList
	pos := int(tab.featureListPos) + 2 + 6
	if !bytes.Equal(out[pos:pos+6], make([]byte, 6)) {
		t.Errorf("freed bytes not zeroed: % x", out[pos:pos+6])
	}
	// the LookupList and everything after it is unchanged
	lookupListPos := int(in[8])<<8 | int(in[9])
	if !bytes.Equal(in[lookupListPos:], out[lookupListPos:]) {
		t.Error("lookups were modified")
	}
}

func TestDecodeErrors(t *testing.T) {
	good := (&testfont.Layout{
		Scripts:  []*testfont.Script{{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF}}},
		Features: []*testfont.Feature{{Tag: "calt"}},
	}).Encode()

	cases := [][]byte{
		nil,
		good[:8],
		append([]byte{0, 2}, good[2:]...), // version 2.0
	}
	for i, data := range cases {
		_, err := Decode("GSUB", data)
		if err == nil {
			t.Errorf("%d: invalid table accepted", i)
		}
	}
}

func TestOverlappingStructures(t *testing.T) {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{1, 0, 0, 0}}},
		},
		Features:   []*testfont.Feature{{Tag: "calt", Lookups: []uint16{0}}, {Tag: "liga", Lookups: []uint16{1}}},
		Variations: []*testfont.Variation{},
	}
	good := layout.Encode()
	lsPos := int(decode(t, good).LangSys()[0].pos)

	// The FeatureVariations header "00 01 00 00 00 00 00 00" is found
	// inside the feature indices of the LangSys table.
	fvInsideLangSys := bytes.Clone(good)
	binary.BigEndian.PutUint32(fvInsideLangSys[10:], uint32(lsPos+6))

	// The Feature table of "liga" starts inside the FeatureList records,
	// with lookup count 0x000e taken from the "calt" record.
	featureList := int(binary.BigEndian.Uint16(good[6:]))
	featureInList := bytes.Clone(good)
	binary.BigEndian.PutUint16(featureInList[featureList+2+6+4:], 4)

	cases := []struct {
		name string
		data []byte
	}{
		{"FeatureVariations in LangSys", fvInsideLangSys},
		{"Feature table in FeatureList", featureInList},
	}
	for _, c := range cases {
		_, err := Decode("GSUB", c.data)
		var invalid *parser.InvalidFontError
		if !errors.As(err, &invalid) || !strings.Contains(invalid.Reason, "overlapping") {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
	}
}

func FuzzGtab(f *testing.F) {
	f.Add((&testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1}}},
		},
		Features: []*testfont.Feature{{Tag: "calt", Lookups: []uint16{0}}, {Tag: "liga", Lookups: []uint16{1}}},
	}).Encode())
	f.Add((&testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "latn", Default: &testfont.LangSys{Required: 1, Features: []uint16{0, 2}}},
		},
		Features: []*testfont.Feature{{Tag: "calt"}, {Tag: "rlig"}, {Tag: "calt"}},
		Variations: []*testfont.Variation{
			{Substs: []*testfont.Subst{{FeatureIndex: 0, Lookups: []uint16{0}}}},
		},
	}).Encode())

	f.Fuzz(func(t *testing.T, data []byte) {
		tab, err := Decode("GSUB", data)
		if err != nil {
			return
		}
		tab.RemoveFeature("calt")
		out, err := tab.Encode()
		if err != nil {
			return
		}
		if len(out) != len(data) {
			t.Fatalf("size changed from %d to %d", len(data), len(out))
		}
		tab2, err := Decode("GSUB", out)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range tab2.Features {
			if f.Tag == "calt" {
				t.Fatal("feature not removed")
			}
		}
	})
}
