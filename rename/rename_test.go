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

package rename

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfntedit/internal/testfont"
	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/cff"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

func makeFont(t *testing.T, records []testfont.NameRecord, names testfont.CFFNames) *sfnt.Font {
	t.Helper()
	data := testfont.OpenType(testfont.NameTable(records...), testfont.CFF(names), nil)
	f, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// reload encodes the font and decodes the result.
func reload(t *testing.T, f *sfnt.Font) *sfnt.Font {
	t.Helper()
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	f2, err := sfnt.Load(data)
	if err != nil {
		t.Fatal(err)
	}
	return f2
}

// nameTexts returns the text of all records with the given name ID.
func nameTexts(t *testing.T, f *sfnt.Font, id name.ID) []string {
	t.Helper()
	var res []string
	for _, rec := range f.Name().Find(id) {
		s, err := rec.Text()
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, s)
	}
	return res
}

type cffState struct {
	FontName, FullName, FamilyName string
}

func cffNames(f *sfnt.Font) cffState {
	t := f.CFF()
	full, _ := t.FullName(0)
	family, _ := t.FamilyName(0)
	return cffState{FontName: t.FontName(0), FullName: full, FamilyName: family}
}

func zeroProto(t *testing.T) *sfnt.Font {
	records := testfont.Names("0xProto", "Regular", "0xProto-Regular", "2.100")
	records = append(records, testfont.Mac(name.Family, "0xProto"))
	return makeFont(t, records, testfont.CFFNames{
		FontName:   "0xProto-Regular",
		FullName:   "0xProto Regular",
		FamilyName: "0xProto",
	})
}

func TestSubstring(t *testing.T) {
	f := zeroProto(t)
	r, err := Substring(f, "0xProto", "Zx Proto", "ZxProto")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Skipped) > 0 {
		t.Errorf("unexpected skipped records: %v", r.Skipped)
	}
	// 5 name records and 3 CFF strings
	if len(r.Changes) != 8 {
		t.Errorf("got %d changes, expected 8:\n%v", len(r.Changes), r.Changes)
	}

	f = reload(t, f)
	want := map[name.ID][]string{
		name.Family:         {"Zx Proto", "Zx Proto"},
		name.Subfamily:      {"Regular"},
		name.UniqueID:       {"2.100;NONE;ZxProto-Regular"},
		name.FullName:       {"Zx Proto Regular"},
		name.Version:        {"Version 2.100"},
		name.PostScriptName: {"ZxProto-Regular"},
	}
	for id, texts := range want {
		if d := cmp.Diff(texts, nameTexts(t, f, id)); d != "" {
			t.Errorf("%s (-want +got):\n%s", id, d)
		}
	}
	wantCFF := cffState{
		FontName:   "ZxProto-Regular",
		FullName:   "Zx Proto Regular",
		FamilyName: "Zx Proto",
	}
	if d := cmp.Diff(wantCFF, cffNames(f)); d != "" {
		t.Errorf("CFF names (-want +got):\n%s", d)
	}
}

func TestSubstringNoMatch(t *testing.T) {
	f := zeroProto(t)
	r, err := Substring(f, "Helvetica", "Arial", "Arial")
	if err != nil {
		t.Fatal(err)
	}
	if r.Changed() || f.Changed() {
		t.Error("font was modified")
	}
}

func TestSubstringArgs(t *testing.T) {
	f := zeroProto(t)
	_, err := Substring(f, "0xProto", "Zx Proto", "Zx Proto")
	if !errors.Is(err, ErrInvalidReplacement) {
		t.Errorf("unexpected error %v", err)
	}
	_, err = Substring(f, "", "a", "b")
	if !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("unexpected error %v", err)
	}
	if f.Changed() {
		t.Error("font was modified")
	}
}

func TestSubstringCIDKeyed(t *testing.T) {
	names := testfont.CFFNames{
		FontName:   "0xProto-Regular",
		FullName:   "0xProto Regular",
		FamilyName: "0xProto",
		CID:        true,
	}
	f := makeFont(t, testfont.Names("0xProto", "Regular", "0xProto-Regular", "1.0"), names)
	r, err := Substring(f, "0xProto", "Zx Proto", "ZxProto")
	if err != nil {
		t.Fatal(err)
	}

	if len(r.Skipped) != 1 || !errors.Is(r.Skipped[0], cff.ErrCIDKeyed) {
		t.Errorf("unexpected skipped list %v", r.Skipped)
	}
	if f.CFF().Changed() {
		t.Error("CFF table was modified")
	}
	if got := nameTexts(t, f, name.Family); got[0] != "Zx Proto" {
		t.Errorf("name table not changed: %q", got[0])
	}

	f = reload(t, f)
	want := cffState{
		FontName:   "0xProto-Regular",
		FullName:   "0xProto Regular",
		FamilyName: "0xProto",
	}
	if d := cmp.Diff(want, cffNames(f)); d != "" {
		t.Errorf("CFF names (-want +got):\n%s", d)
	}
}

func TestSubstringUnencodable(t *testing.T) {
	records := []testfont.NameRecord{
		testfont.Windows(name.Family, "Old Font"),
		testfont.Mac(name.Family, "Old Font"),
	}
	f := makeFont(t, records, testfont.CFFNames{FontName: "OldFont"})

	// Mac Roman cannot represent the new name
	r, err := Substring(f, "Old", "日本", "Nihon")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Skipped) != 1 {
		t.Fatalf("got %d skipped records, expected 1", len(r.Skipped))
	}
	var recErr *name.RecordError
	if !errors.As(r.Skipped[0], &recErr) || recErr.PlatformID != 1 {
		t.Errorf("unexpected error %v", r.Skipped[0])
	}

	got := nameTexts(t, reload(t, f), name.Family)
	if d := cmp.Diff([]string{"日本 Font", "Old Font"}, got); d != "" {
		t.Errorf("family names (-want +got):\n%s", d)
	}
}

func TestFixed(t *testing.T) {
	records := testfont.Names("0xProto", "Regular", "0xProto-Regular", "1.002;hotconv 1.0.109")
	f := makeFont(t, records, testfont.CFFNames{
		FontName:   "0xProto-Regular",
		FullName:   "0xProto Regular",
		FamilyName: "0xProto",
	})
	_, err := Fixed(f, &FixedNames{
		FontName:   "ZX Proto Regular",
		FamilyName: "ZX Proto",
		FullName:   "ZX Proto Regular",
		Vendor:     "0xTp",
	})
	if err != nil {
		t.Fatal(err)
	}

	f = reload(t, f)
	want := map[name.ID][]string{
		name.Family:         {"ZX Proto"},
		name.Subfamily:      {"Regular"},
		name.UniqueID:       {"1.002;hotconv;0xTp;ZX Proto Regular"},
		name.FullName:       {"ZX Proto Regular"},
		name.Version:        {"Version 1.002;hotconv 1.0.109"},
		name.PostScriptName: {"ZXProtoRegular"},
	}
	for id, texts := range want {
		if d := cmp.Diff(texts, nameTexts(t, f, id)); d != "" {
			t.Errorf("%s (-want +got):\n%s", id, d)
		}
	}
	wantCFF := cffState{
		FontName:   "ZXProtoRegular",
		FullName:   "ZX Proto Regular",
		FamilyName: "ZX Proto",
	}
	if d := cmp.Diff(wantCFF, cffNames(f)); d != "" {
		t.Errorf("CFF names (-want +got):\n%s", d)
	}
}

func TestFixedDefaultVendor(t *testing.T) {
	f := makeFont(t, testfont.Names("A", "Bold", "A-Bold", "3.0"), testfont.CFFNames{FontName: "A-Bold"})
	_, err := Fixed(f, &FixedNames{FontName: "B-Bold"})
	if err != nil {
		t.Fatal(err)
	}
	if got := nameTexts(t, f, name.UniqueID)[0]; got != "3.0;NONE;B-Bold" {
		t.Errorf("wrong UniqueID %q", got)
	}
	// empty fields are left alone
	if got := nameTexts(t, f, name.Family)[0]; got != "A" {
		t.Errorf("wrong family %q", got)
	}
}

func TestFixedVersionErrors(t *testing.T) {
	noVersion := []testfont.NameRecord{
		testfont.Windows(name.Family, "A"),
		testfont.Windows(name.PostScriptName, "A"),
	}
	badVersion := append(noVersion, testfont.Windows(name.Version, "1.000"))

	f := makeFont(t, noVersion, testfont.CFFNames{FontName: "A"})
	_, err := Fixed(f, &FixedNames{FontName: "B", FamilyName: "B", FullName: "B"})
	if !errors.Is(err, ErrMissingVersion) {
		t.Errorf("unexpected error %v", err)
	}
	if f.Changed() {
		t.Error("font was modified")
	}

	f = makeFont(t, badVersion, testfont.CFFNames{FontName: "A"})
	_, err = Fixed(f, &FixedNames{FontName: "B", FamilyName: "B", FullName: "B"})
	var malformed *MalformedVersionError
	if !errors.As(err, &malformed) || malformed.Version != "1.000" {
		t.Errorf("unexpected error %v", err)
	}
	if f.Changed() {
		t.Error("font was modified")
	}
}

func myFont(t *testing.T) *sfnt.Font {
	records := testfont.Names("MyFont", "Regular", "MyFont-Regular", "1.000")
	records = append(records,
		testfont.Windows(name.TypographicFamily, "My-Font"),
		testfont.Windows(name.TypographicSubfamily, "Regular"))
	return makeFont(t, records, testfont.CFFNames{
		FontName:   "MyFont-Regular",
		FullName:   "MyFont Regular",
		FamilyName: "MyFont",
	})
}

func TestAppendSuffix(t *testing.T) {
	f := myFont(t)
	r := AppendSuffix(f, "-NL")
	if len(r.Skipped) > 0 {
		t.Errorf("unexpected skipped records: %v", r.Skipped)
	}

	f = reload(t, f)
	want := map[name.ID][]string{
		name.Family:               {"MyFont NL"},
		name.Subfamily:            {"Regular"},
		name.UniqueID:             {"1.000;NONE;MyFont-Regular-NL"},
		name.FullName:             {"MyFont Regular NL"},
		name.Version:              {"Version 1.000"},
		name.PostScriptName:       {"MyFont-Regular-NL"},
		name.TypographicFamily:    {"My-Font-NL"},
		name.TypographicSubfamily: {"Regular"},
	}
	for id, texts := range want {
		if d := cmp.Diff(texts, nameTexts(t, f, id)); d != "" {
			t.Errorf("%s (-want +got):\n%s", id, d)
		}
	}
	wantCFF := cffState{
		FontName:   "MyFont-Regular-NL",
		FullName:   "MyFont Regular NL",
		FamilyName: "MyFont NL",
	}
	if d := cmp.Diff(wantCFF, cffNames(f)); d != "" {
		t.Errorf("CFF names (-want +got):\n%s", d)
	}
}

func TestAppendSuffixIdempotent(t *testing.T) {
	for _, suffix := range []string{"-NL", "NL", "--Mono", "No Lig", "-(x)"} {
		f := myFont(t)
		AppendSuffix(f, suffix)
		once, err := f.Encode()
		if err != nil {
			t.Fatal(err)
		}

		f = reload(t, f)
		r := AppendSuffix(f, suffix)
		if r.Changed() {
			t.Errorf("%q: second call made changes: %v", suffix, r.Changes)
		}
		twice, err := f.Encode()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(once, twice) {
			t.Errorf("%q: second call changed the font", suffix)
		}
	}
}

func TestAppendEmptySuffix(t *testing.T) {
	f := myFont(t)
	for _, suffix := range []string{"", "-", "---"} {
		r := AppendSuffix(f, suffix)
		if r.Changed() || f.Changed() {
			t.Errorf("%q: font was modified", suffix)
		}
	}
}

// TestPostScriptRoles checks that PostScript names never contain spaces,
// whatever operation is used.
func TestPostScriptRoles(t *testing.T) {
	ops := map[string]func(f *sfnt.Font) error{
		"substring": func(f *sfnt.Font) error {
			_, err := Substring(f, "Font", "Big Font", "Big(Font)")
			return err
		},
		"fixed": func(f *sfnt.Font) error {
			_, err := Fixed(f, &FixedNames{FontName: "Big Font Bold", FamilyName: "Big Font", FullName: "Big Font Bold"})
			return err
		},
		"suffix": func(f *sfnt.Font) error {
			AppendSuffix(f, "Semi Bold")
			return nil
		},
	}
	for label, op := range ops {
		t.Run(label, func(t *testing.T) {
			records := testfont.Names("My Font", "Regular", "My Font", "1.0")
			f := makeFont(t, records, testfont.CFFNames{FontName: "My Font", FullName: "My Font"})
			if err := op(f); err != nil {
				t.Fatal(err)
			}
			f = reload(t, f)
			for _, s := range nameTexts(t, f, name.PostScriptName) {
				if strings.Contains(s, " ") {
					t.Errorf("PostScript name %q contains a space", s)
				}
			}
			if s := f.CFF().FontName(0); strings.Contains(s, " ") {
				t.Errorf("CFF font name %q contains a space", s)
			}
		})
	}
}

func TestPostScriptName(t *testing.T) {
	cases := []struct{ in, out string }{
		{"Helvetica-Bold", "Helvetica-Bold"},
		{"Zx Proto Regular", "ZxProtoRegular"},
		{"A[b](c){d}<e>/f%g", "Abcdefg"},
		{"Café", "Caf"},
		{"\tTab\n", "Tab"},
		{strings.Repeat("x", 80), strings.Repeat("x", 63)},
	}
	for _, c := range cases {
		if got := PostScriptName(c.in); got != c.out {
			t.Errorf("PostScriptName(%q) = %q, expected %q", c.in, got, c.out)
		}
	}
}
