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

package batch

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfntedit/feature"
	"seehuhn.de/go/sfntedit/internal/testfont"
	"seehuhn.de/go/sfntedit/rename"
	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

func otf() []byte {
	layout := &testfont.Layout{
		Scripts: []*testfont.Script{
			{Tag: "DFLT", Default: &testfont.LangSys{Required: 0xFFFF, Features: []uint16{0, 1}}},
		},
		Features: []*testfont.Feature{
			{Tag: "calt", Lookups: []uint16{0}},
			{Tag: "liga", Lookups: []uint16{1}},
		},
	}
	names := testfont.NameTable(testfont.Names("0xProto", "Regular", "0xProto-Regular", "2.100")...)
	cff := testfont.CFF(testfont.CFFNames{
		FontName:   "0xProto-Regular",
		FullName:   "0xProto Regular",
		FamilyName: "0xProto",
	})
	return testfont.OpenType(names, cff, layout.Encode())
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(in, "0xProto-Regular.otf"), otf())
	writeFile(t, filepath.Join(in, "0xProto-Regular.ttf"), testfont.GoRegular())
	writeFile(t, filepath.Join(in, "0xProto-Broken.otf"), []byte("not a font"))

	steps := []Step{
		RenameSubstring{Old: "0xProto", Internal: "Zx Proto", File: "ZxProto"},
		RemoveFeature{Tag: "calt"},
		AppendSuffix{Suffix: "-NL"},
	}
	paths, err := FindFonts(in, Filter{Prefix: "0xProto-"})
	if err != nil {
		t.Fatal(err)
	}
	var jobs []Job
	for _, path := range paths {
		target, err := MirrorPath(in, path, out)
		if err != nil {
			t.Fatal(err)
		}
		target = SuffixedPath(RenamedPath(target, "0xProto", "ZxProto"), "-NL")
		jobs = append(jobs, Job{Input: path, Output: target, Steps: steps})
	}

	rep := Run(context.Background(), jobs, Options{Workers: 2})

	if d := cmp.Diff(map[string]int{".otf": 1, ".ttf": 1}, rep.Succeeded()); d != "" {
		t.Errorf("wrong success counts (-want +got):\n%s", d)
	}
	failed := rep.Failed()
	if len(failed) != 1 || filepath.Base(failed[0].Input) != "0xProto-Broken.otf" {
		t.Fatalf("unexpected failures %v", failed)
	}
	if err := rep.Err(); err == nil || !strings.Contains(err.Error(), "0xProto-Broken.otf") {
		t.Errorf("unexpected error %v", err)
	}
	for i, res := range rep.Results {
		if res.Input != jobs[i].Input {
			t.Errorf("result %d is for %s, expected %s", i, res.Input, jobs[i].Input)
		}
	}

	f, err := sfnt.ReadFile(filepath.Join(out, "ZxProto-Regular-NL.otf"))
	if err != nil {
		t.Fatal(err)
	}
	if got := f.CFF().FontName(0); got != "ZxProto-Regular-NL" {
		t.Errorf("wrong CFF font name %q", got)
	}
	family, err := f.Name().Find(name.Family)[0].Text()
	if err != nil {
		t.Fatal(err)
	}
	if family != "Zx Proto NL" {
		t.Errorf("wrong family %q", family)
	}
	if d := cmp.Diff([]string{"liga"}, feature.Tags(f, "GSUB")); d != "" {
		t.Errorf("wrong features (-want +got):\n%s", d)
	}

	// Go Regular does not contain "0xProto", but still gets the suffix.
	f, err = sfnt.ReadFile(filepath.Join(out, "ZxProto-Regular-NL.ttf"))
	if err != nil {
		t.Fatal(err)
	}
	family, err = f.Name().Find(name.Family)[0].Text()
	if err != nil {
		t.Fatal(err)
	}
	if family != "Go NL" {
		t.Errorf("wrong family %q", family)
	}
}

func TestRunVerify(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.ttf"), testfont.GoRegular())
	writeFile(t, filepath.Join(dir, "tiny.otf"), otf())

	steps := []Step{RenameSubstring{Old: "Go", Internal: "Went", File: "Went"}}
	jobs := []Job{
		{Input: filepath.Join(dir, "go.ttf"), Output: filepath.Join(dir, "out", "went.ttf"), Steps: steps},
		{Input: filepath.Join(dir, "tiny.otf"), Output: filepath.Join(dir, "out", "tiny.otf"), Steps: steps},
	}
	rep := Run(context.Background(), jobs, Options{Verify: true})

	if err := rep.Results[0].Err; err != nil {
		t.Fatal(err)
	}
	if got := rep.Results[0].Family; got != "Went" {
		t.Errorf("wrong family %q", got)
	}

	// The test font lacks the tables needed for rendering.
	var verifyErr *VerifyError
	if !errors.As(rep.Results[1].Err, &verifyErr) {
		t.Errorf("unexpected error %v", rep.Results[1].Err)
	}
	if _, err := os.Stat(jobs[1].Output); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unverified font was written: %v", err)
	}
}

func TestRunOverwrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "font.otf")
	output := filepath.Join(dir, "font-NL.otf")
	writeFile(t, input, otf())
	writeFile(t, output, []byte("old"))

	jobs := []Job{{Input: input, Output: output, Steps: []Step{AppendSuffix{Suffix: "NL"}}}}
	rep := Run(context.Background(), jobs, Options{})
	if err := rep.Err(); !errors.Is(err, fs.ErrExist) {
		t.Errorf("unexpected error %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte("old")) {
		t.Error("existing file was overwritten")
	}

	rep = Run(context.Background(), jobs, Options{Overwrite: true})
	if err := rep.Err(); err != nil {
		t.Fatal(err)
	}
	if _, err := sfnt.ReadFile(output); err != nil {
		t.Error(err)
	}

	// no temporary files are left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("found %d files, expected 2", len(entries))
	}
}

func TestRunStepError(t *testing.T) {
	dir := t.TempDir()
	noVersion := testfont.NameTable(testfont.Windows(name.Family, "A"))
	writeFile(t, filepath.Join(dir, "a.otf"), testfont.OpenType(noVersion, nil, nil))
	writeFile(t, filepath.Join(dir, "b.otf"), otf())

	steps := []Step{RenameFixed{Names: rename.FixedNames{FontName: "B", FamilyName: "B", FullName: "B"}}}
	jobs := []Job{
		{Input: filepath.Join(dir, "a.otf"), Output: filepath.Join(dir, "out", "a.otf"), Steps: steps},
		{Input: filepath.Join(dir, "b.otf"), Output: filepath.Join(dir, "out", "b.otf"), Steps: steps},
	}
	rep := Run(context.Background(), jobs, Options{Workers: 1})
	if !errors.Is(rep.Results[0].Err, rename.ErrMissingVersion) {
		t.Errorf("unexpected error %v", rep.Results[0].Err)
	}
	if err := rep.Results[1].Err; err != nil {
		t.Errorf("second job failed: %v", err)
	}
	if len(rep.Results[1].Notes) == 0 {
		t.Error("no notes for second job")
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "font.otf")
	writeFile(t, input, otf())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var jobs []Job
	for _, out := range []string{"a.otf", "b.otf", "c.otf"} {
		jobs = append(jobs, Job{Input: input, Output: filepath.Join(dir, out)})
	}
	calls := 0
	rep := Run(ctx, jobs, Options{Progress: func(*Result) { calls++ }})
	for _, res := range rep.Results {
		if !errors.Is(res.Err, context.Canceled) {
			t.Errorf("unexpected error %v", res.Err)
		}
		if _, err := os.Stat(res.Output); err == nil {
			t.Errorf("%s was written", res.Output)
		}
	}
	if calls != len(jobs) {
		t.Errorf("progress called %d times, expected %d", calls, len(jobs))
	}
	if got := rep.String(); got != "0 of 3 files processed, 3 failed" {
		t.Errorf("wrong summary %q", got)
	}
}

func TestFindFonts(t *testing.T) {
	dir := t.TempDir()
	for _, file := range []string{
		"0xProto-Regular.otf",
		"0xProto-Italic.ttf",
		"Other.otf",
		"README.txt",
		"sub/0xProto-Bold.OTF",
	} {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(file)), nil)
	}
	paths := func(files ...string) []string {
		var res []string
		for _, file := range files {
			res = append(res, filepath.Join(dir, filepath.FromSlash(file)))
		}
		return res
	}

	cases := []struct {
		flt  Filter
		want []string
	}{
		{Filter{}, paths("0xProto-Italic.ttf", "0xProto-Regular.otf", "Other.otf")},
		{Filter{Prefix: "0xProto-"}, paths("0xProto-Italic.ttf", "0xProto-Regular.otf")},
		{Filter{Prefix: "0xProto-", Recursive: true},
			paths("0xProto-Italic.ttf", "0xProto-Regular.otf", "sub/0xProto-Bold.OTF")},
	}
	for i, c := range cases {
		got, err := FindFonts(dir, c.flt)
		if err != nil {
			t.Fatal(err)
		}
		if d := cmp.Diff(c.want, got); d != "" {
			t.Errorf("%d: wrong files (-want +got):\n%s", i, d)
		}
	}

	single := filepath.Join(dir, "Other.otf")
	got, err := FindFonts(single, Filter{Prefix: "0xProto-"})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{single}, got); d != "" {
		t.Errorf("wrong files (-want +got):\n%s", d)
	}

	if _, err := FindFonts(filepath.Join(dir, "missing"), Filter{}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestPaths(t *testing.T) {
	suffixed := []struct{ in, suffix, out string }{
		{"a/Font-Regular.otf", "-NL", "a/Font-Regular-NL.otf"},
		{"a/Font-Regular.otf", "NL", "a/Font-Regular-NL.otf"},
		{"a/Font-Regular-NL.otf", "-NL", "a/Font-Regular-NL.otf"},
		{"a/Font NL.ttf", "-NL", "a/Font NL.ttf"},
		{"a.d/Font", "-NL", "a.d/Font-NL"},
		{"Font.ttf", "", "Font.ttf"},
	}
	for _, c := range suffixed {
		in := filepath.FromSlash(c.in)
		want := filepath.FromSlash(c.out)
		if got := SuffixedPath(in, c.suffix); got != want {
			t.Errorf("SuffixedPath(%q, %q) = %q, expected %q", in, c.suffix, got, want)
		}
	}

	in := filepath.Join("0xProto", "0xProto-Regular.otf")
	want := filepath.Join("0xProto", "ZxProto-Regular.otf")
	if got := RenamedPath(in, "0xProto", "ZxProto"); got != want {
		t.Errorf("RenamedPath(%q) = %q, expected %q", in, got, want)
	}

	got, err := MirrorPath("in", filepath.Join("in", "sub", "a.otf"), "out")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("out", "sub", "a.otf"); got != want {
		t.Errorf("MirrorPath = %q, expected %q", got, want)
	}
	got, err = MirrorPath("a.otf", "a.otf", "out")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("out", "a.otf"); got != want {
		t.Errorf("MirrorPath = %q, expected %q", got, want)
	}
}
