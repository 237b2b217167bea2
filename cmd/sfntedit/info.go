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

package main

import (
	"fmt"
	"os"
	"strings"

	ssfnt "seehuhn.de/go/sfnt"

	"seehuhn.de/go/sfntedit/feature"
	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

type infoCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Font files."`
}

func (c *infoCmd) Run(g *Globals) error {
	failed := 0
	for _, file := range c.Files {
		err := showInfo(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(c.Files))
	}
	return nil
}

func showInfo(file string) error {
	fd, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fd.Close()
	info, err := ssfnt.Read(fd)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	f, err := sfnt.ReadFile(file)
	if err != nil {
		return err
	}

	fmt.Printf("%s:\n", file)
	fmt.Printf("  family: %s\n", info.FamilyName)
	outlines := "CFF"
	if info.IsGlyf() {
		outlines = "glyf"
	}
	fmt.Printf("  outlines: %s, %d units per em\n", outlines, info.UnitsPerEm)
	fmt.Printf("  tables: %s\n", strings.Join(f.Tags(), ", "))
	if t := f.Name(); t != nil {
		for _, id := range []name.ID{name.FullName, name.PostScriptName, name.Version} {
			recs := t.Find(id)
			if len(recs) == 0 {
				continue
			}
			s, err := recs[0].Text()
			if err != nil {
				s = err.Error()
			}
			fmt.Printf("  %s [%s]: %s\n", id, recs[0].Language(t.LangTags), s)
		}
	}
	if t := f.CFF(); t != nil {
		for i := 0; i < t.NumFonts(); i++ {
			kind := ""
			if t.IsCIDKeyed(i) {
				kind = " (CID-keyed)"
			}
			fmt.Printf("  CFF font name: %s%s\n", t.FontName(i), kind)
		}
	}
	for _, table := range []string{"GSUB", "GPOS"} {
		if !f.Has(table) {
			continue
		}
		if _, err := f.Layout(table); err != nil {
			fmt.Printf("  %s: not decoded: %v\n", table, err)
			continue
		}
		fmt.Printf("  %s features: %s\n", table, strings.Join(uniqueTags(feature.Tags(f, table)), " "))
	}
	return nil
}

// uniqueTags removes repeated tags, keeping the first occurrence.
func uniqueTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var res []string
	for _, tag := range tags {
		if !seen[tag] {
			seen[tag] = true
			res = append(res, tag)
		}
	}
	return res
}
