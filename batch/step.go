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
	"fmt"

	"seehuhn.de/go/sfntedit/feature"
	"seehuhn.de/go/sfntedit/rename"
	"seehuhn.de/go/sfntedit/sfnt"
)

// Step is a modification applied to a font.
//
// The possible steps are RenameSubstring, RenameFixed, AppendSuffix and
// RemoveFeature.
type Step interface {
	fmt.Stringer

	// apply modifies the font and returns notes for the report.
	apply(f *sfnt.Font) ([]string, error)
}

// RenameSubstring replaces a substring in the font names.
// See rename.Substring.
type RenameSubstring struct {
	Old      string
	Internal string
	File     string
}

func (s RenameSubstring) String() string {
	return fmt.Sprintf("rename %q to %q", s.Old, s.Internal)
}

func (s RenameSubstring) apply(f *sfnt.Font) ([]string, error) {
	r, err := rename.Substring(f, s.Old, s.Internal, s.File)
	if err != nil {
		return nil, err
	}
	return renameNotes(r), nil
}

// RenameFixed replaces the font names by fixed values.
// See rename.Fixed.
type RenameFixed struct {
	Names rename.FixedNames
}

func (s RenameFixed) String() string {
	return fmt.Sprintf("set font name %q", s.Names.FontName)
}

func (s RenameFixed) apply(f *sfnt.Font) ([]string, error) {
	r, err := rename.Fixed(f, &s.Names)
	if err != nil {
		return nil, err
	}
	return renameNotes(r), nil
}

// AppendSuffix appends a suffix to the font names.
// See rename.AppendSuffix.
type AppendSuffix struct {
	Suffix string
}

func (s AppendSuffix) String() string {
	return fmt.Sprintf("append suffix %q", s.Suffix)
}

func (s AppendSuffix) apply(f *sfnt.Font) ([]string, error) {
	return renameNotes(rename.AppendSuffix(f, s.Suffix)), nil
}

// RemoveFeature removes a layout feature.  If Table is empty, the feature
// is removed from the "GSUB" table.
type RemoveFeature struct {
	Table string
	Tag   string
}

func (s RemoveFeature) table() string {
	if s.Table == "" {
		return "GSUB"
	}
	return s.Table
}

func (s RemoveFeature) String() string {
	return fmt.Sprintf("remove %s feature %q", s.table(), s.Tag)
}

func (s RemoveFeature) apply(f *sfnt.Font) ([]string, error) {
	n, err := feature.RemoveFrom(f, s.table(), s.Tag)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []string{fmt.Sprintf("no %q feature in %s", s.Tag, s.table())}, nil
	}
	return []string{fmt.Sprintf("removed %d %q feature(s) from %s", n, s.Tag, s.table())}, nil
}

func renameNotes(r *rename.Report) []string {
	var notes []string
	for _, c := range r.Changes {
		notes = append(notes, c.String())
	}
	for _, err := range r.Skipped {
		notes = append(notes, "skipped: "+err.Error())
	}
	return notes
}
