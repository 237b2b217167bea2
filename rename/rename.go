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

// Package rename changes the names of a font.
//
// Names are stored in two places: in the records of the "name" table, and,
// for fonts with CFF outlines, in the Name INDEX and the Top DICT of the
// "CFF " table.  The functions in this package update both places
// consistently.  Records which cannot be decoded or re-encoded are left
// unchanged and are listed in the Report.
package rename

import (
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/sfntedit/internal/logging"
	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/cff"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

var (
	// ErrInvalidReplacement is returned if a replacement which is used for
	// PostScript names contains a space.
	ErrInvalidReplacement = errors.New("rename: replacement for PostScript names contains a space")

	// ErrEmptyPattern is returned by Substring if the search string is
	// empty.
	ErrEmptyPattern = errors.New("rename: empty search string")
)

// Change describes a single modified string.
type Change struct {
	// Where identifies the string, for example "name 3/1/0x0409 Family" or
	// "CFF FontName".
	Where string

	Old, New string
}

func (c Change) String() string {
	return fmt.Sprintf("%s: %q -> %q", c.Where, c.Old, c.New)
}

// Report lists the effects of a rename operation.
type Report struct {
	Changes []Change

	// Skipped lists the strings which could not be changed.  The entries
	// are *name.RecordError values for name records; for the "CFF " table
	// they wrap the error returned by the cff package.
	Skipped []error
}

// Changed reports whether any string was modified.
func (r *Report) Changed() bool {
	return len(r.Changes) > 0
}

func (r *Report) change(where, old, new string) {
	r.Changes = append(r.Changes, Change{Where: where, Old: old, New: new})
	logging.Logger().Info("name changed", "where", where, "old", old, "new", new)
}

func (r *Report) skip(err error) {
	r.Skipped = append(r.Skipped, err)
	logging.Logger().Warn("name not changed", "err", err)
}

// isPostScript reports whether a name record contains a PostScript name.
func isPostScript(id name.ID) bool {
	return id == name.PostScriptName
}

func recordLabel(rec *name.Record) string {
	return fmt.Sprintf("name %d/%d/0x%04x %s",
		rec.PlatformID, rec.EncodingID, rec.LanguageID, rec.NameID)
}

// updateNames calls update for every decodable record of the "name" table
// with one of the given name IDs, or for all records if ids is empty.
// If update returns true, the record text is replaced.
func (r *Report) updateNames(f *sfnt.Font, ids []name.ID, update func(id name.ID, old string) (string, bool)) {
	t := f.Name()
	if t == nil {
		return
	}
	for _, rec := range t.Records {
		if len(ids) > 0 && !hasID(ids, rec.NameID) {
			continue
		}
		old, err := rec.Text()
		if err != nil {
			r.skip(err)
			continue
		}
		s, ok := update(rec.NameID, old)
		if !ok {
			continue
		}
		if isPostScript(rec.NameID) {
			s = PostScriptName(s)
		}
		if s == old {
			continue
		}
		if err := rec.SetText(s); err != nil {
			r.skip(err)
			continue
		}
		r.change(recordLabel(rec), old, s)
	}
}

func hasID(ids []name.ID, id name.ID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// cffField is one of the names stored in the "CFF " table.
type cffField struct {
	label      string
	postScript bool
	get        func(i int) (string, bool)
	set        func(i int, s string) error
}

func cffFields(t *cff.Table) []cffField {
	return []cffField{
		{
			label:      "FontName",
			postScript: true,
			get:        func(i int) (string, bool) { return t.FontName(i), true },
			set:        t.SetFontName,
		},
		{label: "FullName", get: t.FullName, set: t.SetFullName},
		{label: "FamilyName", get: t.FamilyName, set: t.SetFamilyName},
	}
}

// updateCFF calls update for every name stored in the "CFF " table.
// If the table cannot be edited, for example because the font is CID-keyed,
// nothing is changed and the reason is added to the list of skipped
// strings.
func (r *Report) updateCFF(f *sfnt.Font, update func(field cffField, old string) (string, bool)) {
	t := f.CFF()
	if t == nil {
		return
	}
	if err := t.Editable(); err != nil {
		r.skip(fmt.Errorf("CFF names: %w", err))
		return
	}

	for i := 0; i < t.NumFonts(); i++ {
		for _, field := range cffFields(t) {
			old, ok := field.get(i)
			if !ok {
				continue
			}
			s, ok := update(field, old)
			if !ok {
				continue
			}
			if field.postScript {
				s = PostScriptName(s)
			}
			if s == old {
				continue
			}
			if err := field.set(i, s); err != nil {
				r.skip(fmt.Errorf("CFF %s: %w", field.label, err))
				continue
			}
			where := "CFF " + field.label
			if t.NumFonts() > 1 {
				where = fmt.Sprintf("CFF font %d %s", i, field.label)
			}
			r.change(where, old, s)
		}
	}
}

// Substring replaces every occurrence of old in the names of the font.
//
// In the UniqueID and PostScriptName records and in the CFF font name, old
// is replaced by file.  All other names use internal.  The replacement file
// must not contain spaces, since it is used for PostScript names.
func Substring(f *sfnt.Font, old, internal, file string) (*Report, error) {
	if old == "" {
		return nil, ErrEmptyPattern
	}
	if strings.Contains(file, " ") {
		return nil, ErrInvalidReplacement
	}

	r := &Report{}
	r.updateNames(f, nil, func(id name.ID, s string) (string, bool) {
		if !strings.Contains(s, old) {
			return "", false
		}
		repl := internal
		if id == name.UniqueID || id == name.PostScriptName {
			repl = file
		}
		return strings.ReplaceAll(s, old, repl), true
	})
	r.updateCFF(f, func(field cffField, s string) (string, bool) {
		if !strings.Contains(s, old) {
			return "", false
		}
		repl := internal
		if field.postScript {
			repl = file
		}
		return strings.ReplaceAll(s, old, repl), true
	})
	return r, nil
}
