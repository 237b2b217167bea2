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
	"errors"
	"fmt"
	"strings"

	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

// ErrMissingVersion is returned by Fixed if the font has no decodable
// Version record.
var ErrMissingVersion = errors.New("rename: no version record")

// MalformedVersionError is returned by Fixed if the Version record does
// not have the form "Version <number>".
type MalformedVersionError struct {
	Version string
}

func (err *MalformedVersionError) Error() string {
	return fmt.Sprintf("rename: malformed version string %q", err.Version)
}

// DefaultVendor is used in the UniqueID record if no vendor is given.
const DefaultVendor = "NONE"

// FixedNames gives the new names for Fixed.
type FixedNames struct {
	// FontName is the new font name.  The PostScript name is derived from
	// this by removing all characters which are not allowed in PostScript
	// names.
	FontName string

	FamilyName string
	FullName   string

	// Vendor is used as the second component of the UniqueID record.
	// If this is empty, DefaultVendor is used.
	Vendor string
}

// Fixed replaces the names of a font by the given values.
//
// The Family, FullName and PostScriptName records are overwritten.  The
// UniqueID record is set to "<version>;<vendor>;<font name>", where the
// version is taken from the Version record.  In the "CFF " table, the font
// name, the FullName and the FamilyName are replaced.
//
// If the font has no Version record, ErrMissingVersion is returned, and if
// the version cannot be extracted, a *MalformedVersionError.  In both cases
// the font is not modified.
func Fixed(f *sfnt.Font, names *FixedNames) (*Report, error) {
	psName := PostScriptName(names.FontName)
	if psName == "" {
		return nil, ErrInvalidReplacement
	}
	version, err := fontVersion(f)
	if err != nil {
		return nil, err
	}
	vendor := names.Vendor
	if vendor == "" {
		vendor = DefaultVendor
	}

	newValue := map[name.ID]string{
		name.Family:         names.FamilyName,
		name.UniqueID:       version + ";" + vendor + ";" + names.FontName,
		name.FullName:       names.FullName,
		name.PostScriptName: psName,
	}
	r := &Report{}
	ids := []name.ID{name.Family, name.UniqueID, name.FullName, name.PostScriptName}
	r.updateNames(f, ids, func(id name.ID, _ string) (string, bool) {
		s := newValue[id]
		return s, s != ""
	})
	r.updateCFF(f, func(field cffField, _ string) (string, bool) {
		var s string
		switch field.label {
		case "FontName":
			s = psName
		case "FullName":
			s = names.FullName
		case "FamilyName":
			s = names.FamilyName
		}
		return s, s != ""
	})
	return r, nil
}

// fontVersion returns the version number from the first decodable Version
// record of the font.  For "Version 1.002;hotconv" the result is
// "1.002;hotconv".
func fontVersion(f *sfnt.Font) (string, error) {
	t := f.Name()
	if t == nil {
		return "", ErrMissingVersion
	}
	for _, rec := range t.Find(name.Version) {
		s, err := rec.Text()
		if err != nil {
			continue
		}
		fields := strings.Fields(s)
		if len(fields) < 2 {
			return "", &MalformedVersionError{Version: s}
		}
		return fields[1], nil
	}
	return "", ErrMissingVersion
}
