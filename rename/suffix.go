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
	"strings"

	"seehuhn.de/go/sfntedit/sfnt"
	"seehuhn.de/go/sfntedit/sfnt/name"
)

// suffixIDs lists the name records which are changed by AppendSuffix.
var suffixIDs = []name.ID{
	name.Family,
	name.UniqueID,
	name.FullName,
	name.PostScriptName,
	name.TypographicFamily,
	name.WWSFamily,
}

// AppendSuffix appends a suffix like "-NL" to the names of a font.
//
// Leading hyphens are removed from suffix.  PostScript names always use a
// hyphen as the separator.  Other names use a hyphen if they contain a
// hyphen but no space, and a space otherwise.  Names which already end in
// the suffix are not changed, so that calling AppendSuffix twice has the
// same effect as calling it once.
func AppendSuffix(f *sfnt.Font, suffix string) *Report {
	base := strings.TrimLeft(suffix, "-")
	r := &Report{}
	if base == "" {
		return r
	}

	r.updateNames(f, suffixIDs, func(id name.ID, s string) (string, bool) {
		return withSuffix(s, base, isPostScript(id))
	})
	r.updateCFF(f, func(field cffField, s string) (string, bool) {
		return withSuffix(s, base, field.postScript)
	})
	return r
}

func withSuffix(s, base string, postScript bool) (string, bool) {
	if strings.HasSuffix(s, "-"+base) || strings.HasSuffix(s, " "+base) {
		return s, false
	}
	if postScript {
		if strings.HasSuffix(s, "-"+PostScriptName(base)) {
			return s, false
		}
		return s + "-" + base, true
	}
	if strings.Contains(s, "-") && !strings.Contains(s, " ") {
		return s + "-" + base, true
	}
	return s + " " + base, true
}
