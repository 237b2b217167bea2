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
)

// PostScriptName converts s into a valid PostScript font name.
//
// All characters outside the printable ASCII range 33–126 and the
// characters '[', ']', '(', ')', '{', '}', '<', '>', '/' and '%' are
// removed.  The result is truncated to 63 characters.
// https://docs.microsoft.com/en-us/typography/opentype/spec/name#name-ids
func PostScriptName(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c < 33 || c > 126 {
			continue
		}
		switch c {
		case '[', ']', '(', ')', '{', '}', '<', '>', '/', '%':
			continue
		}
		if b.Len() >= 63 {
			break
		}
		b.WriteRune(c)
	}
	return b.String()
}
