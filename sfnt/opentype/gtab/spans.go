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
	"fmt"

	"golang.org/x/exp/slices"
)

// span is the byte range [start, end) of a decoded structure.
type span struct {
	start, end int64

	// rewrite is set for structures which Encode overwrites in place.
	rewrite bool
}

type spanList []span

func (l *spanList) add(start, end int64, rewrite bool) {
	if end <= start {
		return
	}
	*l = append(*l, span{start: start, end: end, rewrite: rewrite})
}

// checkOverlap returns an error if a rewritable span shares bytes with any
// other span.  Read-only spans may overlap each other.
func (l spanList) checkOverlap(tableName string) error {
	sorted := slices.Clone(l)
	slices.SortFunc(sorted, func(a, b span) int {
		switch {
		case a.start < b.start:
			return -1
		case a.start > b.start:
			return 1
		}
		return 0
	})

	var maxEnd, maxRewriteEnd int64
	for _, s := range sorted {
		if maxRewriteEnd > s.start || s.rewrite && maxEnd > s.start {
			return invalidSince(tableName,
				fmt.Sprintf("overlapping structures at offset %d", s.start))
		}
		maxEnd = max(maxEnd, s.end)
		if s.rewrite {
			maxRewriteEnd = max(maxRewriteEnd, s.end)
		}
	}
	return nil
}
