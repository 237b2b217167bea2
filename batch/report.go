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
	"errors"
	"fmt"
)

// Report collects the results of a batch run.
type Report struct {
	Results []*Result
}

// Succeeded returns the number of successfully processed files for each
// kind of font file.
func (r *Report) Succeeded() map[string]int {
	res := make(map[string]int)
	for _, x := range r.Results {
		if x.Err == nil {
			res[x.Kind]++
		}
	}
	return res
}

// Failed returns the results of all jobs which failed.
func (r *Report) Failed() []*Result {
	var res []*Result
	for _, x := range r.Results {
		if x.Err != nil {
			res = append(res, x)
		}
	}
	return res
}

// Err returns an error which combines all errors of the batch run, or nil
// if all jobs succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, x := range r.Failed() {
		errs = append(errs, x.Err)
	}
	return errors.Join(errs...)
}

func (r *Report) String() string {
	ok := 0
	for _, n := range r.Succeeded() {
		ok += n
	}
	return fmt.Sprintf("%d of %d files processed, %d failed",
		ok, len(r.Results), len(r.Results)-ok)
}
