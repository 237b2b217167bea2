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

// Package batch applies font modifications to many files.
//
// Each Job reads one font file, applies a list of Steps and writes the
// result.  Jobs run concurrently.  A failure only affects the job where it
// occurs; all outcomes are collected in a Report.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/sfntedit/internal/logging"
	"seehuhn.de/go/sfntedit/sfnt"
)

// Job describes the processing of a single font file.
type Job struct {
	Input  string
	Output string
	Steps  []Step
}

// Options controls the behaviour of Run.
type Options struct {
	// Workers is the maximal number of files processed concurrently.
	// If this is zero, runtime.NumCPU() is used.
	Workers int

	// Overwrite allows to replace existing output files.
	Overwrite bool

	// Verify makes Run parse every output font with an independent
	// decoder before it is written.
	Verify bool

	// Progress, if set, is called after each job has finished.
	// Calls are serialized.
	Progress func(*Result)
}

// Result is the outcome of a single job.
type Result struct {
	Input  string
	Output string

	// Kind is the lower-case file name extension of the input, for example
	// ".otf".
	Kind string

	// Notes describe the changes made to the font.
	Notes []string

	// Family is the family name of the output font, as seen by the
	// verifier.  This is only set if Options.Verify is true.
	Family string

	Err error
}

// VerifyError is used if an output font cannot be parsed.
type VerifyError struct {
	Path string
	Err  error
}

func (err *VerifyError) Error() string {
	return fmt.Sprintf("%s: output does not parse: %v", err.Path, err.Err)
}

func (err *VerifyError) Unwrap() error {
	return err.Err
}

// Run processes all jobs and returns a report.  The Results in the report
// are in the same order as the jobs.
//
// Run stops starting new jobs when ctx is cancelled; jobs which were not
// started are reported with the context error.
func Run(ctx context.Context, jobs []Job, opts Options) *Report {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rep := &Report{Results: make([]*Result, len(jobs))}
	var mu sync.Mutex
	done := func(res *Result) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.Progress(res)
	}

	g := &errgroup.Group{}
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			var res *Result
			if err := ctx.Err(); err != nil {
				res = newResult(job)
				res.Err = err
			} else {
				res = process(job, opts)
			}
			rep.Results[i] = res
			done(res)
			return nil
		})
	}
	g.Wait()

	return rep
}

func newResult(job Job) *Result {
	return &Result{
		Input:  job.Input,
		Output: job.Output,
		Kind:   Kind(job.Input),
	}
}

func process(job Job, opts Options) *Result {
	res := newResult(job)
	log := logging.Logger().With("file", job.Input)

	res.Err = func() error {
		f, err := sfnt.ReadFile(job.Input)
		if err != nil {
			return err
		}
		for _, step := range job.Steps {
			notes, err := step.apply(f)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", job.Input, step, err)
			}
			res.Notes = append(res.Notes, notes...)
		}

		data, err := f.Encode()
		if err != nil {
			return fmt.Errorf("%s: %w", job.Input, err)
		}
		if opts.Verify {
			res.Family, err = verify(data)
			if err != nil {
				return &VerifyError{Path: job.Output, Err: err}
			}
		}

		err = os.MkdirAll(filepath.Dir(job.Output), 0o755)
		if err != nil {
			return err
		}
		return sfnt.WriteData(job.Output, data, opts.Overwrite)
	}()

	if res.Err != nil {
		log.Error("processing failed", "err", res.Err)
	} else {
		log.Info("font written", "output", job.Output)
	}
	return res
}

// verify parses the font data and returns the family name.
func verify(data []byte) (string, error) {
	f, err := xsfnt.Parse(data)
	if err != nil {
		return "", err
	}
	family, err := f.Name(nil, xsfnt.NameIDFamily)
	if errors.Is(err, xsfnt.ErrNotFound) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return family, nil
}
