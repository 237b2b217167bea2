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
	"os"
	"path/filepath"

	"seehuhn.de/go/sfntedit/batch"
)

// renameJobs plans the jobs for the rename command.  Files found in a
// directory are written to the output directory, which defaults to a
// subdirectory of the input directory.  A single file is written next to
// the input file by default.  In both cases, from is replaced by fileName
// in the output file names.
func renameJobs(paths []string, from, fileName, output string, recursive bool, steps []batch.Step) ([]batch.Job, error) {
	var jobs []batch.Job
	for _, root := range paths {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !fi.IsDir() {
			outDir := output
			if outDir == "" {
				outDir = filepath.Dir(root)
			}
			target := filepath.Join(outDir, batch.RenamedPath(filepath.Base(root), from, fileName))
			jobs = append(jobs, batch.Job{Input: root, Output: target, Steps: steps})
			continue
		}

		files, err := batch.FindFonts(root, batch.Filter{Prefix: from + "-", Recursive: recursive})
		if err != nil {
			return nil, err
		}
		outRoot := output
		if outRoot == "" {
			outRoot = filepath.Join(root, fileName)
		}
		for _, file := range files {
			target, err := batch.MirrorPath(root, file, outRoot)
			if err != nil {
				return nil, err
			}
			target = batch.RenamedPath(target, from, fileName)
			jobs = append(jobs, batch.Job{Input: file, Output: target, Steps: steps})
		}
	}
	return jobs, nil
}

// suffixJobs plans the jobs for commands which mark their output with a
// suffix.  Directories are mirrored into the output directory, which
// defaults to the input directory name with the suffix appended.  For a
// single file, output may be a file name or an existing directory.
func suffixJobs(paths []string, output, suffix string, recursive bool, steps []batch.Step) ([]batch.Job, error) {
	var jobs []batch.Job
	for _, root := range paths {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}

		if !fi.IsDir() {
			var target string
			switch {
			case output == "":
				target = root
			case isDir(output):
				target = filepath.Join(output, filepath.Base(root))
			default:
				target = output
			}
			target = batch.SuffixedPath(target, suffix)
			jobs = append(jobs, batch.Job{Input: root, Output: target, Steps: steps})
			continue
		}

		files, err := batch.FindFonts(root, batch.Filter{Recursive: recursive})
		if err != nil {
			return nil, err
		}
		outRoot := output
		if outRoot == "" {
			outRoot = filepath.Clean(root) + suffix
		}
		for _, file := range files {
			target, err := batch.MirrorPath(root, file, outRoot)
			if err != nil {
				return nil, err
			}
			target = batch.SuffixedPath(target, suffix)
			jobs = append(jobs, batch.Job{Input: file, Output: target, Steps: steps})
		}
	}
	return jobs, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
