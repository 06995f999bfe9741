// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package location resolves the paths named inside a corpus config against the
// file that declared them.
//
// Every evaluation call carries a context path: usually the config file (or a
// referenced operation file) currently being interpreted. Relative paths are
// resolved against the directory of that file.
package location

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📂 Dir returns the absolute directory that relative paths declared at the
// context path at are resolved against. An existing non-directory resolves to
// its parent; anything else (a directory, or a path that does not exist)
// resolves to itself.
func Dir(at string) (string, error) {
	if at == "" {
		at = "."
	}

	abs, err := filepath.Abs(at)
	if err != nil {
		return "", errors.Errorf("resolving context path %q: %w", at, err)
	}

	fi, err := os.Stat(abs)
	if err == nil && !fi.IsDir() {
		return filepath.Dir(abs), nil
	}

	return abs, nil
}

// 🔗 Join appends each element to dir. An absolute element replaces everything
// before it, so an already resolved path passes through unchanged.
//
// A ".." that follows a symlink steps out of the link's target, the way the
// operating system would, rather than cancelling the link's name.
func Join(dir string, elems ...string) string {
	p := filepath.Clean(dir)
	for _, elem := range elems {
		if filepath.IsAbs(elem) {
			vol := filepath.VolumeName(elem)
			p = vol + string(filepath.Separator)
			elem = elem[len(vol):]
		}
		parts := strings.FieldsFunc(elem, func(r rune) bool {
			return r == '/' || r == filepath.Separator
		})
		for _, part := range parts {
			switch part {
			case ".":
			case "..":
				if p == "." || filepath.Base(p) == ".." {
					p = filepath.Join(p, "..")
					continue
				}
				p = filepath.Dir(followLink(p))
			default:
				p = filepath.Join(p, part)
			}
		}
	}
	return p
}

// followLink returns the target of p when p is a symlink, and p otherwise.
func followLink(p string) string {
	fi, err := os.Lstat(p)
	if err != nil || fi.Mode()&os.ModeSymlink == 0 {
		return p
	}
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return p
	}
	return target
}

// 🎯 Resolve resolves name relative to base under the directory of the
// context path at.
func Resolve(at, base, name string) (string, error) {
	dir, err := Dir(at)
	if err != nil {
		return "", err
	}
	return Join(dir, base, name), nil
}
