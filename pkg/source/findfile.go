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

package source

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/location"
	"github.com/walteh/corpusrc/pkg/schema"
	"github.com/walteh/corpusrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔎 FindFile yields the absolute paths of files found under its walk roots.
//
// Each entry of Paths is a walk root, resolved as Base/path under the context
// directory. Within a directory, its files come first in lexical order, then
// its subdirectories in lexical order. A subdirectory whose name does not
// fully match DirPattern is never entered. A file whose name does not fully
// match FilePattern is skipped. Ignore holds doublestar globs matched against
// the slash separated path relative to the walk root; they drop files and
// prune directories. Symlinked directories are not entered.
type FindFile struct {
	node
	Base        string
	Paths       []string
	FilePattern *text.Pattern
	DirPattern  *text.Pattern
	Ignore      []string
}

func (s *FindFile) Type() string { return TypeFind }

func (s *FindFile) Texts(ctx context.Context, at string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, p := range s.Paths {
			root, err := location.Resolve(at, s.Base, p)
			if err != nil {
				yield("", errors.Errorf("%s: %w", s.path, err))
				return
			}

			zerolog.Ctx(ctx).Debug().Str("source", s.path).Str("root", root).Msg("walking directory")

			w := &walker{find: s, root: root, yield: yield}
			if !w.dir(ctx, root) {
				return
			}
		}
	}
}

// walker holds the state of a single walk root.
type walker struct {
	find  *FindFile
	root  string
	yield func(string, error) bool
}

// dir visits one directory. It returns false once the walk must stop, either
// because the consumer stopped or because an error was yielded.
func (w *walker) dir(ctx context.Context, dir string) bool {
	if err := ctx.Err(); err != nil {
		w.yield("", err)
		return false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.yield("", errors.Errorf("%s: reading directory: %w", w.find.path, err))
		return false
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir, err := w.isDir(entry, path)
		if err != nil {
			w.yield("", errors.Errorf("%s: %w", w.find.path, err))
			return false
		}

		if isDir {
			if entry.Type()&fs.ModeSymlink == 0 {
				subdirs = append(subdirs, path)
			}
			continue
		}

		keep, err := w.keepFile(entry.Name(), path)
		if err != nil {
			w.yield("", errors.Errorf("%s: %w", w.find.path, err))
			return false
		}
		if !keep {
			continue
		}
		if !w.yield(path, nil) {
			return false
		}
	}

	for _, sub := range subdirs {
		keep, err := w.keepDir(filepath.Base(sub), sub)
		if err != nil {
			w.yield("", errors.Errorf("%s: %w", w.find.path, err))
			return false
		}
		if !keep {
			zerolog.Ctx(ctx).Trace().Str("dir", sub).Msg("pruned directory")
			continue
		}
		if !w.dir(ctx, sub) {
			return false
		}
	}
	return true
}

// isDir reports whether the entry is a directory, following symlinks. A
// dangling symlink counts as a file.
func (w *walker) isDir(entry fs.DirEntry, path string) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Errorf("resolving symlink: %w", err)
	}
	return fi.IsDir(), nil
}

func (w *walker) keepFile(name, path string) (bool, error) {
	return w.keep(w.find.FilePattern, name, path)
}

func (w *walker) keepDir(name, path string) (bool, error) {
	return w.keep(w.find.DirPattern, name, path)
}

func (w *walker) keep(pattern *text.Pattern, name, path string) (bool, error) {
	if pattern != nil {
		ok, err := pattern.MatchString(name)
		if err != nil || !ok {
			return false, err
		}
	}
	return !w.ignored(path), nil
}

func (w *walker) ignored(path string) bool {
	if len(w.find.Ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.find.Ignore {
		// patterns are validated at decode time
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *FindFile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "find base=%q paths=%q", s.Base, s.Paths)
	if s.FilePattern != nil {
		fmt.Fprintf(&b, " file_pattern=%q", s.FilePattern)
	}
	if s.DirPattern != nil {
		fmt.Fprintf(&b, " dir_pattern=%q", s.DirPattern)
	}
	if len(s.Ignore) > 0 {
		fmt.Fprintf(&b, " ignore=%q", s.Ignore)
	}
	return b.String()
}

func decodeFindFile(n node, obj *schema.Object) (Source, error) {
	s := &FindFile{node: n}

	var err error
	if s.Base, err = obj.String("base", "."); err != nil {
		return nil, err
	}
	if s.Paths, err = obj.Strings("paths", []string{"."}); err != nil {
		return nil, err
	}
	if s.FilePattern, err = decodePattern(obj, "file_pattern"); err != nil {
		return nil, err
	}
	if s.DirPattern, err = decodePattern(obj, "dir_pattern"); err != nil {
		return nil, err
	}
	if s.Ignore, err = obj.Strings("ignore", nil); err != nil {
		return nil, err
	}
	for i, pattern := range s.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, schema.Invalid(schema.Index(schema.Field(n.path, "ignore"), i), "invalid glob %q", pattern)
		}
	}

	return s, nil
}

func decodePattern(obj *schema.Object, name string) (*text.Pattern, error) {
	pattern, err := obj.OptionalString(name)
	if err != nil || pattern == nil || *pattern == "" {
		return nil, err
	}
	re, err := text.CompileFullMatch(*pattern)
	if err != nil {
		return nil, schema.Invalid(schema.Field(obj.Path(), name), "invalid regular expression: %s", err.Error())
	}
	return re, nil
}
