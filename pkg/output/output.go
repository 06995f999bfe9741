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

// Package output writes corpora: one text per line, optionally gzip
// compressed, replaced atomically on disk.
package output

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// CompressionGzip selects gzip compressed output.
const CompressionGzip = "gzip"

// 📊 Stats counts what was written.
type Stats struct {
	Texts int
	Bytes int64 // uncompressed
}

// 📝 Write writes every text followed by a newline. It stops at the first
// error in texts and returns what was written up to that point.
func Write(ctx context.Context, w io.Writer, texts iter.Seq2[string, error]) (Stats, error) {
	var stats Stats
	for text, err := range texts {
		if err != nil {
			return stats, err
		}

		n, err := io.WriteString(w, text+"\n")
		stats.Bytes += int64(n)
		if err != nil {
			return stats, errors.Errorf("writing text %d: %w", stats.Texts, err)
		}
		stats.Texts++
	}

	zerolog.Ctx(ctx).Debug().Int("texts", stats.Texts).Int64("bytes", stats.Bytes).Msg("corpus written")
	return stats, nil
}

// 📦 File is a corpus file being written. Writes go to a temporary file next
// to the target; Commit moves it into place, Abort throws it away.
type File struct {
	path string
	tmp  *os.File
	gz   *gzip.Writer
	buf  *bufio.Writer
	done bool
}

// 🏭 Create starts writing the corpus file at path. compression is "" or
// "gzip". Parent directories are created.
func Create(path, compression string) (*File, error) {
	if compression != "" && compression != CompressionGzip {
		return nil, errors.Errorf("unsupported compression %q", compression)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Errorf("creating parent directories: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Errorf("creating temp file: %w", err)
	}
	// temp files start out 0600; the corpus is an ordinary file
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, errors.Errorf("setting corpus file mode: %w", err)
	}

	f := &File{path: path, tmp: tmp}
	var w io.Writer = tmp
	if compression == CompressionGzip {
		f.gz = gzip.NewWriter(tmp)
		w = f.gz
	}
	f.buf = bufio.NewWriter(w)
	return f, nil
}

// Path returns the final path of the file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

// ✅ Commit flushes everything and renames the temp file to the target.
func (f *File) Commit() error {
	if f.done {
		return errors.Errorf("corpus file %s already closed", f.path)
	}
	f.done = true

	if err := f.flush(); err != nil {
		f.discard()
		return err
	}

	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name()) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *File) flush() error {
	if err := f.buf.Flush(); err != nil {
		return errors.Errorf("flushing corpus: %w", err)
	}
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			return errors.Errorf("closing gzip stream: %w", err)
		}
	}
	if err := f.tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	return nil
}

func (f *File) discard() {
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// 💾 WriteFile writes texts to the corpus file at path, replacing it only when
// every text was written.
func WriteFile(ctx context.Context, path, compression string, texts iter.Seq2[string, error]) (Stats, error) {
	f, err := Create(path, compression)
	if err != nil {
		return Stats{}, err
	}
	defer f.Abort()

	stats, err := Write(ctx, f, texts)
	if err != nil {
		return stats, err
	}

	if err := f.Commit(); err != nil {
		return stats, err
	}
	return stats, nil
}
