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

// Package state records the last build of a corpus next to its output, so
// the status command can tell whether the output is still current.
//
// The record is never read during evaluation.
package state

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// SchemaVersion is written into every record.
const SchemaVersion = "1.0.0"

// RecordSuffix is appended to the output path to name its record.
const RecordSuffix = ".lock.json"

// 📋 Record describes the last successful build of one output.
type Record struct {
	SchemaVersion string    `json:"schema_version"`
	ID            string    `json:"id"`
	Config        string    `json:"config"`
	ConfigHash    string    `json:"config_hash"`
	Output        string    `json:"output"`
	OutputHash    string    `json:"output_hash"`
	Texts         int       `json:"texts"`
	Bytes         int64     `json:"bytes"`
	Warnings      int       `json:"warnings"`
	FinishedAt    time.Time `json:"finished_at"`
}

// 🏭 New returns a record with a fresh build ID.
func New(config, configHash, output string) *Record {
	return &Record{
		SchemaVersion: SchemaVersion,
		ID:            uuid.NewString(),
		Config:        config,
		ConfigHash:    configHash,
		Output:        output,
	}
}

// RecordPath returns the record path for an output path.
func RecordPath(output string) string {
	return output + RecordSuffix
}

// 📂 Load reads the record at path. A missing record is (nil, nil).
func Load(ctx context.Context, path string) (*Record, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading build record")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Errorf("reading build record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Errorf("parsing build record: %w", err)
	}
	return &rec, nil
}

// 💾 Save writes the record to path atomically.
func Save(ctx context.Context, path string, rec *Record) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Str("id", rec.ID).Msg("writing build record")

	// Marshal with indentation for readability
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Errorf("marshaling build record: %w", err)
	}

	// Write atomically using temp file
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp build record: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp build record: %w", err)
	}

	return nil
}

// 🔍 HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// 🚦 Status is the result of comparing a record with the files on disk.
type Status string

const (
	StatusOK             Status = "ok"
	StatusConfigChanged  Status = "config-changed"
	StatusOutputModified Status = "output-modified"
	StatusMissing        Status = "missing"
)

// 🔍 Check compares rec with the current config hash and the output on disk.
// A nil record, or an output that no longer exists, is StatusMissing.
func Check(ctx context.Context, rec *Record, configHash string) (Status, error) {
	if rec == nil {
		return StatusMissing, nil
	}

	outputHash, err := HashFile(rec.Output)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing, nil
		}
		return "", err
	}

	status := StatusOK
	switch {
	case rec.ConfigHash != configHash:
		status = StatusConfigChanged
	case rec.OutputHash != outputHash:
		status = StatusOutputModified
	}

	zerolog.Ctx(ctx).Debug().
		Str("output", rec.Output).
		Str("status", string(status)).
		Msg("checked build record")
	return status, nil
}
