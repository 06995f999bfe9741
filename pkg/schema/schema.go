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

// Package schema validates structural objects (the map[string]any / []any
// trees produced by JSON, YAML and HCL decoding) into typed descriptors.
//
// Descriptors are tagged unions: every object carries a "type" discriminator.
// Errors name the offending field path, e.g. source.sources[1].operations[0].type.
package schema

import (
	"fmt"
	"sort"

	"gitlab.com/tozd/go/errors"
)

// Field names shared by every descriptor.
const (
	TypeField    = "type"
	CommentField = "comment"
)

// ❌ ValidationError is a structural validation failure at a field path.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// Invalid returns a ValidationError for path.
func Invalid(path, format string, args ...any) error {
	return errors.WithStack(&ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Field returns the path of a named field below path.
func Field(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Index returns the path of a list element below path.
func Index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// 📦 Object is a structural object being decoded. Each accessor marks its
// field as known; Done rejects whatever was not read.
type Object struct {
	path   string
	fields map[string]any
	known  map[string]bool
}

// NewObject wraps v, which must be an object.
func NewObject(path string, v any) (*Object, error) {
	fields, ok := asObject(v)
	if !ok {
		return nil, Invalid(path, "expected an object, got %s", Describe(v))
	}
	return &Object{
		path:   path,
		fields: fields,
		known:  map[string]bool{TypeField: true, CommentField: true},
	}, nil
}

// Path returns the field path of the object.
func (o *Object) Path() string {
	return o.path
}

// Has reports whether the field is present and not null.
func (o *Object) Has(name string) bool {
	v, ok := o.fields[name]
	return ok && v != nil
}

// 🏷️ Kind returns the discriminator.
func (o *Object) Kind() (string, error) {
	if !o.Has(TypeField) {
		return "", Invalid(Field(o.path, TypeField), "field is required")
	}
	return o.RequiredString(TypeField)
}

// Comment returns the free-form comment, or "".
func (o *Object) Comment() (string, error) {
	return o.String(CommentField, "")
}

// String returns a string field, or def when it is absent.
func (o *Object) String(name, def string) (string, error) {
	s, err := o.OptionalString(name)
	if err != nil {
		return "", err
	}
	if s == nil {
		return def, nil
	}
	return *s, nil
}

// RequiredString returns a string field that must be present.
func (o *Object) RequiredString(name string) (string, error) {
	s, err := o.OptionalString(name)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", Invalid(Field(o.path, name), "field is required")
	}
	return *s, nil
}

// OptionalString returns a string field, or nil when it is absent or null.
func (o *Object) OptionalString(name string) (*string, error) {
	o.known[name] = true
	v, ok := o.fields[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, Invalid(Field(o.path, name), "expected a string, got %s", Describe(v))
	}
	return &s, nil
}

// Bool returns a boolean field, or def when it is absent.
func (o *Object) Bool(name string, def bool) (bool, error) {
	o.known[name] = true
	v, ok := o.fields[name]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, Invalid(Field(o.path, name), "expected a boolean, got %s", Describe(v))
	}
	return b, nil
}

// Strings returns a list-of-strings field, or def when it is absent.
func (o *Object) Strings(name string, def []string) ([]string, error) {
	if !o.Has(name) {
		o.known[name] = true
		return def, nil
	}
	return o.RequiredStrings(name)
}

// RequiredStrings returns a list-of-strings field that must be present. An
// empty list is allowed.
func (o *Object) RequiredStrings(name string) ([]string, error) {
	items, err := o.List(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, Invalid(Index(Field(o.path, name), i), "expected a string, got %s", Describe(item))
		}
		out = append(out, s)
	}
	return out, nil
}

// Value returns the raw value of a field that must be present.
func (o *Object) Value(name string) (any, error) {
	o.known[name] = true
	v, ok := o.fields[name]
	if !ok || v == nil {
		return nil, Invalid(Field(o.path, name), "field is required")
	}
	return v, nil
}

// List returns a list field that must be present.
func (o *Object) List(name string) ([]any, error) {
	o.known[name] = true
	v, ok := o.fields[name]
	if !ok || v == nil {
		return nil, Invalid(Field(o.path, name), "field is required")
	}
	items, ok := v.([]any)
	if !ok {
		return nil, Invalid(Field(o.path, name), "expected an array, got %s", Describe(v))
	}
	return items, nil
}

// ✅ Done fails on the first (sorted) field no accessor asked for, and checks
// the comment field's type.
func (o *Object) Done() error {
	if _, err := o.Comment(); err != nil {
		return err
	}

	var unknown []string
	for name := range o.fields {
		if !o.known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return Invalid(Field(o.path, unknown[0]), "unknown field")
}

// Describe names the structural kind of v for error messages.
func Describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case []any:
		return "an array"
	case map[string]any, map[any]any:
		return "an object"
	case int, int64, uint64, float64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
