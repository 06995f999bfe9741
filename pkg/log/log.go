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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎨 Display configuration
const (
	outputIndent = 4  // spaces to indent output entries
	nameWidth    = 35 // Base width for the output path
	statusWidth  = 15 // Width for status text
)

// 🎯 OutputOperation describes what happened to one corpus output
type OutputOperation struct {
	Path     string // Output path, or "stdout"
	Status   string // Operation status
	Texts    int    // Number of texts written
	Bytes    int64  // Number of uncompressed bytes written
	Warnings int    // Number of warnings logged while building
	IsNew    bool   // Whether the output was (re)written
	IsStale  bool   // Whether the output no longer matches its config
	IsFailed bool   // Whether the build or check failed
}

// 📦 BuildOperation describes a build for logging
type BuildOperation struct {
	Config string // Config file path
	Source string // Root source type
	Output string // Output path, or "stdout"
}

// 🌳 TreeItem is one node of a rendered tree, parents before children
type TreeItem struct {
	Level int
	Text  string
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *BuildOperation
	operations []OutputOperation
}

// 🏭 New creates a new logger. Console lines are mirrored to stderr at level.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatOutputOperation formats an output operation for display
func (l *Logger) formatOutputOperation(op OutputOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsStale:
		symbol = '⟳'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	counts := fmt.Sprintf("%d texts, %d bytes", op.Texts, op.Bytes)
	if op.Warnings > 0 {
		counts += color.New(color.FgYellow).Sprintf(", %d warnings", op.Warnings)
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", outputIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		color.New(color.Faint).Sprint(counts))
}

// 📝 LogOutputOperation logs an output operation
func (l *Logger) LogOutputOperation(ctx context.Context, op OutputOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatOutputOperation(op))

	l.zlog.Info().
		Str("output", op.Path).
		Str("status", op.Status).
		Int("texts", op.Texts).
		Int64("bytes", op.Bytes).
		Int("warnings", op.Warnings).
		Bool("is_new", op.IsNew).
		Bool("is_stale", op.IsStale).
		Bool("is_failed", op.IsFailed).
		Msg("output operation")
}

// 📝 StartBuildOperation starts a new build operation
func (l *Logger) StartBuildOperation(ctx context.Context, op BuildOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[building %s]\n",
		color.New(color.FgCyan).Sprint(op.Output))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Config),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Source))

	l.zlog.Info().
		Str("config", op.Config).
		Str("source", op.Source).
		Str("output", op.Output).
		Msg("starting build")
}

// 📝 EndBuildOperation ends the current build operation
func (l *Logger) EndBuildOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("config", l.currentOp.Config).
		Int("outputs", len(l.operations)).
		Msg("build complete")

	l.currentOp = nil
	l.operations = nil
}

// 🌳 RenderTree renders items as a tree
func RenderTree(items []TreeItem) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	list := make(pterm.LeveledList, 0, len(items))
	for _, item := range items {
		list = append(list, pterm.LeveledListItem{Level: item.Level, Text: item.Text})
	}

	out, err := pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Srender()
	if err != nil {
		return "", errors.Errorf("rendering tree: %w", err)
	}
	return out, nil
}

// 📝 Tree prints items as a tree
func (l *Logger) Tree(items []TreeItem) error {
	out, err := RenderTree(items)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.console, out)
	l.zlog.Debug().Int("nodes", len(items)).Msg("rendered tree")
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nameText := color.New(color.Bold, color.FgCyan).Sprint("corpusrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
