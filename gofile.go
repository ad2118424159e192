// Package filemagic provides a pure Go implementation of the Linux file command.
package filemagic

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/shirou/filemagic/internal/ast"
	"github.com/shirou/filemagic/internal/buffer"
	"github.com/shirou/filemagic/internal/eval"
	"github.com/shirou/filemagic/internal/parser"
)

// File represents a file type detector backed by a loaded magic database.
type File struct {
	database    *ast.Database
	options     Options
	logger      *slog.Logger
	cfg         eval.Config
	diagnostics []parser.Diagnostic
}

// Options configures the file detector behavior.
type Options struct {
	MagicFiles     []string // Custom magic files to load
	FollowSymlinks bool     // Follow symbolic links
	Brief          bool     // Brief output mode
	MimeType       bool     // Output MIME type
	MimeEncoding   bool     // Not consulted by identification; no MIME encoding is computed
	KeepGoing      bool     // Continue after first match
	Debug          bool     // Enable debug output
}

// New creates a new File detector with the default magic file search path.
func New() (*File, error) {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a new File detector with custom options.
func NewWithOptions(opts Options) (*File, error) {
	var db *ast.Database
	var diags []parser.Diagnostic

	if len(opts.MagicFiles) > 0 {
		db = ast.NewDatabase()
		for _, path := range opts.MagicFiles {
			loaded, ds, err := parser.LoadRulesFromPath(path)
			if err != nil {
				if opts.Debug {
					fmt.Fprintf(os.Stderr, "warning: failed to parse %s: %v\n", path, err)
				}
				continue
			}
			db.Merge(loaded)
			diags = append(diags, ds...)
		}
	} else {
		var err error
		db, diags, err = parser.LoadDefaultMagicFiles()
		if err != nil {
			return nil, errors.Wrap(err, "gofile: load magic files")
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	cfg := eval.DefaultConfig()
	cfg.KeepGoing = opts.KeepGoing

	return &File{
		database:    db,
		options:     opts,
		logger:      logger,
		cfg:         cfg,
		diagnostics: diags,
	}, nil
}

// IdentifyFile identifies the type of a file by path.
func (f *File) IdentifyFile(path string) (string, error) {
	stat := os.Lstat
	if f.options.FollowSymlinks {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		return "", errors.Wrapf(err, "gofile: stat %s", path)
	}

	if info.IsDir() {
		return "directory", nil
	}

	if info.Mode()&os.ModeSymlink != 0 && !f.options.FollowSymlinks {
		target, _ := os.Readlink(path)
		if target != "" {
			return fmt.Sprintf("symbolic link to %s", target), nil
		}
		return "symbolic link", nil
	}

	if info.Mode()&os.ModeDevice != 0 {
		if info.Mode()&os.ModeCharDevice != 0 {
			return "character special", nil
		}
		return "block special", nil
	}

	if info.Mode()&os.ModeNamedPipe != 0 {
		return "fifo (named pipe)", nil
	}

	if info.Mode()&os.ModeSocket != 0 {
		return "socket", nil
	}

	buf, err := buffer.Open(path, buffer.DefaultMaxReadSize)
	if err != nil {
		var empty *buffer.Empty
		if errors.As(err, &empty) {
			return "empty", nil
		}
		return "", err
	}
	defer buf.Close()

	return f.identifyBuffer(buf)
}

// Identify identifies the type of data read from r.
func (f *File) Identify(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, buffer.DefaultMaxReadSize))
	if err != nil {
		return "", errors.Wrap(err, "gofile: read")
	}
	if len(data) == 0 {
		return "empty", nil
	}
	return f.identifyBuffer(buffer.FromSlice(data))
}

func (f *File) identifyBuffer(buf *buffer.Buffer) (string, error) {
	if buf.IsEmpty() {
		return "empty", nil
	}

	result := eval.Evaluate(f.database, buf, f.cfg, f.logger)
	for _, d := range result.Diagnostics {
		f.logger.Debug("evaluation diagnostic", "message", d.Message)
	}

	if len(result.Matches) == 0 {
		return "data", nil
	}

	if f.options.MimeType {
		if m := result.Matches[0].MIMEType; m != "" {
			return m, nil
		}
	}

	return result.Description(), nil
}

// GetDatabase returns the loaded magic rule database.
func (f *File) GetDatabase() *ast.Database {
	return f.database
}

// Diagnostics returns the parse-time diagnostics collected while loading
// the magic database (malformed rule lines that were skipped).
func (f *File) Diagnostics() []parser.Diagnostic {
	return f.diagnostics
}

// ListMagic returns one summary line per loaded top-level rule.
func (f *File) ListMagic() []string {
	lines := make([]string, 0, len(f.database.Rules))
	for _, r := range f.database.Rules {
		lines = append(lines, fmt.Sprintf("%s:%d\t%s", r.File, r.Line, r.Message))
	}
	return lines
}
