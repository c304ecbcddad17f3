// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document loads the catechism text into memory and holds the
// current copy for request handlers.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
)

// Document is the full catechism text held in memory. It is never mutated
// after Load returns it; a reload replaces the whole value.
type Document struct {
	// Path is the file the text was read from.
	Path string

	// Text is the decoded file content.
	Text string

	// LoadedAt is when the file was read.
	LoadedAt time.Time
}

// FailureKind distinguishes why a load failed.
type FailureKind int

const (
	// NotFound means the file does not exist.
	NotFound FailureKind = iota + 1
	// IOError means the file exists but could not be read or decoded.
	IOError
)

func (k FailureKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case IOError:
		return "io error"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// LoadError reports a failed Load.
type LoadError struct {
	Kind FailureKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("loading %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("loading %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// errInvalidUTF8 is the detail of an IOError for files that are not UTF-8.
var errInvalidUTF8 = errors.New("content is not valid UTF-8")

// Load reads the file at path in a single read and returns its text. A
// leading byte-order mark is dropped. It does not retry and does not watch
// the file afterwards.
func Load(path string) (*Document, error) {
	doc, err := load(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("catechism text not loaded")
		return nil, err
	}
	log.Info().Str("path", path).Int("bytes", len(doc.Text)).Msg("loaded catechism text")
	return doc, nil
}

func load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Kind: NotFound, Path: path}
		}
		return nil, &LoadError{Kind: IOError, Path: path, Err: err}
	}

	if !utf8.Valid(data) {
		return nil, &LoadError{Kind: IOError, Path: path, Err: errInvalidUTF8}
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return nil, &LoadError{Kind: IOError, Path: path, Err: fmt.Errorf("decoding: %w", err)}
	}

	return &Document{
		Path:     path,
		Text:     string(decoded),
		LoadedAt: time.Now(),
	}, nil
}
