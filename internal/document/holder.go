// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"sync/atomic"
)

// Holder is the process-wide reference to the current Document. Readers
// get either a complete Document or nil; writers swap the whole pointer.
// The zero value holds no document.
type Holder struct {
	current atomic.Pointer[Document]
}

// NewHolder returns a Holder containing doc, which may be nil.
func NewHolder(doc *Document) *Holder {
	h := &Holder{}
	h.current.Store(doc)
	return h
}

// Current returns the loaded Document, or nil when nothing has been loaded.
func (h *Holder) Current() *Document {
	return h.current.Load()
}

// Loaded reports whether a Document is available.
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}

// Store replaces the held Document.
func (h *Holder) Store(doc *Document) {
	h.current.Store(doc)
}

// Reload reads path and swaps the result in. On failure the previously
// held Document, if any, stays in place and the error is returned.
func (h *Holder) Reload(path string) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	h.current.Store(doc)
	return nil
}
