// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

// ErrDocumentAbsent is returned when no document has been loaded.
var ErrDocumentAbsent = errors.New("document not loaded")

// Find locates paragraph id in doc and returns its cleaned text. A nil doc
// yields ErrDocumentAbsent. A paragraph that is missing or cleans to
// nothing yields ErrNotFound, and so does any panic raised while scanning
// malformed text.
func Find(doc *document.Document, id string) (q types.Quote, err error) {
	if doc == nil {
		return types.Quote{}, ErrDocumentAbsent
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("id", id).Str("panic", fmt.Sprint(r)).Msg("extraction failed")
			q, err = types.Quote{}, ErrNotFound
		}
	}()

	raw, err := Locate(doc.Text, id)
	if err != nil {
		return types.Quote{}, err
	}

	text := Clean(raw)
	if text == "" {
		return types.Quote{}, ErrNotFound
	}
	return types.Quote{ID: id, Text: text}, nil
}
