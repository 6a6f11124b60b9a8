package goldesk

import "errors"

var (
	// ErrNoQuote means no quote was ever ingested for any alias of a
	// product, there is no suggestion available.
	ErrNoQuote = errors.New("no quote available")
	// ErrUnknownProduct is returned for a product code missing from the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrUnknownBank is returned for a bank missing from the configuration.
	ErrUnknownBank = errors.New("unknown bank")
	// ErrInvalid is returned for malformed input.
	ErrInvalid = errors.New("invalid input")
)
