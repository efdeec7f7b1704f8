// Package sizer provides size functions for mdsplit.Options.Size: callers
// whose chunk budgets are character counts use Runes, callers budgeting
// against an embedding model's context use Tokens.
package sizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// Runes counts Unicode code points. This is the engine's default.
func Runes() func(string) int {
	return utf8.RuneCountInString
}

// Tokens returns a size function counting BPE tokens for the named tiktoken
// encoding, e.g. "cl100k_base".
func Tokens(encoding string) (func(string) int, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	return func(s string) int {
		return len(enc.Encode(s, nil, nil))
	}, nil
}
