package mdsplit

import "strings"

// rawWrapWindowRatio bounds how far back from the raw limit the wrapping
// pass searches for a whitespace cut before giving up and cutting hard.
const rawWrapWindowRatio = 0.8

// enforceRawSize hard-wraps any chunk whose serialized length exceeds the
// ceiling. This pass is unconditional and independent of the semantic size
// model: MaxRawSize is the one limit that is never soft.
func enforceRawSize(chunks []Chunk, maxRaw int) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for _, c := range chunks {
		for len(c.Text) > maxRaw {
			cut := rawWrapPoint(c.Text, maxRaw)
			out = append(out, Chunk{
				Text:        strings.TrimSpace(c.Text[:cut]),
				Breadcrumbs: c.Breadcrumbs,
			})
			c.Text = strings.TrimSpace(c.Text[cut:])
		}
		if c.Text != "" {
			out = append(out, c)
		}
	}
	return out
}

// rawWrapPoint finds where to cut a string so the head is at most max
// bytes: the last newline in the trailing window, else the last space,
// else a hard (rune-aligned) cut at max.
func rawWrapPoint(s string, max int) int {
	window := int(rawWrapWindowRatio * float64(max))
	if i := strings.LastIndexByte(s[window:max], '\n'); i >= 0 {
		return window + i + 1
	}
	if i := strings.LastIndexByte(s[window:max], ' '); i >= 0 {
		return window + i + 1
	}
	return runeAlign(s, max, 0)
}
