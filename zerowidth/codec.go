// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package zerowidth implements C2: a lossless steganographic codec that
// embeds an arbitrary byte string into a host string using zero-width
// Unicode code points, and recovers it bit-for-bit.
//
// Interleaving strategy (documented per the spec's open question, since
// encode is free to choose any strategy decode must tolerate): Embed
// distributes the zero-width token stream in fixed chunks of 4 code
// points, inserted immediately after each visible code point of the
// cover text in round-robin order. Once the cover is exhausted, any
// remaining zero-width code points are appended at the end. This keeps
// the hidden stream's relative order intact and never touches a visible
// code point, which is all the spec requires; it is not a canonical
// format and other implementations may choose differently.
package zerowidth

import (
	"fmt"
	"strings"

	wserrors "github.com/sage-x-project/waterscape/errors"
)

// Symbol is one token of the five-symbol zero-width alphabet.
type Symbol rune

// The zero-width alphabet, per spec §4.2.
const (
	Bit0  Symbol = '\u200B' // ZERO WIDTH SPACE
	Bit1  Symbol = '\u200C' // ZERO WIDTH NON-JOINER
	Sep   Symbol = '\u200D' // ZERO WIDTH JOINER
	Start Symbol = '\u2060' // WORD JOINER
	End   Symbol = '\uFEFF' // ZERO WIDTH NO-BREAK SPACE / BOM
)

// chunkSize is the number of zero-width code points inserted after each
// visible code point of the cover text during Embed.
const chunkSize = 4

func isAlphabet(r rune) bool {
	switch Symbol(r) {
	case Bit0, Bit1, Sep, Start, End:
		return true
	default:
		return false
	}
}

// EncodeBytes renders data as the zero-width token sequence: one Start,
// then for each byte its eight bits most-significant-bit first as
// Bit0/Bit1 followed by one Sep, then one End.
func EncodeBytes(data []byte) []Symbol {
	stream := make([]Symbol, 0, 2+len(data)*9)
	stream = append(stream, Start)
	for _, b := range data {
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<uint(bit)) != 0 {
				stream = append(stream, Bit1)
			} else {
				stream = append(stream, Bit0)
			}
		}
		stream = append(stream, Sep)
	}
	stream = append(stream, End)
	return stream
}

// Embed interleaves the encoding of data into cover, preserving cover's
// visible text verbatim. It fails with ErrCoverTooShort if cover has no
// visible code points to host the stream.
func Embed(cover string, data []byte) (string, error) {
	visible := []rune(cover)
	if VisibleText(cover) == "" {
		return "", wserrors.ErrCoverTooShort
	}

	stream := EncodeBytes(data)

	var out strings.Builder
	pos := 0
	for _, r := range visible {
		out.WriteRune(r)
		end := pos + chunkSize
		if end > len(stream) {
			end = len(stream)
		}
		for _, s := range stream[pos:end] {
			out.WriteRune(rune(s))
		}
		pos = end
	}
	for _, s := range stream[pos:] {
		out.WriteRune(rune(s))
	}
	return out.String(), nil
}

// HasHidden reports whether text contains at least one Start code point
// followed, later in code-point order, by at least one End code point.
func HasHidden(text string) bool {
	sawStart := false
	for _, r := range text {
		switch Symbol(r) {
		case Start:
			sawStart = true
		case End:
			if sawStart {
				return true
			}
		}
	}
	return false
}

// VisibleText returns text with every code point of the five-symbol
// alphabet removed.
func VisibleText(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	for _, r := range text {
		if !isAlphabet(r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// Extract scans text in code-point order, keeping only zero-width
// alphabet code points, locates the first Start and the matching End
// (the last End after that Start), and decodes the bit runs between them
// back into bytes.
func Extract(text string) ([]byte, error) {
	var zw []Symbol
	for _, r := range text {
		if isAlphabet(r) {
			zw = append(zw, Symbol(r))
		}
	}

	startIdx := -1
	endIdx := -1
	for i, s := range zw {
		if s == Start && startIdx == -1 {
			startIdx = i
		}
		if s == End && startIdx != -1 {
			endIdx = i
		}
	}
	if startIdx == -1 || endIdx == -1 {
		return nil, wserrors.ErrNoHiddenMessage
	}

	body := zw[startIdx+1 : endIdx]

	out := make([]byte, 0, len(body)/9)
	run := make([]Symbol, 0, 8)
	flushRun := func() error {
		if len(run) == 0 {
			return nil
		}
		if len(run) != 8 {
			return fmt.Errorf("zerowidth: bit run length %d: %w", len(run), wserrors.ErrMalformedStream)
		}
		var b byte
		for _, s := range run {
			b <<= 1
			switch s {
			case Bit1:
				b |= 1
			case Bit0:
				// no-op
			default:
				return fmt.Errorf("zerowidth: non-bit token in run: %w", wserrors.ErrMalformedStream)
			}
		}
		out = append(out, b)
		run = run[:0]
		return nil
	}

	for _, s := range body {
		switch s {
		case Bit0, Bit1:
			run = append(run, s)
		case Sep:
			if err := flushRun(); err != nil {
				return nil, err
			}
		case Start, End:
			return nil, fmt.Errorf("zerowidth: unexpected marker inside stream: %w", wserrors.ErrMalformedStream)
		}
	}
	if len(run) != 0 {
		return nil, fmt.Errorf("zerowidth: trailing incomplete run: %w", wserrors.ErrMalformedStream)
	}

	return out, nil
}
