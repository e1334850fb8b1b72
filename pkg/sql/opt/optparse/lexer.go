// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the Business Source License
// included in the file licenses/BSL.txt.
//
// As of the Change Date specified in that file, in accordance with
// the Business Source License, use of this software will be governed
// by the Apache License, Version 2.0, included in the file
// licenses/APL.txt.

package optparse

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokDecimal
	tokString
	tokColumn
	tokCorrelation
	tokPlaceholder
	tokPunct
)

type token struct {
	kind tokenKind
	// text is the identifier, the literal text (without quotes for strings),
	// the digits after $, $cor or ?, or the punctuation.
	text string
	pos  int
}

// keyword returns the upper-cased text of an identifier token, or "".
func (t token) keyword() string {
	if t.kind != tokIdent {
		return ""
	}
	return strings.ToUpper(t.text)
}

var twoCharPuncts = []string{"<=", ">=", "<>", "!=", "::"}

// tokenize splits the input into tokens. The returned slice always ends with
// a tokEOF token.
func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++

		case c == '\'':
			start := i
			var sb strings.Builder
			i++
			for {
				if i >= len(input) {
					return nil, errors.Newf("unterminated string literal at position %d", start)
				}
				if input[i] == '\'' {
					if i+1 < len(input) && input[i+1] == '\'' {
						sb.WriteByte('\'')
						i += 2
						continue
					}
					i++
					break
				}
				sb.WriteByte(input[i])
				i++
			}
			toks = append(toks, token{kind: tokString, text: sb.String(), pos: start})

		case c == '$' || c == '?':
			start := i
			i++
			kind := tokColumn
			if c == '?' {
				kind = tokPlaceholder
			} else if strings.HasPrefix(input[i:], "cor") {
				kind = tokCorrelation
				i += 3
			}
			j := i
			for j < len(input) && isDigit(input[j]) {
				j++
			}
			if j == i {
				return nil, errors.Newf("expected digits after %q at position %d", input[start:i], start)
			}
			toks = append(toks, token{kind: kind, text: input[i:j], pos: start})
			i = j

		case isDigit(input[i]):
			start := i
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			kind := tokInt
			if i+1 < len(input) && input[i] == '.' && isDigit(input[i+1]) {
				kind = tokDecimal
				i++
				for i < len(input) && isDigit(input[i]) {
					i++
				}
			}
			toks = append(toks, token{kind: kind, text: input[start:i], pos: start})

		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(input) && (input[i] == '_' || isDigit(input[i]) || unicode.IsLetter(rune(input[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: input[start:i], pos: start})

		default:
			start := i
			matched := false
			for _, p := range twoCharPuncts {
				if strings.HasPrefix(input[i:], p) {
					toks = append(toks, token{kind: tokPunct, text: p, pos: start})
					i += len(p)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if !strings.ContainsRune("(),.=<>+-*/:[]", c) {
				return nil, errors.Newf("unexpected character %q at position %d", c, start)
			}
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: start})
			i++
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)}), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
