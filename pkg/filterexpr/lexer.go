// Package filterexpr implements the restricted boolean expression language
// used to filter dataset rows. The grammar supports comparisons between
// column identifiers and literals, the logical combinators AND/OR/NOT (also
// written &, | and !), and parentheses. There are deliberately no function
// calls, attribute accesses or other evaluation hooks: expressions may come
// from untrusted input and must never execute code.
package filterexpr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/strataprep/strata/pkg/errors"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenString
	tokenBool
	tokenCompare // > >= < <= == !=
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits an expression into tokens
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		c := rune(input[i])
		switch {
		case unicode.IsSpace(c):
			i++

		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++

		case c == '&':
			if i+1 < len(input) && input[i+1] == '&' {
				i++
			}
			tokens = append(tokens, token{tokenAnd, "&", i})
			i++
		case c == '|':
			if i+1 < len(input) && input[i+1] == '|' {
				i++
			}
			tokens = append(tokens, token{tokenOr, "|", i})
			i++

		case c == '>' || c == '<':
			op := string(c)
			if i+1 < len(input) && input[i+1] == '=' {
				op += "="
				i++
			}
			tokens = append(tokens, token{tokenCompare, op, i})
			i++
		case c == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unexpected '=' at position %d, use '=='", i)
			}
			tokens = append(tokens, token{tokenCompare, "==", i})
			i += 2
		case c == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{tokenCompare, "!=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokenNot, "!", i})
				i++
			}

		case c == '\'' || c == '"':
			quote := byte(c)
			j := i + 1
			for j < len(input) && input[j] != quote {
				j++
			}
			if j >= len(input) {
				return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unterminated string literal at position %d", i)
			}
			tokens = append(tokens, token{tokenString, input[i+1 : j], i})
			i = j + 1

		case unicode.IsDigit(c) || c == '-' || c == '.':
			j := i
			if input[j] == '-' {
				j++
			}
			for j < len(input) && (unicode.IsDigit(rune(input[j])) || input[j] == '.' || input[j] == 'e' ||
				input[j] == 'E' || (j > i && (input[j] == '+' || input[j] == '-') && (input[j-1] == 'e' || input[j-1] == 'E'))) {
				j++
			}
			text := input[i:j]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "invalid number %q at position %d", text, i)
			}
			tokens = append(tokens, token{tokenNumber, text, i})
			i = j

		case unicode.IsLetter(c) || c == '_':
			j := i
			for j < len(input) && (unicode.IsLetter(rune(input[j])) || unicode.IsDigit(rune(input[j])) || input[j] == '_') {
				j++
			}
			word := input[i:j]
			switch strings.ToLower(word) {
			case "and":
				tokens = append(tokens, token{tokenAnd, word, i})
			case "or":
				tokens = append(tokens, token{tokenOr, word, i})
			case "not":
				tokens = append(tokens, token{tokenNot, word, i})
			case "true", "false":
				tokens = append(tokens, token{tokenBool, strings.ToLower(word), i})
			default:
				tokens = append(tokens, token{tokenIdent, word, i})
			}
			i = j

		default:
			return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unexpected character %q at position %d", string(c), i)
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(input)})
	return tokens, nil
}
