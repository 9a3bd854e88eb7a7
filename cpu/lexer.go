package cpu

import (
	"strings"
	"unicode"
)

// TokenKind is the kind of a lexed source line.
type TokenKind int

const (
	TOKEN_INSTRUCTION = TokenKind(0) // instruction
	TOKEN_LABEL       = TokenKind(1) // label
	TOKEN_SUBLABEL    = TokenKind(2) // sublabel
	TOKEN_DIRECTIVE   = TokenKind(3) // directive
)

// Token is a single lexed source line.
type Token struct {
	LineNo int
	Kind   TokenKind
	Name   string   // Mnemonic, directive, or label name (sublabels keep the leading '.').
	Words  []string // Operand words.
}

// StripComment removes a trailing '//' comment and surrounding whitespace.
func StripComment(line string) string {
	if n := strings.Index(line, "//"); n >= 0 {
		line = line[:n]
	}
	return strings.TrimSpace(line)
}

// validName reports if name is a label identifier, with dots allowed
// between parts of a qualified name.
func validName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if len(part) == 0 {
			return false
		}
		for n, r := range part {
			switch {
			case r == '_' || unicode.IsLetter(r):
			case n > 0 && unicode.IsDigit(r):
			default:
				return false
			}
		}
	}
	return true
}

// Lex splits a line of source into a token.
// Blank and comment-only lines return ok == false.
func Lex(lineno int, line string) (tok Token, ok bool, err error) {
	line = StripComment(line)
	if len(line) == 0 {
		return
	}

	tok.LineNo = lineno

	if strings.HasSuffix(line, ":") {
		name := line[:len(line)-1]
		tok.Kind = TOKEN_LABEL
		if strings.HasPrefix(name, ".") {
			tok.Kind = TOKEN_SUBLABEL
			if !validName(name[1:]) || strings.Contains(name[1:], ".") {
				err = ErrLabelSyntax
				return
			}
		} else if !validName(name) || strings.Contains(name, ".") {
			err = ErrLabelSyntax
			return
		}
		tok.Name = name
		ok = true
		return
	}

	words := strings.Fields(line)
	tok.Name = words[0]
	tok.Words = words[1:]
	if strings.HasPrefix(tok.Name, ".") {
		tok.Kind = TOKEN_DIRECTIVE
	}

	ok = true
	return
}
