// Package lexer splits a raw shell input line into whitespace-separated
// lexemes.
//
// The original C implementation carves lexemes in place out of a mutable
// line buffer, terminating each with a NUL byte. That approach has no
// natural Go equivalent worth keeping: a fresh slice of owned strings is
// just as cheap for lines this short (at most 2000 bytes) and avoids
// aliasing a buffer the caller might reuse.
package lexer

import "fmt"

// MaxLineBytes is the largest input line the lexer accepts.
const MaxLineBytes = 2000

// MaxLexemeBytes is the largest single lexeme the lexer accepts.
const MaxLexemeBytes = 30

// MaxLexemes is the largest number of lexemes a single line may yield.
const MaxLexemes = 2000

// ErrLineTooLong is returned when the input line exceeds MaxLineBytes.
var ErrLineTooLong = fmt.Errorf("invalid line: exceeds %d bytes", MaxLineBytes)

// ErrLexemeTooLong is returned when a lexeme exceeds MaxLexemeBytes.
var ErrLexemeTooLong = fmt.Errorf("invalid line: lexeme exceeds %d bytes", MaxLexemeBytes)

// ErrTooManyLexemes is returned when a line yields more than MaxLexemes.
// Lex checks MaxLineBytes first, and a line within that cap holds at most
// 1000 lexemes, so a line with more than MaxLexemes lexemes gets
// ErrLineTooLong instead.
var ErrTooManyLexemes = fmt.Errorf("invalid line: more than %d lexemes", MaxLexemes)

// isSeparator reports whether b is a lexeme separator. Only spaces and
// tabs separate; newlines are never seen here because the REPL strips the
// trailing newline before calling Lex.
func isSeparator(b byte) bool {
	return b == ' ' || b == '\t'
}

// Lex splits line into an ordered sequence of lexemes. Separator runs
// collapse; leading and trailing separators are discarded. No operator
// recognition happens here — Kind is assigned later, in the parser, by
// exact string match.
func Lex(line string) ([]string, error) {
	if len(line) > MaxLineBytes {
		return nil, ErrLineTooLong
	}

	var lexemes []string
	i := 0
	n := len(line)

	for i < n {
		for i < n && isSeparator(line[i]) {
			i++
		}
		if i >= n {
			break
		}

		start := i
		for i < n && !isSeparator(line[i]) {
			i++
		}

		lexeme := line[start:i]
		if len(lexeme) > MaxLexemeBytes {
			return nil, ErrLexemeTooLong
		}
		if len(lexemes) >= MaxLexemes {
			return nil, ErrTooManyLexemes
		}
		lexemes = append(lexemes, lexeme)
	}

	return lexemes, nil
}
