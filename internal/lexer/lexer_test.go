package lexer

import (
	"strings"
	"testing"
)

func TestLexSplitsOnWhitespace(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "ls -l", []string{"ls", "-l"}},
		{"tabs", "ls\t-l\t/tmp", []string{"ls", "-l", "/tmp"}},
		{"collapsed runs", "ls    -l", []string{"ls", "-l"}},
		{"leading and trailing", "  ls -l  ", []string{"ls", "-l"}},
		{"empty", "", nil},
		{"only whitespace", "   \t  ", nil},
		{"operators as lexemes", "ls>out.txt 2>err.txt|wc", []string{"ls>out.txt", "2>err.txt|wc"}},
		{"separated operators", "ls > out.txt 2> err.txt | wc", []string{"ls", ">", "out.txt", "2>", "err.txt", "|", "wc"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Lex(tc.in)
			if err != nil {
				t.Fatalf("Lex(%q) returned error: %v", tc.in, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Lex(%q) = %v, want %v", tc.in, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Lex(%q) = %v, want %v", tc.in, got, tc.want)
				}
			}
		})
	}
}

func TestLexLineTooLong(t *testing.T) {
	line := strings.Repeat("a", MaxLineBytes+1)
	if _, err := Lex(line); err != ErrLineTooLong {
		t.Fatalf("expected ErrLineTooLong, got %v", err)
	}
}

func TestLexLexemeTooLong(t *testing.T) {
	line := strings.Repeat("a", MaxLexemeBytes+1)
	if _, err := Lex(line); err != ErrLexemeTooLong {
		t.Fatalf("expected ErrLexemeTooLong, got %v", err)
	}
}

func TestLexTooManyLexemes(t *testing.T) {
	words := make([]string, MaxLexemes+1)
	for i := range words {
		words[i] = "a"
	}
	line := strings.Join(words, " ")
	if _, err := Lex(line); err != ErrTooManyLexemes {
		t.Fatalf("expected ErrTooManyLexemes, got %v", err)
	}
}

func TestLexExactlyAtCaps(t *testing.T) {
	line := strings.Repeat("a ", MaxLineBytes/2)
	if _, err := Lex(line); err != nil {
		t.Fatalf("line of exactly MaxLineBytes should be accepted, got %v", err)
	}

	lexeme := strings.Repeat("a", MaxLexemeBytes)
	if _, err := Lex(lexeme); err != nil {
		t.Fatalf("lexeme of exactly MaxLexemeBytes should be accepted, got %v", err)
	}
}
