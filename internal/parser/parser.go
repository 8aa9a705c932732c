// Package parser turns a sequence of lexemes into an immutable Line
// value: a single command or a two-stage pipeline, each with optional
// I/O redirections and an optional line-level background marker.
package parser

import (
	"github.com/nathara/nsh/internal/lexer"
	"github.com/nathara/nsh/internal/token"
)

// Parse lexes and parses raw, a single line of user input (already
// stripped of its trailing newline), producing a Line or a *ParseError.
func Parse(raw string) (*Line, error) {
	lexemes, err := lexer.Lex(raw)
	if err != nil {
		return nil, newParseError(err.Error(), raw)
	}
	if len(lexemes) == 0 {
		return nil, newParseError("empty line", raw)
	}

	kinds := make([]token.Kind, len(lexemes))
	for i, lx := range lexemes {
		kinds[i] = token.Classify(lx)
	}

	if kinds[0] != token.Word {
		return nil, newParseError("line must start with a word", raw)
	}

	pipeIdx := -1
	ampIdx := -1
	for i, k := range kinds {
		switch k {
		case token.Pipe:
			if pipeIdx != -1 {
				return nil, newParseError("more than one pipe", raw)
			}
			pipeIdx = i
		case token.Amp:
			if ampIdx != -1 {
				return nil, newParseError("duplicate '&'", raw)
			}
			if i != len(kinds)-1 {
				return nil, newParseError("'&' must be the last token", raw)
			}
			ampIdx = i
		}
	}
	if ampIdx != -1 && pipeIdx != -1 {
		return nil, newParseError("'|' and '&' are mutually exclusive", raw)
	}

	line := &Line{Original: raw}

	switch {
	case pipeIdx != -1:
		left, err := fillCommand(lexemes[:pipeIdx], kinds[:pipeIdx], false)
		if err != nil {
			return nil, err
		}
		right, err := fillCommand(lexemes[pipeIdx+1:], kinds[pipeIdx+1:], false)
		if err != nil {
			return nil, err
		}
		line.Pipeline = true
		line.Left = left
		line.Right = right

	case ampIdx != -1:
		left, err := fillCommand(lexemes[:ampIdx], kinds[:ampIdx], true)
		if err != nil {
			return nil, err
		}
		line.Left = left

	default:
		left, err := fillCommand(lexemes, kinds, false)
		if err != nil {
			return nil, err
		}
		line.Left = left
	}

	return line, nil
}

// fillCommand walks a half-open lexeme range left to right, accumulating
// argv until the cap or the first redirection operator, after which
// words are rejected — redirections must trail arguments.
func fillCommand(lexemes []string, kinds []token.Kind, background bool) (*Command, error) {
	cmd := &Command{Background: background}
	redirectionSeen := false

	for i := 0; i < len(lexemes); i++ {
		switch kinds[i] {
		case token.Word:
			if redirectionSeen {
				return nil, newParseError("word follows redirection", "")
			}
			if len(cmd.Argv) >= MaxArgs {
				return nil, newParseError("too many arguments", "")
			}
			cmd.Argv = append(cmd.Argv, lexemes[i])

		case token.Less, token.Great, token.ErrGreat:
			redirectionSeen = true
			op := kinds[i]
			i++
			if i >= len(lexemes) || kinds[i] != token.Word {
				return nil, newParseError("redirection missing filename", "")
			}
			filename := lexemes[i]

			switch op {
			case token.Less:
				if cmd.InFile != "" {
					return nil, newParseError("duplicate input redirection", "")
				}
				cmd.InFile = filename
			case token.Great:
				if cmd.OutFile != "" {
					return nil, newParseError("duplicate output redirection", "")
				}
				cmd.OutFile = filename
			case token.ErrGreat:
				if cmd.ErrFile != "" {
					return nil, newParseError("duplicate error redirection", "")
				}
				cmd.ErrFile = filename
			}

		case token.Pipe, token.Amp:
			// Unreachable: the caller never includes a pipe/amp lexeme in
			// the range handed to fillCommand.
			return nil, newParseError("unexpected operator", "")
		}
	}

	if len(cmd.Argv) == 0 {
		return nil, newParseError("empty command", "")
	}

	return cmd, nil
}
