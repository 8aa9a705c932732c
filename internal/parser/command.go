package parser

// MaxArgs is the number of user-supplied argv slots a Command may hold
// (63 user args plus one terminator slot, per spec.md §5's resource caps).
const MaxArgs = 63

// Command is a single program invocation: an argument list plus optional
// I/O redirections and a background flag.
//
// Invariants: Argv has length in [1, MaxArgs]. Each of InFile, OutFile,
// ErrFile is either "" (absent) or a non-empty filename lexeme.
// Background is always false for either side of a pipeline.
type Command struct {
	Argv       []string
	InFile     string
	OutFile    string
	ErrFile    string
	Background bool
}

// HasRedirection reports whether any redirection slot is set.
func (c *Command) HasRedirection() bool {
	return c.InFile != "" || c.OutFile != "" || c.ErrFile != ""
}

// Line is a whole parsed user input.
//
// Invariants: if !Pipeline, only Left is populated; if Pipeline, Left and
// Right are both populated, neither is backgrounded, and the grammar
// already forbade either side from containing a second "|". Original
// preserves the raw input verbatim — including a trailing "&" — because
// it is the label stored in job listings.
type Line struct {
	Pipeline bool
	Left     *Command
	Right    *Command
	Original string
}

// IsBuiltinCandidate reports whether this line is eligible for built-in
// dispatch: a non-pipeline single command.
func (l *Line) IsBuiltinCandidate() bool {
	return !l.Pipeline && l.Left != nil
}
