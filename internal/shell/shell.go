// Package shell renders command lines for a POSIX shell.
//
// A Line is a sequence of Tokens. A Token is made of literal text, which is
// always quoted so the shell never interprets it, and environment variable
// references, which are rendered as "$NAME" so they expand without word
// splitting. Secret values and host paths therefore only ever reach the
// command text as variable names.
package shell

import (
	"fmt"
	"regexp"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

var envName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidEnvName reports whether name can be referenced as $name.
func ValidEnvName(name string) bool {
	return envName.MatchString(name)
}

type segment struct {
	text string
	env  bool
}

// Token is one shell word.
type Token struct {
	segments []segment
}

// Literal returns a token holding value verbatim.
func Literal(value string) Token {
	return Token{segments: []segment{{text: value}}}
}

// EnvRef returns a token expanding the environment variable name.
func EnvRef(name string) Token {
	return Token{segments: []segment{{text: name, env: true}}}
}

// Concat joins tokens into a single shell word, e.g. "$HOST":"$MOUNT".
func Concat(tokens ...Token) Token {
	var t Token
	for _, tok := range tokens {
		t.segments = append(t.segments, tok.segments...)
	}
	return t
}

// String renders the token as shell text.
func (t Token) String() string {
	if len(t.segments) == 0 {
		return "''"
	}
	var b strings.Builder
	for _, s := range t.segments {
		if s.env {
			b.WriteString(`"$`)
			b.WriteString(s.text)
			b.WriteString(`"`)
			continue
		}
		b.WriteString(shellescape.Quote(s.text))
	}
	return b.String()
}

// EnvNames returns the variable names the token references.
func (t Token) EnvNames() []string {
	var names []string
	for _, s := range t.segments {
		if s.env {
			names = append(names, s.text)
		}
	}
	return names
}

// Line is an ordered list of shell words.
type Line []Token

// Words builds a line of literal tokens.
func Words(values ...string) Line {
	line := make(Line, 0, len(values))
	for _, v := range values {
		line = append(line, Literal(v))
	}
	return line
}

// Append adds literal words to the line.
func (l Line) Append(values ...string) Line {
	return append(l, Words(values...)...)
}

// Strings renders every token.
func (l Line) Strings() []string {
	out := make([]string, 0, len(l))
	for _, t := range l {
		out = append(out, t.String())
	}
	return out
}

// String renders the line as a single shell command.
func (l Line) String() string {
	return strings.Join(l.Strings(), " ")
}

// EnvNames returns every variable name referenced by the line, in order.
func (l Line) EnvNames() []string {
	var names []string
	for _, t := range l {
		names = append(names, t.EnvNames()...)
	}
	return names
}

// Validate checks that every referenced variable has a usable name.
func (l Line) Validate() error {
	for _, name := range l.EnvNames() {
		if !ValidEnvName(name) {
			return fmt.Errorf("invalid environment variable name %q", name)
		}
	}
	return nil
}

// Wrap returns the line "sh -c '<inner>'" which runs inner under shellPath.
func Wrap(shellPath string, inner Line) Line {
	return Words(shellPath, "-c", inner.String())
}
