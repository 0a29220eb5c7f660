package loader

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/go-enry/go-enry/v2"
)

// tabWidth is the number of spaces a literal tab expands to. Typing skips
// whitespace runs, so the exact width only affects layout.
const tabWidth = 4

// Options control content cleaning.
type Options struct {
	// Lexer forces a chroma lexer by name instead of filename detection.
	Lexer string
	// StartLine and EndLine select a 1-based inclusive excerpt; both must be
	// set together.
	StartLine int
	EndLine   int
	// KeepComments leaves comment and doc-string tokens in the text.
	KeepComments bool
}

// Source is cleaned practice content: ordered, non-empty, right-trimmed
// logical lines plus the lexer that tokenized them.
type Source struct {
	Lines    []string
	Lexer    chroma.Lexer
	Language string
}

// Load tokenizes raw content and cleans it into logical lines: comments and
// doc-strings collapse to line breaks (unless kept), lines are
// right-trimmed, and empty lines are dropped.
func Load(content, filename string, opts Options) (Source, error) {
	content, err := applyExcerpt(content, opts.StartLine, opts.EndLine)
	if err != nil {
		return Source{}, err
	}

	lexer, err := selectLexer(content, filename, opts.Lexer)
	if err != nil {
		return Source{}, err
	}

	tokens, err := chroma.Tokenise(chroma.Coalesce(lexer), nil, content)
	if err != nil {
		return Source{}, fmt.Errorf("failed to tokenize %q: %w", filename, err)
	}

	var b strings.Builder
	for _, tok := range tokens {
		if !opts.KeepComments && dropToken(tok.Type) {
			b.WriteString("\n")
			continue
		}
		b.WriteString(tok.Value)
	}

	lines := cleanLines(b.String())
	if len(lines) == 0 {
		return Source{}, fmt.Errorf("no typeable lines in %q", filename)
	}
	return Source{Lines: lines, Lexer: lexer, Language: lexer.Config().Name}, nil
}

// dropToken reports whether a token class is removed from practice text.
func dropToken(t chroma.TokenType) bool {
	return t.InCategory(chroma.Comment) || t == chroma.LiteralStringDoc
}

// selectLexer picks a chroma lexer: an explicit name wins, then filename
// matching, then enry's classifier over the content, then content analysis.
func selectLexer(content, filename, name string) (chroma.Lexer, error) {
	if name != "" {
		lexer := lexers.Get(name)
		if lexer == nil {
			return nil, fmt.Errorf("unknown lexer %q", name)
		}
		return lexer, nil
	}
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer, nil
	}
	if lang := enry.GetLanguage(filename, []byte(content)); lang != "" {
		if lexer := lexers.Get(lang); lexer != nil {
			return lexer, nil
		}
	}
	if lexer := lexers.Analyse(content); lexer != nil {
		return lexer, nil
	}
	return lexers.Fallback, nil
}

func applyExcerpt(content string, start, end int) (string, error) {
	if start == 0 && end == 0 {
		return content, nil
	}
	if start == 0 || end == 0 {
		return "", fmt.Errorf("start-line and end-line must be used together")
	}
	all := strings.Split(content, "\n")
	if start < 1 || end < start || end > len(all) {
		return "", fmt.Errorf("line range %d-%d falls outside 1-%d or is in wrong order", start, end, len(all))
	}
	return strings.Join(all[start-1:end], "\n"), nil
}

func cleanLines(text string) []string {
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
