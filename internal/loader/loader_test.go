package loader

import (
	"strings"
	"testing"
)

const goSample = "package main\n\n// greeting is unused.\nfunc main() {\n\tprintln(\"hi\")\n}\n"

func TestLoadDropsComments(t *testing.T) {
	src, err := Load(goSample, "main.go", Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Language != "Go" {
		t.Fatalf("expected Go, got %q", src.Language)
	}
	for _, line := range src.Lines {
		if strings.Contains(line, "greeting") {
			t.Fatalf("comment survived: %q", line)
		}
	}
	if src.Lines[0] != "package main" {
		t.Fatalf("unexpected first line: %q", src.Lines[0])
	}
	if src.Lines[len(src.Lines)-1] != "}" {
		t.Fatalf("unexpected last line: %q", src.Lines[len(src.Lines)-1])
	}
}

func TestLoadKeepComments(t *testing.T) {
	src, err := Load(goSample, "main.go", Options{KeepComments: true})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	found := false
	for _, line := range src.Lines {
		if strings.Contains(line, "greeting") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected comment to be kept: %v", src.Lines)
	}
}

func TestLoadExpandsTabs(t *testing.T) {
	src, err := Load(goSample, "main.go", Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, line := range src.Lines {
		if strings.Contains(line, "\t") {
			t.Fatalf("tab survived: %q", line)
		}
		if strings.Contains(line, "println") && !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected 4-space indent: %q", line)
		}
	}
}

func TestLoadDropsEmptyLines(t *testing.T) {
	src, err := Load(goSample, "main.go", Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, line := range src.Lines {
		if strings.TrimSpace(line) == "" {
			t.Fatalf("blank line survived")
		}
	}
}

func TestLoadExcerpt(t *testing.T) {
	src, err := Load("a\nb\nc\nd\n", "x.txt", Options{StartLine: 2, EndLine: 3})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(src.Lines) != 2 || src.Lines[0] != "b" || src.Lines[1] != "c" {
		t.Fatalf("unexpected excerpt: %v", src.Lines)
	}
}

func TestLoadExcerptValidation(t *testing.T) {
	if _, err := Load("a\nb\n", "x.txt", Options{StartLine: 1}); err == nil {
		t.Fatalf("expected error for start without end")
	}
	if _, err := Load("a\nb\n", "x.txt", Options{StartLine: 2, EndLine: 1}); err == nil {
		t.Fatalf("expected error for reversed range")
	}
	if _, err := Load("a\nb\n", "x.txt", Options{StartLine: 1, EndLine: 99}); err == nil {
		t.Fatalf("expected error for range past the end")
	}
}

func TestLoadExplicitLexer(t *testing.T) {
	src, err := Load("print(1)\n", "nofile", Options{Lexer: "python"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if src.Language != "Python" {
		t.Fatalf("expected Python, got %q", src.Language)
	}
}

func TestLoadUnknownLexer(t *testing.T) {
	if _, err := Load("x\n", "x.txt", Options{Lexer: "no-such-lexer"}); err == nil {
		t.Fatalf("expected error for unknown lexer")
	}
}

func TestLoadNothingTypeable(t *testing.T) {
	if _, err := Load("// just a comment\n", "x.go", Options{}); err == nil {
		t.Fatalf("expected error when everything is stripped")
	}
}
