// Package evaluator implements the whole-buffer evaluate and load
// operations for the bundled host. It stands in for a real runtime
// integration: it reads the buffer as a sequence of Clojure top-level
// forms and fails the way a loader would on unreadable input, which is
// enough to exercise success and failure completions for real.
package evaluator

import (
	"fmt"
	"os"
	"strings"
)

// Result describes one completed whole-buffer run.
type Result struct {
	Forms int // Top-level forms read
}

// Service runs whole-buffer operations.
type Service struct {
	logf func(string, ...any)
}

// NewService creates an evaluator service.
func NewService(logf func(string, ...any)) *Service {
	return &Service{logf: logf}
}

// EvalBuffer reads and "evaluates" every top-level form in text.
func (s *Service) EvalBuffer(name, text string) (Result, error) {
	forms, err := readForms(text)
	if err != nil {
		s.debugf("eval %s failed: %v", name, err)
		return Result{}, fmt.Errorf("eval %s: %w", name, err)
	}
	s.debugf("eval %s: %d forms", name, forms)
	return Result{Forms: forms}, nil
}

// LoadBuffer loads the buffer content as a whole, like EvalBuffer but
// named after the runtime's load operation.
func (s *Service) LoadBuffer(name, text string) (Result, error) {
	forms, err := readForms(text)
	if err != nil {
		s.debugf("load %s failed: %v", name, err)
		return Result{}, fmt.Errorf("load %s: %w", name, err)
	}
	s.debugf("load %s: %d forms", name, forms)
	return Result{Forms: forms}, nil
}

// LoadFile reads path from disk and loads its content. The buffer may
// have unsaved edits; load-file acts on the saved file, as the runtime
// does.
func (s *Service) LoadFile(path string) (Result, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path names a buffer the user opened
	if err != nil {
		return Result{}, fmt.Errorf("load-file: %w", err)
	}
	forms, err := readForms(string(data))
	if err != nil {
		return Result{}, fmt.Errorf("load-file %s: %w", path, err)
	}
	s.debugf("load-file %s: %d forms", path, forms)
	return Result{Forms: forms}, nil
}

func (s *Service) debugf(format string, args ...any) {
	if s.logf == nil {
		return
	}
	s.logf(format, args...)
}

// readForms counts the top-level forms in text, failing on unbalanced
// delimiters or an unterminated string. Atoms outside any delimiter
// count as forms too.
func readForms(text string) (int, error) {
	var (
		stack []rune
		forms int
		atom  bool
	)

	closer := map[rune]rune{')': '(', ']': '[', '}': '{'}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		switch {
		case ch == ';':
			// Line comment.
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			continue
		case ch == '\\' && i+1 < len(runes):
			// Character literal, e.g. \newline or \(.
			i++
			for i+1 < len(runes) && isSymbolRune(runes[i+1]) {
				i++
			}
			if len(stack) == 0 && !atom {
				forms++
			}
			continue
		case ch == '"':
			end, err := skipString(runes, i)
			if err != nil {
				return 0, err
			}
			if len(stack) == 0 {
				forms++
			}
			i = end
			atom = false
			continue
		}

		switch ch {
		case '(', '[', '{':
			if len(stack) == 0 {
				forms++
			}
			stack = append(stack, ch)
			atom = false
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != closer[ch] {
				return 0, fmt.Errorf("unmatched %q", ch)
			}
			stack = stack[:len(stack)-1]
			atom = false
		default:
			if strings.ContainsRune(" \t\r\n,", ch) {
				atom = false
				continue
			}
			if len(stack) == 0 && !atom {
				forms++
			}
			atom = true
		}
	}

	if len(stack) > 0 {
		return 0, fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return forms, nil
}

func skipString(runes []rune, start int) (int, error) {
	for i := start + 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case '"':
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated string")
}

func isSymbolRune(ch rune) bool {
	if strings.ContainsRune(" \t\r\n,()[]{}\";", ch) {
		return false
	}
	return true
}
