// Copyright © 2026 The FXLINT authors

// Package repl provides an interactive shell that analyzes formulas as they
// are typed.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/diagnostic"
	"github.com/luthersystems/fxlint/lint"
	"github.com/luthersystems/fxlint/parser"
)

// inputName is the file name under which REPL input is reported.
const inputName = "<repl>"

const helpText = `Type a formula to analyze it. Unbalanced brackets continue on the next line.
Commands:
  :help          show this help
  :doc NAME      show the documentation of a function or operator
  :tree          toggle printing of the call tree
  :quit          leave the REPL (or Ctrl-D)`

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	linter *lint.Linter
	color  diagnostic.ColorMode
	hist   string
}

func newConfig(opts ...Option) *config {
	config := &config{hist: historyPath()}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithLinter sets the linter used to analyze input.  By default the
// embedded catalog and the default analyzers are used.
func WithLinter(l *lint.Linter) Option {
	return func(c *config) {
		c.linter = l
	}
}

// WithColor sets the color mode of rendered diagnostics.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithHistoryFile sets the history file.  An empty path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.hist = path
	}
}

// session is the state of one REPL run.
type session struct {
	linter   *lint.Linter
	out      io.Writer
	renderer *diagnostic.Renderer
	tree     bool
	src      []byte
}

// RunRepl reads formulas until end of input and prints the analysis of
// each one.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	if cfg.linter == nil {
		reg, err := catalog.Default()
		if err != nil {
			return err
		}
		cfg.linter = lint.New(reg)
	}
	var out io.Writer = os.Stderr
	if cfg.stderr != nil {
		out = cfg.stderr
	}

	ensureHistoryFilePermissions(cfg.hist)
	cont := strings.Repeat(" ", len(prompt)-2) + ". "
	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       cfg.hist,
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{reg: cfg.linter.Registry},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{linter: cfg.linter, out: out}
	s.renderer = &diagnostic.Renderer{Color: cfg.color}

	var pending []string
	for {
		if len(pending) == 0 {
			rl.SetPrompt(prompt)
		} else {
			rl.SetPrompt(cont)
		}
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			pending = nil
			continue
		}
		if err != nil {
			if len(pending) > 0 {
				s.analyze(strings.Join(pending, "\n"))
			}
			return nil
		}
		if len(pending) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				if s.command(trimmed) {
					return nil
				}
				continue
			}
		}
		pending = append(pending, line)
		text := strings.Join(pending, "\n")
		if incomplete(text) {
			continue
		}
		pending = nil
		s.analyze(text)
	}
}

// incomplete reports whether text ends inside an open bracket group or
// string literal.
func incomplete(text string) bool {
	for _, e := range parser.ScanText(text).Errors() {
		if strings.HasPrefix(e.Msg, "unclosed") {
			return true
		}
	}
	return false
}

// command runs a REPL command and reports whether the REPL should exit.
func (s *session) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(s.out, helpText) //nolint:errcheck // best-effort REPL output
	case ":tree":
		s.tree = !s.tree
		fmt.Fprintf(s.out, "call tree %s\n", onOff(s.tree)) //nolint:errcheck // best-effort REPL output
	case ":doc":
		s.doc(arg)
	default:
		fmt.Fprintf(s.out, "unknown command %s; type :help\n", name) //nolint:errcheck // best-effort REPL output
	}
	return false
}

func (s *session) doc(name string) {
	reg := s.linter.Registry
	rule, ok := reg.Function(name)
	if !ok {
		rule, ok = reg.Operator(name)
	}
	if !ok {
		msg := "no function or operator named " + name
		if sug, ok := reg.(catalog.Suggester); ok {
			if canon, ok := sug.Suggest(name); ok {
				msg += "; did you mean " + canon + "?"
			}
		}
		fmt.Fprintln(s.out, msg) //nolint:errcheck // best-effort REPL output
		return
	}
	syntax := rule.Syntax
	if syntax == "" {
		syntax = rule.Key()
	}
	fmt.Fprintf(s.out, "%s\n  %s\n", syntax, rule.Description) //nolint:errcheck // best-effort REPL output
	if rule.Docs != "" {
		fmt.Fprintf(s.out, "  see %s\n", rule.Docs) //nolint:errcheck // best-effort REPL output
	}
}

// analyze prints the diagnostics of text followed by a one-line verdict.
func (s *session) analyze(text string) {
	s.src = []byte(text)
	res := s.linter.AnalyzeFile(s.src, inputName)
	diags := res.Diagnostics()
	if len(diags) > 0 {
		_ = lint.Render(s.out, s.renderer, diags, map[string][]byte{inputName: s.src})
	}
	if s.tree {
		printCalls(s.out, res.Calls(), "  ")
	}
	verdict := "valid"
	if !res.Valid() {
		verdict = "invalid"
	}
	score := 0
	for _, sr := range res.Statements {
		score = max(score, sr.Score)
	}
	fmt.Fprintf(s.out, "%s, %s (score %d)\n", verdict, res.Complexity, score) //nolint:errcheck // best-effort REPL output
}

func printCalls(w io.Writer, calls []*parser.CallNode, indent string) {
	for _, n := range calls {
		fmt.Fprintf(w, "%s%s/%d\n", indent, n.Name, len(n.Args)) //nolint:errcheck // best-effort REPL output
		printCalls(w, n.Nested, indent+"  ")
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fxlint_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path is the user's history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0o600)
}
