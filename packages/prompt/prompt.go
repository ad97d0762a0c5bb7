package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/abdul-hamid-achik/reqspec/packages/core/parser"
)

// Prompter asks for a single value.
type Prompter interface {
	Prompt(ctx context.Context, key, hint string) (string, error)
}

// TerminalPrompter writes questions to out and reads answers line by line
// from in.
type TerminalPrompter struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	keyFmt *color.Color
	hint   *color.Color
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     bufio.NewReader(in),
		out:    out,
		keyFmt: color.New(color.FgCyan, color.Bold),
		hint:   color.New(color.Faint),
	}
}

type answer struct {
	line string
	err  error
}

// Prompt shows "> key (hint): " and returns the trimmed answer. Cancelling
// ctx returns ctx.Err() without waiting for input.
func (p *TerminalPrompter) Prompt(ctx context.Context, key, hint string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "> %s", p.keyFmt.Sprint(key))
	if hint != "" {
		fmt.Fprintf(p.out, " %s", p.hint.Sprintf("(%s)", hint))
	}
	fmt.Fprint(p.out, ": ")

	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case a := <-ch:
		if a.err != nil {
			return "", a.err
		}
		return strings.TrimRight(a.line, "\r\n"), nil
	}
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// InputSource resolves declared input params by asking a Prompter.
type InputSource struct {
	params   map[string]parser.InputParam
	prompter Prompter
}

func NewInputSource(params map[string]parser.InputParam, prompter Prompter) *InputSource {
	return &InputSource{params: params, prompter: prompter}
}

// Pick asks for key when it is a declared input param. Empty answers,
// read errors and cancellation all count as no value.
func (s *InputSource) Pick(ctx context.Context, key string) (string, bool) {
	param, ok := s.params[key]
	if !ok || s.prompter == nil {
		return "", false
	}
	if ctx.Err() != nil {
		return "", false
	}

	v, err := s.prompter.Prompt(ctx, key, param.Hint)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (s *InputSource) Name() string { return "input" }
