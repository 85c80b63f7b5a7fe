// Package console drives an input.Bridge from a line-oriented terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
)

// Config holds the dependencies for a Console
type Config struct {
	Bridge *input.Bridge
	In     io.Reader
	Out    io.Writer
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Bridge == nil {
		vb.RequiredField("Bridge")
	}
	if c.In == nil {
		vb.RequiredField("In")
	}
	if c.Out == nil {
		vb.RequiredField("Out")
	}

	return vb.Build()
}

// Console prints prompts and resolves them with typed answers. Lines typed
// before a prompt appears are kept for it.
type Console struct {
	bridge   *input.Bridge
	in       io.Reader
	requests chan input.Request

	mu  sync.Mutex
	out io.Writer
}

// New creates a console
func New(cfg *Config) (*Console, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Console{
		bridge:   cfg.Bridge,
		in:       cfg.In,
		out:      cfg.Out,
		requests: make(chan input.Request, 1),
	}, nil
}

// Handler returns the bridge handler. Only the newest request is kept.
func (c *Console) Handler() input.Handler {
	return func(req input.Request) {
		for {
			select {
			case c.requests <- req:
				return
			default:
			}
			select {
			case <-c.requests:
			default:
			}
		}
	}
}

// Println writes one message line
func (c *Console) Println(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, message)
}

// Serve answers prompts until ctx ends. Once the input is exhausted every new
// prompt is canceled.
func (c *Console) Serve(ctx context.Context) {
	lines := make(chan string)
	go c.read(ctx, lines)

	var (
		current *input.Request
		typed   []string
		eof     bool
	)

	for {
		if current != nil && len(typed) > 0 {
			line := typed[0]
			typed = typed[1:]
			if c.answer(*current, line) {
				current = nil
			}
			continue
		}
		if current != nil && eof {
			c.bridge.Cancel("input closed")
			current = nil
		}

		select {
		case <-ctx.Done():
			return
		case req := <-c.requests:
			current = &req
			c.prompt(req)
		case line, ok := <-lines:
			if !ok {
				eof = true
				lines = nil
				continue
			}
			typed = append(typed, line)
		}
	}
}

func (c *Console) read(ctx context.Context, lines chan<- string) {
	defer close(lines)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Console) prompt(req input.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintf(c.out, "\n%s\n", req.Title)
	for i, o := range req.Options {
		_, _ = fmt.Fprintf(c.out, "  %d) %s\n", i+1, o.Label)
	}
	_, _ = fmt.Fprint(c.out, "> ")
}

// answer resolves req with line. It reports whether req is finished with.
func (c *Console) answer(req input.Request, line string) bool {
	optionID, ok := pick(req.Options, line)
	if !ok {
		c.Println(fmt.Sprintf("Choose a number between 1 and %d.", len(req.Options)))
		return false
	}

	if err := c.bridge.Resolve(req.ID, optionID); err != nil {
		if errors.IsInvalidArgument(err) {
			return false
		}
		c.Println("Too late, that choice has passed.")
	}
	return true
}

// pick accepts a 1-based option number or an option id
func pick(options []input.Option, line string) (string, bool) {
	if n, err := strconv.Atoi(line); err == nil {
		if n < 1 || n > len(options) {
			return "", false
		}
		return options[n-1].ID, true
	}
	for _, o := range options {
		if strings.EqualFold(o.ID, line) {
			return o.ID, true
		}
	}
	return "", false
}
