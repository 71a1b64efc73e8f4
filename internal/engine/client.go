package engine

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"

	"github.com/google/shlex"

	"frecfind/internal/domain"
	"frecfind/internal/eventbus"
	"frecfind/internal/pathfilter"
)

// Options are the find parameters forwarded to the engine, built from the
// configuration snapshot. They have no identity beyond a single invocation.
type Options struct {
	ResultCap int // 0 = no limit
	Syntax    domain.SyntaxMode
	Case      domain.CaseMode
	HomeTilde bool
	Relative  bool
}

// Client talks to the external ranked store by spawning its process.
// Updates are best-effort telemetry; queries degrade to an empty result
// list on any failure.
type Client struct {
	argv       []string // engine command split into argv
	opts       Options
	filter     *pathfilter.Filter
	bus        eventbus.EventBus
	workerPool chan struct{} // limits concurrent engine processes
}

// New creates a client for the configured engine command.
func New(command string, opts Options, filter *pathfilter.Filter, bus eventbus.EventBus) (*Client, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse engine command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("engine command is empty")
	}
	return &Client{
		argv:       argv,
		opts:       opts,
		filter:     filter,
		bus:        bus,
		workerPool: make(chan struct{}, 4),
	}, nil
}

// Installed reports whether the engine binary can be found. Called once at
// startup; a missing engine produces a single persistent warning and does
// not block anything else from attempting to run.
func (c *Client) Installed() bool {
	_, err := exec.LookPath(c.argv[0])
	return err == nil
}

// RecordUsage sends one weighted update to the engine. It deliberately
// returns nothing: any failure (missing binary, non-zero exit, timeout) is
// swallowed and at most logged. There are no retries.
func (c *Client) RecordUsage(ctx context.Context, path string, weight float64, category domain.Category) {
	if path == "" {
		return
	}
	if category == domain.CategoryFiles && !c.filter.IsTrackable(path) {
		return
	}

	select {
	case c.workerPool <- struct{}{}:
		defer func() { <-c.workerPool }()
	case <-ctx.Done():
		return
	}

	args := append(c.tail(), "update",
		"--type", string(category),
		"--weight", strconv.FormatFloat(weight, 'f', -1, 64),
		path)

	cmd := exec.CommandContext(ctx, c.argv[0], args...)
	if err := cmd.Run(); err != nil {
		log.Printf("Engine update failed for %s: %v", path, err)
		return
	}

	if c.bus != nil {
		c.bus.Publish(eventbus.UpdateDispatchedEvent{
			Path:     path,
			Weight:   weight,
			Category: category,
		})
	}
}

// Find queries the engine and returns its ranked lines verbatim (trimmed,
// color-stripped, empties removed). On any failure it returns an empty
// list: from the caller's point of view that is indistinguishable from
// "no matches", which keeps the interactive loop non-blocking. The
// failure itself goes to the diagnostic channel.
func (c *Client) Find(ctx context.Context, category domain.Category, query string) []string {
	select {
	case c.workerPool <- struct{}{}:
		defer func() { <-c.workerPool }()
	case <-ctx.Done():
		return nil
	}

	args := append(c.tail(), "find", "--type", string(category))
	if c.opts.ResultCap > 0 {
		args = append(args, "--limit", strconv.Itoa(c.opts.ResultCap))
	}
	if c.opts.Syntax == domain.SyntaxFuzzy {
		args = append(args, "--fuzzy")
	}
	switch c.opts.Case {
	case domain.CaseSensitive:
		args = append(args, "--case-sensitive")
	case domain.CaseInsensitive:
		args = append(args, "--case-insensitive")
	}
	if c.opts.HomeTilde {
		args = append(args, "--tilde")
	}
	if c.opts.Relative {
		args = append(args, "--relative")
	}
	if query != "" {
		args = append(args, query)
	}

	cmd := exec.CommandContext(ctx, c.argv[0], args...)
	output, err := cmd.Output()
	if err != nil {
		log.Printf("Engine find failed for query %q: %v", query, err)
		if c.bus != nil {
			c.bus.Publish(eventbus.QueryFailedEvent{Query: query, Err: err})
		}
		return nil
	}

	return CleanLines(string(output))
}

// tail returns a copy of the engine argv past the binary name, so callers
// can append subcommand arguments without sharing backing arrays.
func (c *Client) tail() []string {
	tail := make([]string, len(c.argv)-1, len(c.argv)+8)
	copy(tail, c.argv[1:])
	return tail
}
