package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"pkt.systems/pslog"
)

const consolePrompt = "webmention> "

// Console reads commands line by line and feeds them to a Handler until
// input ends, ctx is cancelled or the operator types /quit.
type Console struct {
	handler *Handler
	in      io.Reader
	out     io.Writer
	prompt  string
	store   HistoryStore
}

// NewConsole constructs a console bound to handler.
func NewConsole(handler *Handler, in io.Reader, out io.Writer) *Console {
	return &Console{handler: handler, in: in, out: out, prompt: consolePrompt}
}

// WithHistory loads command history from store and saves it back when Run
// returns.
func (c *Console) WithHistory(store HistoryStore) *Console {
	c.store = store
	return c
}

// Run executes the read loop. Command errors are printed and do not end
// the loop.
func (c *Console) Run(ctx context.Context) error {
	log := pslog.Ctx(ctx)
	c.loadHistory(log)
	defer c.saveHistory(log)
	scanner := bufio.NewScanner(c.in)
	log.Debug("console started")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		_, _ = io.WriteString(c.out, c.prompt)
		if !scanner.Scan() {
			_, _ = io.WriteString(c.out, "\n")
			log.Debug("console input closed")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit", "/q":
			return nil
		}
		handled, err := c.handler.Handle(ctx, line)
		if !handled {
			_, _ = io.WriteString(c.out, "commands start with /, try /help\n")
			continue
		}
		c.handler.recordHistory(line)
		if err != nil {
			_, _ = fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *Console) loadHistory(log pslog.Logger) {
	if c.store == nil {
		return
	}
	raw, ok, err := c.store.Get(HistoryKey)
	if err != nil {
		log.Warn("console history load failed", "err", err)
		return
	}
	if ok {
		c.handler.loadHistory(raw)
	}
}

func (c *Console) saveHistory(log pslog.Logger) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(HistoryKey, c.handler.encodedHistory()); err != nil {
		log.Warn("console history save failed", "err", err)
	}
}
