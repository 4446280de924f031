package command

import (
	"fmt"
	"strconv"
	"strings"

	"pkt.systems/webmentionctl/schema"
)

// Command is a slash command with its name resolved from any alias.
type Command struct {
	Name string
	Args []string
	Raw  string
}

var aliases = map[string]string{
	"h": "help",
	"n": "next",
	"p": "prev",
	"r": "refresh",
}

// Parse splits a line starting with "/" into a Command. It reports false
// for anything else.
func Parse(input string) (Command, bool) {
	trimmed := strings.TrimLeft(input, " \t")
	if !strings.HasPrefix(trimmed, "/") {
		return Command{}, false
	}
	raw := strings.TrimSpace(trimmed[1:])
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{Raw: raw}, true
	}
	name := strings.ToLower(fields[0])
	if full, ok := aliases[name]; ok {
		name = full
	}
	return Command{Name: name, Args: fields[1:], Raw: raw}, true
}

// UsageError reports a command invoked with the wrong arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

func usage(format string, args ...any) error {
	return &UsageError{Usage: fmt.Sprintf(format, args...)}
}

// single returns the only argument or a usage error naming placeholder.
func (c Command) single(placeholder string) (string, error) {
	if len(c.Args) != 1 {
		return "", usage("/%s <%s>", c.Name, placeholder)
	}
	return c.Args[0], nil
}

// MentionID parses "/<name> <id>". Ids are opaque server strings.
func (c Command) MentionID() (schema.MentionID, error) {
	arg, err := c.single("id")
	if err != nil {
		return "", err
	}
	return schema.MentionID(arg), nil
}

// Limit parses "/limit <n>".
func (c Command) Limit() (int, error) {
	arg, err := c.single("n")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usage("/limit <n>")
	}
	return n, nil
}

const policyUsage = "/policy add <pattern> [weight] | /policy rm <id>"

// PolicyCommand is a parsed "/policy" subcommand. Exactly one of Create
// or Remove is set.
type PolicyCommand struct {
	Create *schema.CreatePolicyRequest
	Remove schema.PolicyID
}

// Policy parses "/policy add <pattern> [weight]" and "/policy rm <id>".
// Weight defaults to 0 and may be negative.
func (c Command) Policy() (PolicyCommand, error) {
	if len(c.Args) < 2 {
		return PolicyCommand{}, usage(policyUsage)
	}
	switch strings.ToLower(c.Args[0]) {
	case "add":
		if len(c.Args) > 3 {
			return PolicyCommand{}, usage(policyUsage)
		}
		req := &schema.CreatePolicyRequest{URLPattern: c.Args[1], Policy: schema.PolicyApprove}
		if len(c.Args) == 3 {
			weight, err := strconv.Atoi(c.Args[2])
			if err != nil {
				return PolicyCommand{}, usage(policyUsage)
			}
			req.Weight = weight
		}
		return PolicyCommand{Create: req}, nil
	case "rm", "delete":
		if len(c.Args) != 2 {
			return PolicyCommand{}, usage(policyUsage)
		}
		id, err := schema.ParsePolicyID(c.Args[1])
		if err != nil {
			return PolicyCommand{}, err
		}
		return PolicyCommand{Remove: id}, nil
	default:
		return PolicyCommand{}, usage(policyUsage)
	}
}
