package widget

import (
	"strings"

	"pkt.systems/webmentionctl/schema"
)

// DefaultTitle is shown when the embedding page sets no title.
const DefaultTitle = "Mentions"

// Config describes one widget mount. It is resolved once and not changed
// afterwards.
type Config struct {
	Endpoint        string
	Target          string
	Title           string
	ShowRSVPSummary bool
}

// ConfigFromDataset resolves a Config from the key/value attributes of the
// embedding element. Keys use the attribute spelling (endpoint, target,
// title, rsvp-summary).
func ConfigFromDataset(dataset map[string]string) Config {
	cfg := Config{
		Endpoint: strings.TrimSpace(dataset["endpoint"]),
		Target:   strings.TrimSpace(dataset["target"]),
		Title:    strings.TrimSpace(dataset["title"]),
	}
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	rsvp, ok := dataset["rsvp-summary"]
	if !ok {
		rsvp = dataset["rsvpSummary"]
	}
	cfg.ShowRSVPSummary = rsvp == "yes"
	return cfg
}

// Validate reports whether cfg can be fetched.
func (cfg Config) Validate() error {
	if cfg.Endpoint == "" {
		return schema.ErrMissingEndpoint
	}
	if cfg.Target == "" {
		return schema.ErrMissingTarget
	}
	return nil
}
