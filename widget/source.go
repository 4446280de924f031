package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"pkt.systems/webmentionctl/schema"
)

// RSVPAnswers are always present in RSVPSummary.
var RSVPAnswers = []string{"yes", "no", "maybe", "interested"}

// DataSource is the read-only mention list behind one widget. Mentions is
// nil until Mount has loaded data.
type DataSource struct {
	cfg    Config
	loader *Loader

	mu       sync.RWMutex
	mentions []schema.Mention
}

// NewDataSource binds cfg to loader.
func NewDataSource(cfg Config, loader *Loader) *DataSource {
	return &DataSource{cfg: cfg, loader: loader}
}

// Config returns the resolved mount configuration.
func (d *DataSource) Config() Config {
	return d.cfg
}

// Mount loads the mention list. Non-blank seed text is parsed as a JSON
// array and used without touching the network; otherwise one fetch is
// issued against the configured endpoint. There is no retry.
func (d *DataSource) Mount(ctx context.Context, seed string) error {
	if strings.TrimSpace(seed) != "" {
		var mentions []schema.Mention
		if err := json.Unmarshal([]byte(seed), &mentions); err != nil {
			return fmt.Errorf("%w: %v", schema.ErrInvalidSeed, err)
		}
		if mentions == nil {
			mentions = []schema.Mention{}
		}
		d.set(mentions)
		return nil
	}
	if err := d.cfg.Validate(); err != nil {
		return err
	}
	if d.loader == nil {
		return fmt.Errorf("widget: no loader for %s", d.cfg.Target)
	}
	mentions, err := d.loader.Load(ctx, d.cfg.Endpoint, d.cfg.Target)
	if err != nil {
		return err
	}
	d.set(mentions)
	return nil
}

// Mentions returns a copy of the loaded list, or nil when nothing is
// loaded yet.
func (d *DataSource) Mentions() []schema.Mention {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.mentions == nil {
		return nil
	}
	return append([]schema.Mention{}, d.mentions...)
}

// Loaded reports whether Mount succeeded.
func (d *DataSource) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mentions != nil
}

// RSVPSummary counts rsvp mentions per answer. Unknown answers are
// counted under their own key.
func (d *DataSource) RSVPSummary() map[string]int {
	counts := make(map[string]int, len(RSVPAnswers))
	for _, answer := range RSVPAnswers {
		counts[answer] = 0
	}
	for _, mention := range d.Mentions() {
		answer := strings.ToLower(strings.TrimSpace(mention.RSVP))
		if answer == "" {
			continue
		}
		counts[answer]++
	}
	return counts
}

// ByType groups mentions by type. Mentions without a type are grouped
// under "mention".
func (d *DataSource) ByType() map[string][]schema.Mention {
	groups := map[string][]schema.Mention{}
	for _, mention := range d.Mentions() {
		kind := mention.Type
		if kind == "" {
			kind = "mention"
		}
		groups[kind] = append(groups[kind], mention)
	}
	return groups
}

func (d *DataSource) set(mentions []schema.Mention) {
	d.mu.Lock()
	d.mentions = mentions
	d.mu.Unlock()
}
