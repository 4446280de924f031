package webmentionctl

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/core"
	"pkt.systems/webmentionctl/httpapi"
	"pkt.systems/webmentionctl/internal/appconfig"
	"pkt.systems/webmentionctl/internal/command"
	"pkt.systems/webmentionctl/internal/eventbus"
	"pkt.systems/webmentionctl/internal/persist"
	"pkt.systems/webmentionctl/internal/version"
	"pkt.systems/webmentionctl/schema"
	"pkt.systems/webmentionctl/widget"
)

// Config configures the compositor.
type Config struct {
	HTTP            httpapi.Config
	StateDir        string
	Mentions        core.CollectionOptions
	WidgetCacheTTL  time.Duration
	MetricsTextfile string
	// DisableAuditLogging suppresses the debug audit line per console command.
	DisableAuditLogging bool
}

// ConfigFromApp maps the file configuration onto the compositor config.
func ConfigFromApp(cfg appconfig.Config) Config {
	return Config{
		HTTP: httpapi.Config{
			BaseURL:   cfg.Server.BaseURL,
			BasePath:  cfg.Server.BasePath,
			UIPath:    cfg.Server.UIPath,
			Timeout:   time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			UserAgent: version.UserAgent(),
		},
		StateDir: cfg.StateDir,
		Mentions: core.CollectionOptions{
			DefaultStatus: schema.MentionStatus(cfg.Mentions.DefaultStatus),
			Limit:         cfg.Mentions.PageLimit,
		},
		WidgetCacheTTL:  time.Duration(cfg.Widget.CacheTTLSeconds) * time.Second,
		MetricsTextfile: cfg.Metrics.Textfile,
	}
}

// Option customizes the compositor.
type Option func(*options)

type options struct {
	logger       pslog.Logger
	roundTripper http.RoundTripper
	store        core.TokenStore
	sink         core.EventSink
	now          func() time.Time
}

// WithLogger sets the base logger.
func WithLogger(logger pslog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRoundTripper replaces the HTTP transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) { o.roundTripper = rt }
}

// WithTokenStore replaces the on-disk token store.
func WithTokenStore(store core.TokenStore) Option {
	return func(o *options) { o.store = store }
}

// WithEventSink adds a sink next to the event bus.
func WithEventSink(sink core.EventSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Client wires the transport, the session and every controller together.
type Client struct {
	*core.Controllers

	cfg       Config
	log       pslog.Logger
	transport *httpapi.Client
	metrics   *httpapi.Metrics
	bus       *eventbus.Bus
	widgets   *widget.Loader
	store     core.TokenStore
}

// New constructs a Client. The persisted session, if any, is restored.
func New(cfg Config, opts ...Option) (*Client, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	logger := o.logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}

	metrics := httpapi.NewMetrics()
	transport, err := httpapi.NewClient(cfg.HTTP,
		httpapi.WithRoundTripper(o.roundTripper),
		httpapi.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		if cfg.StateDir == "" {
			return nil, errors.New("state directory is required")
		}
		fileStore, err := persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}

	bus := eventbus.New(logger)
	var sink core.EventSink = bus
	if o.sink != nil {
		sink = eventFanout{sinks: []core.EventSink{o.sink, bus}}
	}

	deps := core.Deps{
		API:    transport,
		Store:  store,
		Sink:   sink,
		Logger: logger,
		Now:    o.now,
	}
	ctrl := core.NewControllers(deps, cfg.Mentions)
	logger.Debug("client ready", "base_href", transport.BaseHref(), "logged_in", ctrl.Session.IsLoggedIn())

	return &Client{
		Controllers: ctrl,
		cfg:         cfg,
		log:         logger,
		transport:   transport,
		metrics:     metrics,
		bus:         bus,
		widgets:     widget.NewLoader(transport, cfg.WidgetCacheTTL),
		store:       store,
	}, nil
}

// BaseHref returns the resolved API root.
func (c *Client) BaseHref() string {
	return c.transport.BaseHref()
}

// Subscribe streams session and operation events.
func (c *Client) Subscribe() (<-chan eventbus.Event, func()) {
	return c.bus.Subscribe()
}

// Widget binds a read-only data source for cfg. Widgets share one loader.
func (c *Client) Widget(cfg widget.Config) *widget.DataSource {
	return widget.NewDataSource(cfg, c.widgets)
}

// Console returns an interactive slash command console. Command history is
// kept in the same store as the session.
func (c *Client) Console(in io.Reader, out io.Writer) *command.Console {
	handler := command.NewHandler(c.Controllers, out, command.HandlerConfig{
		DisableAuditLogging: c.cfg.DisableAuditLogging,
	})
	return command.NewConsole(handler, in, out).WithHistory(c.store)
}

// Metrics exposes the request metrics registry owner.
func (c *Client) Metrics() *httpapi.Metrics {
	return c.metrics
}

// Close flushes request metrics to the configured textfile.
func (c *Client) Close() error {
	if c.cfg.MetricsTextfile == "" {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.cfg.MetricsTextfile); err != nil {
		c.log.Warn("metrics textfile write failed", "path", c.cfg.MetricsTextfile, "err", err)
		return err
	}
	c.log.Debug("metrics textfile written", "path", c.cfg.MetricsTextfile)
	return nil
}
