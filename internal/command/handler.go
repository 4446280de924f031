package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/core"
	"pkt.systems/webmentionctl/internal/format"
	"pkt.systems/webmentionctl/internal/version"
	"pkt.systems/webmentionctl/schema"
)

// HandlerConfig configures slash command behavior.
type HandlerConfig struct {
	Renderer            *format.PlainRenderer
	DisableAuditLogging bool
}

// Handler routes slash commands to the moderation controllers and writes
// the rendered result to its output.
type Handler struct {
	ctrl   *core.Controllers
	cfg    HandlerConfig
	render *format.PlainRenderer

	outMu sync.Mutex
	out   io.Writer

	historyMu sync.Mutex
	history   *historyBuffer
}

// NewHandler constructs a command handler writing to out.
func NewHandler(ctrl *core.Controllers, out io.Writer, cfg HandlerConfig) *Handler {
	render := cfg.Renderer
	if render == nil {
		render = format.NewPlainRenderer()
	}
	if out == nil {
		out = io.Discard
	}
	return &Handler{ctrl: ctrl, cfg: cfg, render: render, out: out, history: newHistory(defaultHistoryMax)}
}

// Handle inspects input and executes slash commands. It reports false when
// input is not a command.
func (h *Handler) Handle(ctx context.Context, input string) (bool, error) {
	if ctx == nil {
		return false, errors.New("missing context")
	}
	log := pslog.Ctx(ctx).With("input_len", len(input))
	cmd, ok := Parse(input)
	if !ok {
		return false, nil
	}
	if !h.cfg.DisableAuditLogging {
		log.Debug("audit command", "command_type", "slash", "command", strings.TrimSpace(input))
	}
	log = log.With("command", cmd.Name, "args", len(cmd.Args))
	log.Info("command slash request")
	ctx = pslog.ContextWithLogger(ctx, log)
	switch cmd.Name {
	case "":
		log.Warn("command slash rejected", "reason", "empty")
		return true, fmt.Errorf("invalid command")
	case "help":
		return true, h.handleHelp(ctx)
	case "status":
		return true, h.handleStatus(ctx)
	case "filter":
		return true, h.handleFilter(ctx, cmd)
	case "next":
		return true, h.handlePage(ctx, h.ctrl.Mentions.NextPage)
	case "prev":
		return true, h.handlePage(ctx, h.ctrl.Mentions.PreviousPage)
	case "refresh":
		return true, h.handlePage(ctx, h.ctrl.Mentions.Fetch)
	case "limit":
		return true, h.handleLimit(ctx, cmd)
	case "approve":
		return true, h.handleMutation(ctx, cmd, "approved", h.ctrl.Mutations.Approve)
	case "reject":
		return true, h.handleMutation(ctx, cmd, "rejected", h.ctrl.Mutations.Reject)
	case "delete":
		return true, h.handleMutation(ctx, cmd, "deleted", h.ctrl.Mutations.Delete)
	case "policies":
		return true, h.handlePolicies(ctx)
	case "policy":
		return true, h.handlePolicy(ctx, cmd)
	case "send":
		return true, h.handleSend(ctx, cmd)
	case "summary":
		return true, h.handleSummary(ctx)
	case "logout":
		return true, h.handleLogout(ctx)
	case "history":
		return true, h.handleHistory(ctx)
	case "version":
		h.appendLines(version.Get().String())
		return true, nil
	default:
		log.Warn("command slash rejected", "reason", "unknown")
		return true, fmt.Errorf("unknown command: /%s", cmd.Name)
	}
}

func (h *Handler) handleHelp(ctx context.Context) error {
	h.appendLines(helpLines()...)
	pslog.Ctx(ctx).Info("command help completed")
	return nil
}

func helpLines() []string {
	return []string{
		"Commands:",
		"/filter <status>       show mentions with status (" + statusNames() + ")",
		"/next, /prev           move one page forward or back",
		"/limit <n>             set the page size (keeps the offset)",
		"/refresh               reload the current page",
		"/approve <id>          approve a mention",
		"/reject <id>           reject a mention",
		"/delete <id>           delete a mention",
		"/policies              list moderation policies",
		"/policy add <pattern> [weight]",
		"/policy rm <id>",
		"/send <source-url>     send webmentions for every link in source",
		"/summary               count mentions per status",
		"/status                show session and operation state",
		"/logout                end the session",
		"/history               show previous commands",
		"/version",
	}
}

func statusNames() string {
	names := make([]string, 0, len(schema.KnownMentionStatuses))
	for _, status := range schema.KnownMentionStatuses {
		names = append(names, string(status))
	}
	return strings.Join(names, "|")
}

func (h *Handler) handleStatus(ctx context.Context) error {
	lines := []string{h.render.Session(h.ctrl.Session.IsLoggedIn())}
	snap := h.ctrl.Mentions.Snapshot()
	lines = append(lines, h.render.Operation(snap.Status.Operation, snap.Status.State, snap.Status.LastError))
	lines = append(lines,
		h.render.Operation(schema.OpMutateMentionStatus, h.ctrl.Mutations.Status().State(), h.ctrl.Mutations.Status().Err()),
		h.render.Operation(schema.OpDeleteMention, h.ctrl.Mutations.DeleteStatus().State(), h.ctrl.Mutations.DeleteStatus().Err()),
		h.render.Operation(schema.OpGetPolicies, h.ctrl.Policies.ListStatus().State(), h.ctrl.Policies.ListStatus().Err()),
		h.render.Operation(schema.OpCreatePolicy, h.ctrl.Policies.CreateStatus().State(), h.ctrl.Policies.CreateStatus().Err()),
		h.render.Operation(schema.OpDeletePolicy, h.ctrl.Policies.DeleteStatus().State(), h.ctrl.Policies.DeleteStatus().Err()),
		h.render.Operation(schema.OpSendMention, h.ctrl.Sender.Status().State(), h.ctrl.Sender.Status().Err()),
		h.render.Operation(schema.OpGetSummary, h.ctrl.Summary.Status().State(), h.ctrl.Summary.Status().Err()),
	)
	lines = append(lines, fmt.Sprintf("filter %s, offset %d, limit %d, total %d", snap.Filter, snap.Paging.Offset, snap.Paging.Limit, snap.Paging.Total))
	h.appendLines(lines...)
	pslog.Ctx(ctx).Info("command status completed")
	return nil
}

func (h *Handler) handleFilter(ctx context.Context, cmd Command) error {
	status, err := cmd.single(statusNames())
	if err != nil {
		return err
	}
	log := pslog.Ctx(ctx)
	if err := h.requireSession(); err != nil {
		return err
	}
	if err := h.ctrl.Mentions.SetFilter(ctx, schema.MentionStatus(status)); err != nil {
		log.Warn("command filter failed", "err", err)
		return h.reportErr(err)
	}
	h.renderPage()
	log.Info("command filter completed", "status", status)
	return nil
}

func (h *Handler) handlePage(ctx context.Context, move func(context.Context) error) error {
	if err := h.requireSession(); err != nil {
		return err
	}
	if err := move(ctx); err != nil {
		pslog.Ctx(ctx).Warn("command page failed", "err", err)
		return h.reportErr(err)
	}
	h.renderPage()
	return nil
}

func (h *Handler) handleLimit(ctx context.Context, cmd Command) error {
	n, err := cmd.Limit()
	if err != nil {
		return err
	}
	if err := h.ctrl.Mentions.SetLimit(n); err != nil {
		return err
	}
	h.appendLines(fmt.Sprintf("page limit set to %d", n))
	pslog.Ctx(ctx).Info("command limit completed", "limit", n)
	return nil
}

func (h *Handler) handleMutation(ctx context.Context, cmd Command, verb string, call func(context.Context, schema.MentionID) error) error {
	id, err := cmd.MentionID()
	if err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}
	if err := call(ctx, id); err != nil {
		pslog.Ctx(ctx).Warn("command mutation failed", "err", err)
		return h.reportErr(err)
	}
	h.appendLines(fmt.Sprintf("mention %s %s (refresh to see the change)", id, verb))
	pslog.Ctx(ctx).Info("command mutation completed", "mention", id)
	return nil
}

func (h *Handler) handlePolicies(ctx context.Context) error {
	if err := h.requireSession(); err != nil {
		return err
	}
	policies, err := h.ctrl.Policies.List(ctx)
	if err != nil {
		pslog.Ctx(ctx).Warn("command policies failed", "err", err)
		return h.reportErr(err)
	}
	h.appendLines(h.render.Policies(policies)...)
	pslog.Ctx(ctx).Info("command policies completed", "count", len(policies))
	return nil
}

func (h *Handler) handlePolicy(ctx context.Context, cmd Command) error {
	pc, err := cmd.Policy()
	if err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}
	log := pslog.Ctx(ctx)
	if pc.Create != nil {
		if err := h.ctrl.Policies.Create(ctx, *pc.Create); err != nil {
			log.Warn("command policy add failed", "err", err)
			return h.reportErr(err)
		}
		h.appendLines(fmt.Sprintf("policy added: %s", pc.Create.URLPattern))
		log.Info("command policy completed", "action", "add")
		return nil
	}
	if err := h.ctrl.Policies.Delete(ctx, pc.Remove); err != nil {
		log.Warn("command policy rm failed", "err", err)
		return h.reportErr(err)
	}
	h.appendLines(fmt.Sprintf("policy %d removed", pc.Remove))
	log.Info("command policy completed", "action", "rm")
	return nil
}

func (h *Handler) handleSend(ctx context.Context, cmd Command) error {
	source, err := cmd.single("source-url")
	if err != nil {
		return err
	}
	if err := h.requireSession(); err != nil {
		return err
	}
	report, err := h.ctrl.Sender.Send(ctx, source)
	var sendErr *schema.SendError
	if errors.As(err, &sendErr) {
		h.appendLines(h.render.SendReport(report)...)
	}
	if err != nil {
		pslog.Ctx(ctx).Warn("command send failed", "err", err)
		return h.reportErr(err)
	}
	h.appendLines(h.render.SendReport(report)...)
	pslog.Ctx(ctx).Info("command send completed", "targets", len(report.Targets))
	return nil
}

func (h *Handler) handleSummary(ctx context.Context) error {
	if err := h.requireSession(); err != nil {
		return err
	}
	summary, err := h.ctrl.Summary.Load(ctx)
	if err != nil {
		pslog.Ctx(ctx).Warn("command summary failed", "err", err)
		return h.reportErr(err)
	}
	h.appendLines(h.render.Summary(summary)...)
	return nil
}

func (h *Handler) handleLogout(ctx context.Context) error {
	h.ctrl.Session.Logout()
	h.appendLines("logged out")
	pslog.Ctx(ctx).Info("command logout completed")
	return nil
}

func (h *Handler) handleHistory(ctx context.Context) error {
	h.historyMu.Lock()
	entries := h.history.Entries()
	h.historyMu.Unlock()
	lines := make([]string, 0, len(entries))
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%3d  %s", i+1, entry))
	}
	if len(lines) == 0 {
		lines = append(lines, "no history")
	}
	h.appendLines(lines...)
	pslog.Ctx(ctx).Info("command history completed", "entries", len(entries))
	return nil
}

func (h *Handler) recordHistory(entry string) {
	h.historyMu.Lock()
	h.history.Append(entry)
	h.historyMu.Unlock()
}

func (h *Handler) loadHistory(raw string) {
	h.historyMu.Lock()
	h.history = newHistoryFromPersisted(raw)
	h.historyMu.Unlock()
}

func (h *Handler) encodedHistory() string {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()
	return h.history.encode()
}

func (h *Handler) requireSession() error {
	if h.ctrl.Session.IsLoggedIn() {
		return nil
	}
	return schema.ErrNotLoggedIn
}

// reportErr turns an authorization failure into a hint that the session
// is gone; other errors pass through.
func (h *Handler) reportErr(err error) error {
	if schema.IsUnauthorized(err) {
		h.appendLines("session expired, log in again")
	}
	return err
}

func (h *Handler) renderPage() {
	snap := h.ctrl.Mentions.Snapshot()
	h.appendLines(h.render.Page(snap.Filter, snap.Paging, snap.Items)...)
}

func (h *Handler) appendLines(lines ...string) {
	h.outMu.Lock()
	defer h.outMu.Unlock()
	for _, line := range lines {
		_, _ = io.WriteString(h.out, line+"\n")
	}
}
