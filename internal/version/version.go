package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

const (
	defaultModule = "pkt.systems/webmentionctl"
	productName   = "webmentionctl"
	unknown       = "v0.0.0-unknown"
)

// buildVersion is set via -ldflags "-X pkt.systems/webmentionctl/internal/version.buildVersion=...".
var buildVersion = ""

// Info describes the running binary.
type Info struct {
	Module    string
	Version   string
	Revision  string
	Time      time.Time
	Modified  bool
	GoVersion string
}

// Get collects version information from ldflags and build info.
func Get() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuildInfo(info, buildVersion)
}

// Current returns the release version without a dirty suffix.
func Current() string {
	return Get().Version
}

// Module returns the module path from build info when available.
func Module() string {
	return Get().Module
}

// UserAgent returns the User-Agent sent with every API request.
func UserAgent() string {
	return productName + "/" + Current() + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// String renders the version line shown by the version command.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", productName, i.Version)
	var extra []string
	if i.Revision != "" {
		rev := i.Revision
		if i.Modified {
			rev += "+dirty"
		}
		extra = append(extra, "rev "+rev)
	}
	if i.GoVersion != "" {
		extra = append(extra, i.GoVersion)
	}
	if len(extra) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extra, ", "))
	}
	return b.String()
}

func fromBuildInfo(info *debug.BuildInfo, ldflagsVersion string) Info {
	out := Info{Module: defaultModule, GoVersion: runtime.Version()}
	if info != nil {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			out.Module = path
		}
		if info.GoVersion != "" {
			out.GoVersion = info.GoVersion
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				out.Revision = shortRevision(setting.Value)
			case "vcs.time":
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					out.Time = t.UTC()
				}
			case "vcs.modified":
				out.Modified = setting.Value == "true"
			}
		}
	}
	switch {
	case strings.TrimSpace(ldflagsVersion) != "":
		out.Version = ldflagsVersion
	case info != nil && info.Main.Version != "" && info.Main.Version != "(devel)":
		out.Version = info.Main.Version
	case out.Revision != "" && !out.Time.IsZero():
		out.Version = "v0.0.0-" + out.Time.Format("20060102150405") + "-" + out.Revision
	default:
		out.Version = unknown
	}
	out.Version = strings.TrimSuffix(strings.TrimSpace(out.Version), "+dirty")
	return out
}

func shortRevision(rev string) string {
	rev = strings.TrimSpace(rev)
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
