package appconfig

import "testing"

func TestDefaultConfigWidgetTitle(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Widget.Title != "Mentions" {
		t.Fatalf("expected widget title to default to Mentions, got %q", cfg.Widget.Title)
	}
	if cfg.Widget.RSVPSummary {
		t.Fatalf("expected rsvp summary to default false")
	}
}
