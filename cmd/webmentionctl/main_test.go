package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestRootHasCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{
		"login": false, "logout": false, "session": false, "mentions": false, "send": false,
		"policies": false, "widget": false, "console": false, "config": false, "version": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected %s command", name)
		}
	}
}

func TestDescribeToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	claims := jwt.RegisteredClaims{
		Issuer:    "webmentiond",
		Subject:   "me@example.org",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	lines := describeToken(token, now)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "issuer: webmentiond") || !strings.Contains(joined, "subject: me@example.org") || !strings.Contains(joined, "(valid)") {
		t.Fatalf("unexpected description %q", joined)
	}
	if later := strings.Join(describeToken(token, now.Add(2*time.Hour)), "\n"); !strings.Contains(later, "(expired)") {
		t.Fatalf("expected expired token, got %q", later)
	}
	if got := describeToken("not-a-jwt", now); len(got) != 1 || got[0] != "token: opaque" {
		t.Fatalf("expected opaque token, got %v", got)
	}
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("  secret \nignored\n"))
	if err != nil || got != "secret" {
		t.Fatalf("expected secret, got %q err=%v", got, err)
	}
	if _, err := readLine(strings.NewReader("")); err == nil {
		t.Fatalf("expected error on empty input")
	}
}

func TestPastTense(t *testing.T) {
	for action, want := range map[string]string{"approve": "approved", "reject": "rejected", "delete": "deleted", "x": "x"} {
		if got := pastTense(action); got != want {
			t.Fatalf("pastTense(%q) = %q, want %q", action, got, want)
		}
	}
}

func TestLoginAndListEndToEnd(t *testing.T) {
	var lastQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/authenticate":
			_ = r.ParseForm()
			if r.PostForm.Get("token") != "link-token" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("jwt-value"))
		case "/manage/mentions":
			if r.Header.Get("Authorization") != "Bearer jwt-value" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			lastQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"items":[{"id":"abc","source":"https://s.example/","target":"https://t.example/"}],"total":3}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	content := "config_version: 1\nstate_dir: " + filepath.Join(dir, "state") + "\nserver:\n  base_url: " + srv.URL + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runRoot(t, "-c", cfgPath, "login", "token", "link-token")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "logged in") {
		t.Fatalf("unexpected login output %q", out)
	}

	out, err = runRoot(t, "-c", cfgPath, "mentions", "list", "--status", "approved", "--limit", "2", "--offset", "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if lastQuery != "limit=2&offset=2&status=approved" {
		t.Fatalf("unexpected query %q", lastQuery)
	}
	if !strings.Contains(out, "approved mentions 3-3 of 3 (limit 2)") || !strings.Contains(out, "[abc]") {
		t.Fatalf("unexpected list output %q", out)
	}

	if _, err := runRoot(t, "-c", cfgPath, "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err = runRoot(t, "-c", cfgPath, "session")
	if err != nil || strings.TrimSpace(out) != "logged out" {
		t.Fatalf("expected logged out session, got %q err=%v", out, err)
	}
	if _, err := runRoot(t, "-c", cfgPath, "mentions", "list"); err == nil {
		t.Fatalf("expected list to fail without session")
	}
}

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := runRoot(t, "-c", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "config_version: 1") {
		t.Fatalf("unexpected config %q", data)
	}
	if _, err := runRoot(t, "-c", path, "config", "init"); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
