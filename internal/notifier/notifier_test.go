package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/hybridmaster/internal/constants"
	"github.com/julianstephens/hybridmaster/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

type stubAlerter struct {
	err   error
	texts []string
}

func (s *stubAlerter) Alert(_ context.Context, text string) error {
	s.texts = append(s.texts, text)
	return s.err
}

func overrideConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	userConfigDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDirFunc = old })
	return dir
}

func overrideProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
	t.Cleanup(func() { findProcessFunc = old })
}

func TestTrayConfigDir(t *testing.T) {
	base := overrideConfigDir(t)

	want := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := TrayConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/hybridmaster/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = TrayConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestReadLockfile(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := readLockfile(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile error = %v, want ErrTrayNotRunning", err)
	}

	invalid := map[string]string{
		"two parts":    "8080|12345",
		"garbage":      "invalid",
		"empty secret": "8080|12345|",
		"empty port":   "|12345|secret",
		"port range":   "99999|12345|secret",
		"bad pid":      "8080|abc|secret",
	}
	for name, content := range invalid {
		if err := os.WriteFile(lockfile, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := readLockfile(lockfile); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	if err := os.WriteFile(lockfile, []byte("8080|12345|s3cret\n"), 0644); err != nil {
		t.Fatal(err)
	}

	overrideProcess(t, "")
	if _, _, err := readLockfile(lockfile); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("dead process error = %v, want ErrTrayNotRunning", err)
	}

	overrideProcess(t, "other-app")
	if _, _, err := readLockfile(lockfile); err == nil || !strings.Contains(err.Error(), "other-app") {
		t.Errorf("wrong executable error = %v", err)
	}

	overrideProcess(t, "hybridmaster-tray")
	port, secret, err := readLockfile(lockfile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %q secret %q", port, secret)
	}
}

func newWebhook(t *testing.T, calls *atomic.Int32) (port string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(secretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Port()
}

func TestTraySend(t *testing.T) {
	var calls atomic.Int32
	port := newWebhook(t, &calls)
	tray := NewTray()
	ctx := context.Background()

	if err := tray.send(ctx, port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := tray.send(ctx, port, "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := tray.send(ctx, port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := tray.send(ctx, port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestTrayAlertRetries(t *testing.T) {
	var calls atomic.Int32
	port := newWebhook(t, &calls)

	base := overrideConfigDir(t)
	dir := filepath.Join(base, constants.TrayAppIdentifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(lock), 0644); err != nil {
		t.Fatal(err)
	}
	overrideProcess(t, "hybridmaster-tray")

	tray := NewTray()
	tray.retryDelay = time.Millisecond

	if err := tray.Alert(context.Background(), "Rest finished!"); err != nil {
		t.Fatalf("Alert() error = %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("webhook called %d times, want 1", got)
	}

	calls.Store(0)
	if err := tray.Alert(context.Background(), "fail"); err == nil {
		t.Error("expected error after retries")
	}
	if got := calls.Load(); got != constants.NotifyMaxRetries {
		t.Errorf("webhook called %d times, want %d", got, constants.NotifyMaxRetries)
	}
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBell(&buf).Alert(context.Background(), "ignored"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Errorf("bell wrote %q", buf.String())
	}
}

func TestNotifierFanOut(t *testing.T) {
	ok := &stubAlerter{}
	missing := &stubAlerter{err: fmt.Errorf("lookup: %w", ErrTrayNotRunning)}
	broken := &stubAlerter{err: errors.New("boom")}

	n := New(ok, missing, broken)
	err := n.RestFinished(context.Background(), "Squat")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("RestFinished() error = %v, want boom", err)
	}
	if len(ok.texts) != 1 || ok.texts[0] != "Rest finished! Next: Squat" {
		t.Errorf("texts = %v", ok.texts)
	}

	if err := New(ok, missing).Alert(context.Background(), "x"); err != nil {
		t.Errorf("missing companion should not fail: %v", err)
	}

	var nilNotifier *Notifier
	if err := nilNotifier.Alert(context.Background(), "x"); err != nil || nilNotifier.Enabled() {
		t.Error("nil notifier should be a disabled no-op")
	}
}

func TestFromSettings(t *testing.T) {
	settings := models.DefaultSettings()
	if got := len(FromSettings(settings, &bytes.Buffer{}).alerters); got != 2 {
		t.Errorf("alerters = %d, want 2", got)
	}

	settings.BellEnabled = false
	settings.NotificationsEnabled = false
	if FromSettings(settings, &bytes.Buffer{}).Enabled() {
		t.Error("expected no alerters")
	}
}

func TestRestFinishedText(t *testing.T) {
	if got := RestFinishedText(""); got != constants.TimerFinishedText {
		t.Errorf("got %q", got)
	}
}
