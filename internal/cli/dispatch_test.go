package cli_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasker/internal/cli"
	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService
// and records the config it was built from.
func testFactory(svc *testutil.FakeService, seen **config.Config) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		if seen != nil {
			*seen = cfg
		}
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{"TASKER_BASE_URL", "TASKER_TIMEOUT", "TASKER_LOG_FORMAT", "TASKER_COALESCE_REFRESH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var outBuf, errBuf bytes.Buffer
	code = dispatcher.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "tasker "+commands.Version+"\n" {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestDispatcher_CommandHelpFlag(t *testing.T) {
	stdout, _, code := run(t, testFactory(testutil.NewFakeService(), nil), "show", "--help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "Usage: tasker show [common flags] <id>\n" {
		t.Errorf("unexpected usage %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsValue(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "list", "--page")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: flag needs an argument: -page\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_InvalidCategoryFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "add", "--category", "work", "x")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid category id: work") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)

	stdout, stderr, code := run(t, testFactory(svc, nil))

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if stdout != "   1  [ ] Buy milk\npage 1 of 1 (1 task)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	for _, args := range [][]string{{"list"}, {"show", "1"}, {"add", "x"}, {"users"}} {
		stdout, stderr, code := run(t, testFactory(svc, nil), args...)

		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		if stdout != "" {
			t.Errorf("%v: expected no stdout, got %q", args, stdout)
		}
		if stderr != "error: not logged in (run: tasker login)\n" {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls)
	}
}

func TestDispatcher_LoginWithoutSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	stdout, _, code := run(t, testFactory(svc, nil), "login", "--username", "alice", "--password", "correct")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
}

func TestDispatcher_FlagsAfterPositional(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Report", false)

	stdout, stderr, code := run(t, testFactory(svc, nil), "edit", "1", "--title", "Quarterly report", "--quiet")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if stdout != "" {
		t.Errorf("expected quiet output, got %q", stdout)
	}
	if task, _ := svc.Task(1); task.Title != "Quarterly report" {
		t.Errorf("title not changed: %+v", task)
	}
}

func TestDispatcher_DoubleDashEndsFlags(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := run(t, testFactory(svc, nil), "add", "--", "-5", "degrees")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if task, _ := svc.Task(1); task.Title != "-5 degrees" {
		t.Errorf("unexpected title %q", task.Title)
	}
}

func TestDispatcher_ConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	settings := "base_url: http://files.example:8000/api\ntimeout: 3s\n"
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte(settings), 0o600); err != nil {
		t.Fatal(err)
	}

	var seen *config.Config
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), &seen), "version", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("unexpected failure: %s", stderr)
	}
	if seen.BaseURL != "http://files.example:8000/api" || seen.Timeout.String() != "3s" {
		t.Errorf("settings file not applied: %+v", seen)
	}

	_, stderr, code = run(t, testFactory(testutil.NewFakeService(), &seen),
		"version", "--config", dir, "--base-url", "https://flag.example/api/", "--quiet", "--debug")
	if code != exitcode.Success {
		t.Fatalf("unexpected failure: %s", stderr)
	}
	if seen.BaseURL != "https://flag.example/api" {
		t.Errorf("flag should win, got %q", seen.BaseURL)
	}
	if !seen.Quiet || !seen.Debug {
		t.Errorf("common flags not applied: %+v", seen)
	}
}

func TestDispatcher_InvalidBaseURLFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "version", "--base-url", "ftp://nope")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid base_url") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
		return nil, errors.New("invalid timeout: 0s")
	}

	_, stderr, code := run(t, factory, "list")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid timeout: 0s\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := run(t, testFactory(svc, nil), "categories", "--debug")

	if code != exitcode.Success {
		t.Fatalf("unexpected failure: %s", stderr)
	}
	if !strings.Contains(stderr, "msg=dispatch") || !strings.Contains(stderr, "command=categories") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestDispatcher_UnknownCommandSuggestion(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService(), nil), "lsit")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: lsit (did you mean list?)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
