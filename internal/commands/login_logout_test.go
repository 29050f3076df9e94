package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasker/internal/commands"
	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/testutil"
)

func TestLoginCommand_Flags(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, []string{"--username", "alice", "--password", "correct"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if !svc.Authenticated() {
		t.Error("expected a stored session")
	}
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, []string{"--username", "alice", "--password", "wrong"}, false)

	expectCode(t, code, exitcode.AuthError)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid username or password\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Authenticated() {
		t.Error("no session should be stored")
	}
}

func TestLoginCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = errors.New("dial tcp 127.0.0.1:8000: connection refused")

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, []string{"--username", "alice", "--password", "correct"}, false)

	expectCode(t, code, exitcode.BackendError)
	if !strings.HasPrefix(stderr, "error: backend error: ") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLoginCommand_Prompts(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	cmd := &commands.LoginCmd{In: strings.NewReader("alice\ncorrect\n")}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if stderr != "Username: Password: " {
		t.Errorf("unexpected prompts %q", stderr)
	}
}

func TestLoginCommand_PromptsOnlyForMissing(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.LoginCmd{In: strings.NewReader("correct\r\n")}
	_, stderr, code := runCommand(t, cmd, svc, []string{"--username", "alice"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "Password: " {
		t.Errorf("unexpected prompts %q", stderr)
	}
}

func TestLoginCommand_EmptyInput(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.LoginCmd{In: strings.NewReader("")}
	_, stderr, code := runCommand(t, cmd, svc, nil, false)

	expectCode(t, code, exitcode.UserError)
	if !strings.HasSuffix(stderr, "error: required fields missing: username, password\n") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls)
	}
}

// TestLogoutCommand_ClearsSession verifies logout clears the session and nothing else
func TestLogoutCommand_ClearsSession(t *testing.T) {
	svc := testutil.NewFakeService()

	tmpDir := t.TempDir()
	settingsPath := filepath.Join(tmpDir, config.SettingsFile)
	if err := os.WriteFile(settingsPath, []byte("base_url: http://localhost:9000/api\n"), 0600); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir}

	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, svc, nil, &outBuf, &errBuf)

	expectCode(t, code, exitcode.Success)
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if svc.Authenticated() {
		t.Error("session should have been cleared")
	}
	if _, err := os.Stat(settingsPath); err != nil {
		t.Error("settings file should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, svc, nil, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

// TestLogoutCommand_NotLoggedInQuiet verifies logout is quiet when not logged in
func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SetLoggedIn(false)

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, svc, nil, true)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestLogoutCommand_WithoutService(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{Dir: tmpDir}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"a","refresh_token":"r"}`), 0600); err != nil {
		t.Fatalf("failed to write token: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	expectCode(t, code, exitcode.Success)
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q (stderr %q)", outBuf.String(), errBuf.String())
	}
	if cfg.HasToken() {
		t.Error("token file should have been removed")
	}

	outBuf.Reset()
	code = (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)
	expectCode(t, code, exitcode.Success)
	if outBuf.String() != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", outBuf.String())
	}
}

func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, stderr, code := runCommand(t, &commands.RegisterCmd{},
		svc, []string{"--username", "alice", "--password", "s3cret", "--email", "alice@example.com"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "registered alice (run: tasker login)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestRegisterCommand_MissingFields(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.RegisterCmd{}, svc, []string{"--username", "alice"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: required fields missing: password, email\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if len(svc.Calls) != 0 {
		t.Errorf("expected no backend calls, got %v", svc.Calls)
	}
}

func TestRegisterCommand_Rejected(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.RegisterErr = &service.ValidationError{Fields: []string{"email"}}

	_, stderr, code := runCommand(t, &commands.RegisterCmd{},
		svc, []string{"--username", "alice", "--password", "p", "--email", "nope"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: email required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
