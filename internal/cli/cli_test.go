package cli

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the prayer-times binary to a temp directory for testing.
func buildBinary(t *testing.T, ldflags string) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "prayer-times")

	args := []string{"build"}
	if ldflags != "" {
		args = append(args, "-ldflags", ldflags)
	}
	args = append(args, "-o", binPath, "../../cmd/prayer-times")

	cmd := exec.Command("go", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, out)
	}
	return binPath
}

// isolatedEnv points config and cache at fresh directories.
func isolatedEnv(t *testing.T) []string {
	t.Helper()
	return append(os.Environ(),
		"XDG_CONFIG_HOME="+t.TempDir(),
		"XDG_CACHE_HOME="+t.TempDir(),
	)
}

// TestVersionFlag verifies that --version prints the version string.
func TestVersionFlag(t *testing.T) {
	binPath := buildBinary(t, "-X main.version=v1.2.3-test")

	out, err := exec.Command(binPath, "--version").Output()
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}

	got := strings.TrimSpace(string(out))
	want := "prayer-times version v1.2.3-test"
	if got != want {
		t.Errorf("--version = %q, want %q", got, want)
	}
}

// TestVersionFlag_Dev verifies the default "dev" version when no ldflags.
func TestVersionFlag_Dev(t *testing.T) {
	binPath := buildBinary(t, "")

	out, err := exec.Command(binPath, "--version").Output()
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}

	got := strings.TrimSpace(string(out))
	if !strings.HasPrefix(got, "prayer-times version ") {
		t.Errorf("--version output unexpected: %q", got)
	}
}

// TestHelpFlag verifies that --help shows the expected subcommands.
func TestHelpFlag(t *testing.T) {
	binPath := buildBinary(t, "")

	out, err := exec.Command(binPath, "--help").Output()
	if err != nil {
		t.Fatalf("--help failed: %v", err)
	}

	output := string(out)

	expectedSubcommands := []string{
		"today",
		"next",
		"list",
		"week",
		"month",
		"query",
		"hijri",
		"qibla",
		"moon",
		"events",
		"compare",
		"config",
		"methods",
	}
	for _, sub := range expectedSubcommands {
		if !strings.Contains(output, sub) {
			t.Errorf("--help output missing subcommand %q", sub)
		}
	}
}

// TestOfflineSubcommands verifies commands that need no network succeed
// when the location is given explicitly.
func TestOfflineSubcommands(t *testing.T) {
	binPath := buildBinary(t, "")
	loc := []string{"--latitude", "21.4225", "--longitude", "39.8262", "--timezone", "Asia/Riyadh"}

	cmds := [][]string{
		{"today"},
		{"next"},
		{"list", "3"},
		{"week"},
		{"month"},
		{"query", "fajr"},
		{"hijri"},
		{"qibla"},
		{"moon"},
		{"events"},
		{"methods"},
		{"config"},
		{"config", "path"},
	}

	for _, args := range cmds {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			cmd := exec.Command(binPath, append(args, loc...)...)
			cmd.Env = isolatedEnv(t)
			if out, err := cmd.CombinedOutput(); err != nil {
				t.Errorf("command %v failed: %v\n%s", args, err, out)
			}
		})
	}
}

// TestInvalidFlag_ExitCode verifies that a rejected flag exits with status 1
// and an "error:" prefix.
func TestInvalidFlag_ExitCode(t *testing.T) {
	binPath := buildBinary(t, "")

	cmd := exec.Command(binPath, "--latitude", "95", "--longitude", "0")
	cmd.Env = isolatedEnv(t)
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "error: --latitude") {
		t.Errorf("output = %q, want an error naming --latitude", out)
	}
}
