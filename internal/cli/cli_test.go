package cli

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"websql/internal/errors"
	"websql/internal/plugin"
	"websql/internal/plugin/updater"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	pluginsVariant = "full"
	updEndpoint = ""
	updQuiet = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReporter(t *testing.T) {
	t.Run("SetStatus", func(t *testing.T) {
		r := NewReporter(&bytes.Buffer{}, false)
		r.SetStatus("test status")
		if r.status != "test status" {
			t.Errorf("expected 'test status', got %q", r.status)
		}
	})

	t.Run("SetProgress", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(&buf, false)
		r.SetStatus("Downloading 1.2.0")
		r.SetProgress(0.5, "2.00 MiB / 4.00 MiB")
		if r.progress != 0.5 {
			t.Errorf("expected progress 0.5, got %f", r.progress)
		}
		out := buf.String()
		if !strings.Contains(out, "2.00 MiB / 4.00 MiB | Downloading 1.2.0") {
			t.Errorf("unexpected progress line: %q", out)
		}
		if !strings.Contains(out, strings.Repeat("█", 15)) {
			t.Errorf("expected a half-filled bar: %q", out)
		}
	})

	t.Run("ShorterLineIsPadded", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(&buf, false)
		r.SetProgress(0.1, "a long progress description")
		first := r.lastLine
		r.SetProgress(0.2, "short")
		if r.lastLine != first {
			t.Errorf("expected padded line of %d bytes, got %d", first, r.lastLine)
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		r := NewReporter(&bytes.Buffer{}, false)
		if r.IsCancelled() {
			t.Error("should not be cancelled initially")
		}
		r.Cancel()
		if !r.IsCancelled() {
			t.Error("should be cancelled after Cancel()")
		}
	})

	t.Run("CancelOn", func(t *testing.T) {
		r := NewReporter(&bytes.Buffer{}, false)
		ctx, cancel := context.WithCancel(context.Background())
		r.CancelOn(ctx)
		if r.IsCancelled() {
			t.Fatal("should not be cancelled before the context is done")
		}
		cancel()
		deadline := time.Now().Add(time.Second)
		for !r.IsCancelled() && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if !r.IsCancelled() {
			t.Error("should be cancelled once the context is done")
		}
	})

	t.Run("CancelOn detached", func(t *testing.T) {
		r := NewReporter(&bytes.Buffer{}, false)
		ctx, cancel := context.WithCancel(context.Background())
		if !r.CancelOn(ctx)() {
			t.Fatal("stop should detach a pending cancellation")
		}
		cancel()
		time.Sleep(10 * time.Millisecond)
		if r.IsCancelled() {
			t.Error("a detached reporter must not be cancelled")
		}
	})

	t.Run("quiet mode suppresses output", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewReporter(&buf, true)
		r.SetStatus("test")
		r.SetProgress(0.5, "50%")
		r.Finish()
		if buf.Len() != 0 {
			t.Errorf("quiet mode should not produce output, got: %q", buf.String())
		}
	})
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want bool
	}{
		{"version", true},
		{"--version", true},
		{"logpath", true},
		{"plugins", true},
		{"update", true},
		{"help", true},
		{"-h", true},
		{"encrypt", false},
		{"--gpu", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsCommand(tt.arg); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		want    plugin.Set
		wantErr bool
	}{
		{"bare", plugin.VariantBare, false},
		{"Updater", plugin.VariantUpdater, false},
		{"full", plugin.VariantFull, false},
		{"", plugin.VariantFull, false},
		{"mobile", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariant(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLogpathCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	out, _, err := execute(t, "logpath")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, "websql-debug.log")
	if strings.TrimSpace(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestLogpathCommandNoHome(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("USERPROFILE", "")

	out, _, err := execute(t, "logpath")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "websql-debug.log" {
		t.Errorf("expected relative log path, got %q", out)
	}
}

func TestPluginsCommand(t *testing.T) {
	out, _, err := execute(t, "plugins")
	if err != nil {
		t.Fatal(err)
	}
	if out != "updater\nprocess\nfs\ndialog\n" {
		t.Errorf("unexpected plugin list: %q", out)
	}

	out, _, err = execute(t, "plugins", "--variant", "bare")
	if err != nil {
		t.Fatal(err)
	}
	if out != "none\n" {
		t.Errorf("expected none for bare variant, got %q", out)
	}

	if _, _, err := execute(t, "plugins", "--variant", "nope"); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.4.0"
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "websql 1.4.0 (") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestVersionFlag(t *testing.T) {
	// Test that version is set correctly
	Version = "v1.0.0"
	if rootCmd.Version != "v1.0.0" {
		// Version is set by Execute(), so we need to call the setter
		rootCmd.Version = Version
	}
	if rootCmd.Version != "v1.0.0" {
		t.Errorf("expected version v1.0.0, got %s", rootCmd.Version)
	}
}

// releaseServer serves a signed manifest for version and returns a
// constructor for updaters pointed at it.
func releaseServer(t *testing.T, version string, artifact []byte, exe string) func() (*updater.Updater, error) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/latest.json", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(updater.Manifest{
			Version: version,
			Notes:   "Faster diff of wide tables",
			Platforms: map[string]updater.Artifact{
				"linux-x86_64": {URL: srv.URL + "/websql.bin", Signature: updater.Sign(priv, artifact)},
			},
		})
	})
	mux.HandleFunc("/websql.bin", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(artifact)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return func() (*updater.Updater, error) {
		return updater.New(updater.Options{
			Endpoint:   srv.URL + "/latest.json",
			Current:    Version,
			PublicKey:  base64.StdEncoding.EncodeToString(pub),
			Platform:   "linux-x86_64",
			Executable: func() (string, error) { return exe, nil },
		})
	}
}

func stubUpdater(t *testing.T, fn func() (*updater.Updater, error)) {
	t.Helper()
	orig := newUpdater
	newUpdater = fn
	t.Cleanup(func() { newUpdater = orig })
}

func TestUpdateCheck(t *testing.T) {
	Version = "1.0.0"
	stubUpdater(t, releaseServer(t, "1.2.0", []byte("new"), ""))

	out, _, err := execute(t, "update", "check")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "websql 1.2.0 is available (current 1.0.0)") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "Faster diff of wide tables") {
		t.Errorf("expected release notes in %q", out)
	}
}

func TestUpdateCheckUpToDate(t *testing.T) {
	Version = "1.2.0"
	stubUpdater(t, releaseServer(t, "1.2.0", []byte("same"), ""))

	out, _, err := execute(t, "update", "check")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "websql 1.2.0 is up to date" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestUpdateCheckNoEndpoint(t *testing.T) {
	stubUpdater(t, func() (*updater.Updater, error) {
		return updater.New(updater.Options{Current: "1.0.0"})
	})

	_, _, err := execute(t, "update", "check")
	if !errors.Is(err, errors.ErrNoEndpoint) {
		t.Errorf("expected ErrNoEndpoint, got %v", err)
	}
}

func TestUpdateInstall(t *testing.T) {
	Version = "1.0.0"
	exe := filepath.Join(t.TempDir(), "websql")
	if err := os.WriteFile(exe, []byte("old build"), 0755); err != nil {
		t.Fatal(err)
	}
	stubUpdater(t, releaseServer(t, "1.2.0", []byte("new build"), exe))

	out, stderr, err := execute(t, "update", "install")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Installed websql 1.2.0 to "+exe) {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(stderr, "Verifying signature") {
		t.Errorf("expected progress on stderr, got %q", stderr)
	}

	data, err := os.ReadFile(exe)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new build" {
		t.Errorf("expected new binary, got %q", data)
	}
}
