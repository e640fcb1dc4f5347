package adb

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner records invocations and replies from a script
type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.output, f.err
}

func (f *fakeRunner) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return strings.Join(f.calls[len(f.calls)-1], " ")
}

func TestConnectLocalSerialSkipsConnect(t *testing.T) {
	runner := &fakeRunner{}
	c := NewController("adb", "emulator-5554", runner)

	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("expected no adb calls, got %v", runner.calls)
	}
	if !c.IsConnected() {
		t.Error("controller should report connected")
	}
}

func TestConnectNetworkSerial(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		wantErr bool
	}{
		{"connected", "connected to 127.0.0.1:5555\n", nil, false},
		{"already connected", "already connected to 127.0.0.1:5555\n", nil, false},
		{"refused", "failed to connect to 127.0.0.1:5555\n", nil, true},
		{"adb error", "", errors.New("exit status 1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{output: []byte(tt.output), err: tt.err}
			c := NewController("adb", "127.0.0.1:5555", runner)

			err := c.Connect(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Connect() error = %v, wantErr %v", err, tt.wantErr)
			}
			if runner.last() != "adb connect 127.0.0.1:5555" {
				t.Errorf("unexpected command %q", runner.last())
			}
		})
	}
}

func TestInputCommands(t *testing.T) {
	runner := &fakeRunner{}
	c := NewController("adb", "emulator-5556", runner)
	ctx := context.Background()

	if err := c.Tap(ctx, 10, 20); err != nil {
		t.Fatal(err)
	}
	if got := runner.last(); got != "adb -s emulator-5556 shell input tap 10 20" {
		t.Errorf("Tap ran %q", got)
	}

	if err := c.Swipe(ctx, 1, 2, 3, 4, 300); err != nil {
		t.Fatal(err)
	}
	if got := runner.last(); got != "adb -s emulator-5556 shell input swipe 1 2 3 4 300" {
		t.Errorf("Swipe ran %q", got)
	}

	if err := c.StartApp(ctx, "com.xhtt.app.fzjh"); err != nil {
		t.Fatal(err)
	}
	if got := runner.last(); !strings.Contains(got, "monkey -p com.xhtt.app.fzjh") {
		t.Errorf("StartApp ran %q", got)
	}
}

func TestStartAppMissingPackage(t *testing.T) {
	runner := &fakeRunner{output: []byte("** No activities found to run, monkey aborted.")}
	c := NewController("adb", "emulator-5554", runner)

	if err := c.StartApp(context.Background(), "com.missing"); err == nil {
		t.Error("expected error when monkey finds no activity")
	}
}

func TestScreencap(t *testing.T) {
	png := append(append([]byte{}, pngSignature...), 0x00, 0x01)

	t.Run("raw", func(t *testing.T) {
		runner := &fakeRunner{output: png}
		c := NewController("adb", "emulator-5554", runner)

		data, err := c.Screencap(context.Background())
		if err != nil {
			t.Fatalf("Screencap() failed: %v", err)
		}
		if len(data) != len(png) {
			t.Errorf("got %d bytes, want %d", len(data), len(png))
		}
		if got := runner.last(); got != "adb -s emulator-5554 exec-out screencap -p" {
			t.Errorf("Screencap ran %q", got)
		}
	})

	t.Run("crlf translated", func(t *testing.T) {
		mangled := []byte("\x89PNG\r\r\n\x1a\r\n\x00\x01")
		runner := &fakeRunner{output: mangled}
		c := NewController("adb", "emulator-5554", runner)

		data, err := c.Screencap(context.Background())
		if err != nil {
			t.Fatalf("Screencap() failed: %v", err)
		}
		if string(data) != string(png) {
			t.Errorf("expected CRLF to be undone, got %q", data)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		runner := &fakeRunner{output: []byte("error: device offline")}
		c := NewController("adb", "emulator-5554", runner)

		if _, err := c.Screencap(context.Background()); err == nil {
			t.Error("expected error for non-PNG output")
		}
	})
}

func TestParseDevices(t *testing.T) {
	output := "List of devices attached\nemulator-5554\tdevice\n127.0.0.1:5557\toffline\nemulator-5556\tdevice\n\n"
	got := parseDevices(output)
	if len(got) != 2 || got[0] != "emulator-5554" || got[1] != "emulator-5556" {
		t.Errorf("parseDevices() = %v", got)
	}
}

func TestDisconnect(t *testing.T) {
	ctx := context.Background()

	t.Run("network serial", func(t *testing.T) {
		runner := &fakeRunner{output: []byte("connected to 127.0.0.1:5555")}
		c := NewController("adb", "127.0.0.1:5555", runner)
		if err := c.Connect(ctx); err != nil {
			t.Fatal(err)
		}
		if err := c.Disconnect(ctx); err != nil {
			t.Fatalf("Disconnect() failed: %v", err)
		}
		if got := runner.last(); got != "adb disconnect 127.0.0.1:5555" {
			t.Errorf("Disconnect ran %q", got)
		}
		if c.IsConnected() {
			t.Error("controller should report disconnected")
		}
	})

	t.Run("local serial", func(t *testing.T) {
		runner := &fakeRunner{}
		c := NewController("adb", "emulator-5554", runner)
		c.Connect(ctx)
		if err := c.Disconnect(ctx); err != nil {
			t.Fatal(err)
		}
		if len(runner.calls) != 0 {
			t.Errorf("expected no adb calls, got %v", runner.calls)
		}
	})
}

func TestIsAppRunning(t *testing.T) {
	ctx := context.Background()

	runner := &fakeRunner{output: []byte("4242\n")}
	c := NewController("adb", "emulator-5554", runner)
	if !c.IsAppRunning(ctx, "com.xhtt.app.fzjh") {
		t.Error("expected app to be running")
	}
	if got := runner.last(); got != "adb -s emulator-5554 shell pidof com.xhtt.app.fzjh" {
		t.Errorf("IsAppRunning ran %q", got)
	}

	runner = &fakeRunner{err: errors.New("exit status 1")}
	c = NewController("adb", "emulator-5554", runner)
	if c.IsAppRunning(ctx, "com.xhtt.app.fzjh") {
		t.Error("pidof failure should mean not running")
	}
}

func TestDevicesAndWindowSize(t *testing.T) {
	ctx := context.Background()

	runner := &fakeRunner{output: []byte("List of devices attached\nemulator-5554\tdevice\n")}
	c := NewController("adb", "emulator-5554", runner)
	serials, err := c.Devices(ctx)
	if err != nil || len(serials) != 1 || serials[0] != "emulator-5554" {
		t.Errorf("Devices() = %v, %v", serials, err)
	}
	if got := runner.last(); got != "adb devices" {
		t.Errorf("Devices ran %q", got)
	}

	runner = &fakeRunner{output: []byte("Physical size: 720x1280\n")}
	c = NewController("adb", "emulator-5554", runner)
	w, h, err := c.GetWindowSize(ctx)
	if err != nil || w != 720 || h != 1280 {
		t.Errorf("GetWindowSize() = %d, %d, %v", w, h, err)
	}
	if got := runner.last(); got != "adb -s emulator-5554 shell wm size" {
		t.Errorf("GetWindowSize ran %q", got)
	}
}

func TestParseWindowSize(t *testing.T) {
	tests := []struct {
		output string
		w, h   int
		ok     bool
	}{
		{"Physical size: 720x1280", 720, 1280, true},
		{"Physical size: 1080x1920\nOverride size: 720x1280", 720, 1280, true},
		{"unknown", 0, 0, false},
	}

	for _, tt := range tests {
		w, h, err := parseWindowSize(tt.output)
		if (err == nil) != tt.ok || w != tt.w || h != tt.h {
			t.Errorf("parseWindowSize(%q) = %d, %d, %v", tt.output, w, h, err)
		}
	}
}

func TestFindADBConfigured(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "adb-custom")
	if err := os.WriteFile(path, []byte{}, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindADB(path, "")
	if err != nil || got != path {
		t.Errorf("FindADB() = %s, %v", got, err)
	}

	if _, err := FindADB(filepath.Join(dir, "missing"), ""); err == nil {
		t.Error("expected error for missing configured adb")
	}
}

func TestFindADBInLDPlayerFolder(t *testing.T) {
	dir := t.TempDir()
	name := "adb"
	if filepath.Separator == '\\' {
		name = "adb.exe"
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindADB("", dir)
	if err != nil || got != path {
		t.Errorf("FindADB() = %s, %v", got, err)
	}
}
