package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kayz/personas/internal/hostinfo"
	"github.com/kayz/personas/internal/logger"
	"github.com/kayz/personas/internal/persona"
	"github.com/spf13/cobra"
)

const endToEndJSON = `{
    "personas_id": 3,
    "cpu": {
        "Percent": 50
    },
    "memory": 1024,
    "io": {
        "read_speed_max": 100,
        "write_speed_max": 50,
        "riops": 10,
        "wiops": 10
    },
    "isolated_fs": true,
    "device_access": false,
    "path_restriction": {
        "mode": "BlackList",
        "list": [
            "/etc"
        ]
    }
}
`

func endToEndInput() string {
	return strings.Join([]string{"3", "50", "1024", "100", "50", "10", "10", "yes", "no", "2", "/etc", ""}, "\n") + "\n"
}

func TestParseSetValues(t *testing.T) {
	tests := []struct {
		input   []string
		want    map[string]string
		wantErr string
	}{
		{input: nil, want: map[string]string{}},
		{input: []string{"memory=512", " cpu.percent = 20 "}, want: map[string]string{"memory": "512", "cpu.percent": "20"}},
		{input: []string{"path_restriction.list=/a,/b=c"}, want: map[string]string{"path_restriction.list": "/a,/b=c"}},
		{input: []string{"io.riops="}, want: map[string]string{"io.riops": ""}},
		{input: []string{"memory"}, wantErr: "expected key=value"},
		{input: []string{"=5"}, wantErr: "empty key"},
		{input: []string{"disk=5"}, wantErr: "unknown key"},
	}

	for _, tt := range tests {
		got, err := parseSetValues(tt.input)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("parseSetValues(%q) error = %v, want %q", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseSetValues(%q) returned error: %v", tt.input, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("parseSetValues(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Fatalf("parseSetValues(%q)[%q] = %q, want %q", tt.input, k, got[k], v)
			}
		}
	}
}

func TestCollectAndSaveEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	var out bytes.Buffer

	err := collectAndSave(context.Background(), strings.NewReader(endToEndInput()), &out, configureOptions{output: path})
	if err != nil {
		t.Fatalf("collectAndSave returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != endToEndJSON {
		t.Fatalf("unexpected output file:\n%s", data)
	}
	if !strings.HasSuffix(out.String(), "Configuration saved to "+path+".\n") {
		t.Fatalf("missing confirmation, got:\n%s", out.String())
	}
}

func TestCollectAndSaveOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"personas_id": 99, "stale": true}`), 0644); err != nil {
		t.Fatalf("seed output: %v", err)
	}

	if err := collectAndSave(context.Background(), strings.NewReader(endToEndInput()), io.Discard, configureOptions{output: path}); err != nil {
		t.Fatalf("collectAndSave returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != endToEndJSON {
		t.Fatalf("expected file to be replaced, got:\n%s", data)
	}
}

func TestCollectAndSaveClosedInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	err := collectAndSave(context.Background(), strings.NewReader("3\n"), io.Discard, configureOptions{output: path})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF error, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("no file should be written when input ends early")
	}
}

func TestCollectAndSaveWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "config.json")

	err := collectAndSave(context.Background(), strings.NewReader(endToEndInput()), io.Discard, configureOptions{output: path})
	if err == nil {
		t.Fatalf("expected write error")
	}
}

func TestCheckHostWarnsOnOversizedMemory(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stderr)

	prev := detectHost
	detectHost = func(context.Context) (hostinfo.Capacity, error) {
		return hostinfo.Capacity{MemoryMB: 512, LogicalCPUs: 2}, nil
	}
	defer func() { detectHost = prev }()

	checkHost(context.Background(), &persona.Config{Memory: 1024})
	if !strings.Contains(logs.String(), "memory limit 1024 MB exceeds host memory 512 MB") {
		t.Fatalf("expected memory warning, got:\n%s", logs.String())
	}

	logs.Reset()
	checkHost(context.Background(), &persona.Config{Memory: 256})
	if strings.Contains(logs.String(), "exceeds") {
		t.Fatalf("unexpected warning:\n%s", logs.String())
	}
}

func TestCheckHostDetectFailure(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stderr)

	prev := detectHost
	detectHost = func(context.Context) (hostinfo.Capacity, error) {
		return hostinfo.Capacity{}, errors.New("no procfs")
	}
	defer func() { detectHost = prev }()

	checkHost(context.Background(), &persona.Config{Memory: 1024})
	if !strings.Contains(logs.String(), "host check skipped: no procfs") {
		t.Fatalf("expected skip warning, got:\n%s", logs.String())
	}
}

func TestRootCommandNonInteractive(t *testing.T) {
	tmp := t.TempDir()
	settingsFile := filepath.Join(tmp, ".personas.yaml")
	if err := os.WriteFile(settingsFile, []byte("io_blank_unlimited: true\n"), 0644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	path := filepath.Join(tmp, "web.json")

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"--config", settingsFile,
		"-o", path,
		"--non-interactive",
		"--set", "personas_id=0",
		"--set", "cpu.percent=1",
		"--set", "memory=64",
		"--set", "io.read_speed_max=",
		"--set", "io.write_speed_max=",
		"--set", "io.riops=",
		"--set", "io.wiops=5",
		"--set", "isolated_fs=Yes",
		"--set", "device_access=no",
		"--set", "path_restriction.mode=1",
		"--set", "path_restriction.list=/srv/app,/tmp",
	})
	defer func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{
		`"personas_id": 0`,
		`"Percent": 1`,
		`"read_speed_max": null`,
		`"wiops": 5`,
		`"isolated_fs": true`,
		`"mode": "WhiteList"`,
		`"/srv/app"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("output missing %s:\n%s", want, data)
		}
	}
	if !strings.Contains(out.String(), "Configuration saved to "+path+".") {
		t.Fatalf("missing confirmation, got:\n%s", out.String())
	}
}

func TestCollectAndSaveLogsOutputPath(t *testing.T) {
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	defer logger.SetOutput(os.Stderr)

	level, err := logger.ParseLevel("info")
	if err != nil {
		t.Fatalf("parse level: %v", err)
	}
	prev := logger.GetLevel()
	logger.SetLevel(level)
	defer logger.SetLevel(prev)

	path := filepath.Join(t.TempDir(), "config.json")
	if err := collectAndSave(context.Background(), strings.NewReader(endToEndInput()), io.Discard, configureOptions{output: path}); err != nil {
		t.Fatalf("collectAndSave returned error: %v", err)
	}
	if !strings.Contains(logs.String(), "INFO") || !strings.Contains(logs.String(), "persona 3 written to "+path) {
		t.Fatalf("expected info log with output path, got:\n%s", logs.String())
	}
}

func TestSetFlagDescribesListSeparator(t *testing.T) {
	for _, c := range []*cobra.Command{rootCmd, configureCmd} {
		usage := c.Flags().Lookup("set").Usage
		if !strings.Contains(usage, "path_restriction.list is comma-separated") {
			t.Fatalf("%s --set usage does not describe the list separator: %q", c.Name(), usage)
		}
	}
}
