package logger

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	kit "campaigntracker/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "debug"},
		{"   nonsense   ", "debug"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestInit_Get_Named_C(t *testing.T) {
	var buf bytes.Buffer

	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "tracker",
		Component:    "root",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// re-sample to N=1 so every line emits
	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	rp := &rv
	rp.Info().Str("k", "v").Msg("root-msg")

	nv := Named("intake").Sample(&zerolog.BasicSampler{N: 1})
	np := &nv
	np.Info().Msg("named-msg")

	ctx := WithRun(WithMessage(WithRequest(context.Background(), "req-123"), "msg-9"), "run-1")
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	cp := &cv
	cp.Info().Msg("ctx-msg")

	bgv := C(context.Background()).Sample(&zerolog.BasicSampler{N: 1})
	bgp := &bgv
	bgp.Info().Msg("ctx-empty")

	out := buf.String()
	kit.MustContain(t, out,
		"root-msg", "named-msg", "intake", "req-123", "msg-9", "run-1",
		"message_id=", "build=", "tracker",
	)
}

func TestFromEnv_Independently(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "tracker-worker")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")
	t.Setenv("LOG_FILE", "/var/log/tracker.log")
	t.Setenv("LOG_FILE_MAX_MB", "20")
	t.Setenv("LOG_FILE_COMPRESS", "false")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "tracker-worker" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
	if opt.File.Path != "/var/log/tracker.log" || opt.File.MaxSizeMB != 20 || opt.File.Compress {
		t.Fatalf("FromEnv file mismatch: %+v", opt.File)
	}
	if opt.File.MaxBackups != 5 || opt.File.MaxAgeDays != 14 {
		t.Fatalf("FromEnv file defaults mismatch: %+v", opt.File)
	}
}

func TestFileWriter(t *testing.T) {
	if fileWriter(FileOptions{Path: "  "}) != nil {
		t.Fatalf("blank path should disable file output")
	}
	p := filepath.Join(t.TempDir(), "app.log")
	fw := fileWriter(FileOptions{Path: p, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 3})
	if fw == nil || fw.Filename != p || fw.MaxSize != 1 || fw.MaxBackups != 2 || fw.MaxAge != 3 {
		t.Fatalf("fileWriter mismatch: %+v", fw)
	}
	if _, err := fw.Write([]byte("{\"level\":\"info\"}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestWithValue_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	if WithMessage(ctx, "") != ctx {
		t.Fatalf("empty message id should leave ctx untouched")
	}
}
