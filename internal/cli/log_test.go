package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestProgressLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel log.Level
		level    log.Level
		wantLog  bool
	}{
		{"info step at info", log.InfoLevel, log.InfoLevel, true},
		{"debug step at info", log.InfoLevel, log.DebugLevel, false},
		{"debug step at debug", log.DebugLevel, log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			prog := newProgress(newLogger(&buf, tt.logLevel), tt.level)
			prog.done("Rendered SVG", "item", "Torch")

			out := buf.String()
			if got := out != ""; got != tt.wantLog {
				t.Fatalf("logged = %v, want %v (output %q)", got, tt.wantLog, out)
			}
			if !tt.wantLog {
				return
			}
			for _, want := range []string{"Rendered SVG", "item=Torch", "elapsed="} {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestOpenAppLogsRecipeLoading(t *testing.T) {
	c, _ := testCLI(t)
	var buf bytes.Buffer
	c.Logger = newLogger(&buf, log.DebugLevel)

	a, err := c.openApp(context.Background(), appOptions{})
	if err != nil {
		t.Fatalf("openApp() error: %v", err)
	}
	defer a.Close()

	out := buf.String()
	for _, want := range []string{"recipes ready", "recipes=", "version=", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log %q missing %q", out, want)
		}
	}
}

func TestLoadConfigAppliesLogLevel(t *testing.T) {
	c, _ := testCLI(t)
	doc, err := os.ReadFile(c.ConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "craftwise.toml")
	doc = append(doc, []byte("\n[log]\nlevel = \"warn\"\n")...)
	if err := os.WriteFile(cfgPath, doc, 0o644); err != nil {
		t.Fatal(err)
	}
	c.ConfigPath = cfgPath

	if _, err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != log.WarnLevel {
		t.Errorf("level = %v, want warn from config", got)
	}

	c.SetLogLevel(LogDebug)
	if _, err := c.loadConfig(); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want --verbose debug to win over config", got)
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "whoami",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = loggerFromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs([]string{"whoami"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("subcommand context does not carry the CLI logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	l := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}
