package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/chime/internal/notify/spin"
	"github.com/dshills/chime/internal/renderer/core"
	"github.com/dshills/chime/internal/renderer/layout"
)

func TestParseEmptyYieldsDefaults(t *testing.T) {
	cfg, err := Parse("test", []byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cfg.Render.StackUpwards {
		t.Error("expected stack_upwards to default to true")
	}
	if cfg.Render.LineMargin != 1 {
		t.Errorf("expected line margin 1, got %d", cfg.Render.LineMargin)
	}
	if cfg.Render.GroupSeparator != "---" {
		t.Errorf("expected default group separator, got %q", cfg.Render.GroupSeparator)
	}
	if cfg.Model.DefaultTTL != 5*time.Second {
		t.Errorf("expected default TTL 5s, got %v", cfg.Model.DefaultTTL)
	}
	if cfg.HistorySize != 0 {
		t.Errorf("expected zero history size to delegate, got %d", cfg.HistorySize)
	}
}

func TestParseRenderSection(t *testing.T) {
	doc := `
[render]
stack_upwards = false
line_margin = 2
align = "annote"
icon_separator = ""
group_separator = "==="
separator_style = "@border"
highlight = "lua"
hide_conceal = true
default_style = "title"
render_message = "format_message"
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := cfg.Render
	if r.StackUpwards {
		t.Error("expected stack_upwards false")
	}
	if r.LineMargin != 2 {
		t.Errorf("expected line margin 2, got %d", r.LineMargin)
	}
	if r.Align != layout.AlignAnnote {
		t.Errorf("expected annote alignment, got %v", r.Align)
	}
	if r.IconSeparator != "" {
		t.Errorf("expected empty icon separator, got %q", r.IconSeparator)
	}
	if r.GroupSeparator != "===" {
		t.Errorf("expected === separator, got %q", r.GroupSeparator)
	}
	if r.SeparatorStyle != "@border" {
		t.Errorf("expected @border, got %q", r.SeparatorStyle)
	}
	if r.Highlight != "lua" || !r.HideConceal || r.DefaultStyle != "title" {
		t.Errorf("unexpected render options: %+v", r)
	}
	if cfg.RenderMessage != "format_message" {
		t.Errorf("expected hook name, got %q", cfg.RenderMessage)
	}
}

func TestParseRejectsNewlineGroupSeparator(t *testing.T) {
	_, err := Parse("test", []byte("[render]\ngroup_separator = \"a\\nb\"\n"))
	if err == nil {
		t.Fatal("expected error for newline in group separator")
	}
}

func TestParseRejectsNewlineAnnoteSeparator(t *testing.T) {
	_, err := Parse("test", []byte("[groups.build]\nannote_separator = \"x\\ny\"\n"))
	if err == nil {
		t.Fatal("expected error for newline in annote separator")
	}
	if !strings.Contains(err.Error(), `group "build"`) {
		t.Errorf("expected the error to name the group, got %q", err)
	}
}

func TestParseRejectsUnknownAlign(t *testing.T) {
	_, err := Parse("test", []byte("[render]\nalign = \"sideways\"\n"))
	if err == nil {
		t.Fatal("expected error for unknown align mode")
	}
}

func TestParseGroups(t *testing.T) {
	doc := `
[groups.build]
name = "Build"
icon = "B"
style = "normal"
icon_style = "title"
icon_on_left = true
annote_separator = " | "
render_limit = 3
ttl = "30s"

[groups.lsp]
ttl = "never"
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	b, ok := cfg.Groups["build"]
	if !ok {
		t.Fatal("expected group build")
	}
	if got := b.Name.Resolve(time.Time{}, nil); got != "Build" {
		t.Errorf("expected name Build, got %q", got)
	}
	if got := b.Icon.Resolve(time.Time{}, nil); got != "B" {
		t.Errorf("expected icon B, got %q", got)
	}
	if b.Style != "normal" || b.IconStyle != "title" || !b.IconOnLeft {
		t.Errorf("unexpected styling: %+v", b)
	}
	if b.AnnoteSep != " | " {
		t.Errorf("expected annote separator, got %q", b.AnnoteSep)
	}
	if b.RenderLimit != 3 {
		t.Errorf("expected render limit 3, got %d", b.RenderLimit)
	}
	if b.TTL != 30*time.Second {
		t.Errorf("expected 30s TTL, got %v", b.TTL)
	}

	l, ok := cfg.Groups["lsp"]
	if !ok {
		t.Fatal("expected group lsp")
	}
	if got := l.Name.Resolve(time.Time{}, nil); got != "lsp" {
		t.Errorf("expected name to fall back to the key, got %q", got)
	}
	if l.TTL >= 0 {
		t.Errorf("expected never to disable expiry, got %v", l.TTL)
	}
}

func TestParseSpinnerIcon(t *testing.T) {
	doc := `
[groups.job]
spinner = "line"
spinner_period = "250ms"
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sp, ok := cfg.Groups["job"].Icon.(*spin.Spinner)
	if !ok {
		t.Fatalf("expected spinner icon, got %T", cfg.Groups["job"].Icon)
	}
	if sp.Period != 250*time.Millisecond {
		t.Errorf("expected 250ms period, got %v", sp.Period)
	}
	if len(sp.Frames) == 0 {
		t.Error("expected spinner frames")
	}
}

func TestParseUnknownSpinner(t *testing.T) {
	_, err := Parse("test", []byte("[groups.job]\nspinner = \"warp\"\n"))
	if err == nil {
		t.Fatal("expected error for unknown spinner pattern")
	}
	if !strings.Contains(err.Error(), "unknown spinner pattern") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseStyles(t *testing.T) {
	doc := `
[styles.error]
fg = "#ff0000"
bold = true

[styles.faded]
dim = true
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	red, err := core.ColorFromHex("#ff0000")
	if err != nil {
		t.Fatalf("ColorFromHex: %v", err)
	}
	want := core.DefaultStyle().WithForeground(red).Bold()
	if got := cfg.Styles["error"]; !got.Equals(want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got := cfg.Styles["faded"]; !got.Equals(core.DefaultStyle().Dim()) {
		t.Errorf("unexpected faded style: %+v", got)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse("test", []byte("[styles.error]\nfg = \"#zzz\"\n"))
	if err == nil {
		t.Fatal("expected error for malformed color")
	}
	if !strings.Contains(err.Error(), `style "error"`) {
		t.Errorf("expected the error to name the style, got %q", err)
	}
}

func TestParseModelPollHistory(t *testing.T) {
	doc := `
[model]
default_ttl = "10s"

[poll]
period = "50ms"

[history]
size = 64
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Model.DefaultTTL != 10*time.Second {
		t.Errorf("expected 10s TTL, got %v", cfg.Model.DefaultTTL)
	}
	if cfg.PollPeriod != 50*time.Millisecond {
		t.Errorf("expected 50ms poll period, got %v", cfg.PollPeriod)
	}
	if cfg.HistorySize != 64 {
		t.Errorf("expected history size 64, got %d", cfg.HistorySize)
	}
}

func TestParseNeverTTL(t *testing.T) {
	cfg, err := Parse("test", []byte("[model]\ndefault_ttl = \"never\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Model.DefaultTTL >= 0 {
		t.Errorf("expected negative TTL, got %v", cfg.Model.DefaultTTL)
	}
}

func TestParseScriptSection(t *testing.T) {
	doc := `
[script]
path = "hooks.lua"
inline = "function f() end"
`
	cfg, err := Parse("test", []byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Script.Path != "hooks.lua" || cfg.Script.Inline != "function f() end" {
		t.Errorf("unexpected script section: %+v", cfg.Script)
	}
}

func TestParseInvalidTOML(t *testing.T) {
	_, err := Parse("broken.toml", []byte("= not toml"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if pe.Path != "broken.toml" {
		t.Errorf("expected path in error, got %q", pe.Path)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Render.StackUpwards || cfg.Render.LineMargin != 1 {
		t.Errorf("expected defaults, got %+v", cfg.Render)
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.toml")
	if err := os.WriteFile(path, []byte("[render]\nline_margin = 3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.LineMargin != 3 {
		t.Errorf("expected line margin 3, got %d", cfg.Render.LineMargin)
	}
}
