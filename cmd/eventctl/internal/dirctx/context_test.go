package dirctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir temp: %v", err)
	}
	return tmp
}

func TestValidateValidContext(t *testing.T) {
	dc := &DirectoryContext{
		Version:     FileVersion,
		WorkspaceID: "0199039d-8b5e-7a2f-b7c4-1a2b3c4d5e6f",
		Host:        "acme.eventcore.io",
		ServerURL:   "http://localhost:4000",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := dc.Validate(); err != nil {
		t.Fatalf("expected valid context, got error: %v", err)
	}
}

func TestNewIsValid(t *testing.T) {
	if err := New("acme.eventcore.io", "").Validate(); err != nil {
		t.Fatalf("New() produced invalid context: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name string
		ctx  DirectoryContext
	}{
		{"wrong_version", DirectoryContext{Version: "999", WorkspaceID: "0199039d-8b5e-7a2f-b7c4-1a2b3c4d5e6f", Host: "x"}},
		{"missing_workspace", DirectoryContext{Version: FileVersion, Host: "x"}},
		{"bad_workspace", DirectoryContext{Version: FileVersion, WorkspaceID: "not-a-guid", Host: "x"}},
		{"missing_host", DirectoryContext{Version: FileVersion, WorkspaceID: "0199039d-8b5e-7a2f-b7c4-1a2b3c4d5e6f"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.ctx.Validate(); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestReadMissingReturnsNil(t *testing.T) {
	chdirTemp(t)
	ctx, err := Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx != nil {
		t.Fatalf("expected nil context when %s missing", FileName)
	}
}

func TestWriteAndRead_RoundTrip(t *testing.T) {
	tmp := chdirTemp(t)
	dc := New("acme.eventcore.io", "http://example")
	if err := Write(dc); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmp, FileName)); err != nil {
		t.Fatalf("%s not written: %v", FileName, err)
	}

	got, err := Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatalf("expected non-nil context")
	}
	if got.WorkspaceID != dc.WorkspaceID || got.Host != dc.Host || got.ServerURL != dc.ServerURL {
		t.Fatalf("mismatch after round trip: %+v vs %+v", got, dc)
	}

	if err := Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := Remove(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if got, _ := Read(); got != nil {
		t.Fatalf("expected nil context after remove")
	}
}

func TestWriteRejectsInvalid(t *testing.T) {
	chdirTemp(t)
	if err := Write(&DirectoryContext{Version: "bad"}); err == nil {
		t.Fatalf("expected error writing invalid context")
	}
}

func TestReadCorruptedJSON(t *testing.T) {
	chdirTemp(t)
	if err := os.WriteFile(FileName, []byte("{not-json}"), 0644); err != nil {
		t.Fatalf("write corrupt: %v", err)
	}
	if ctx, err := Read(); err == nil || ctx != nil {
		t.Fatalf("expected error and nil context for corrupt JSON")
	}
}

func TestResolveHost(t *testing.T) {
	dc := &DirectoryContext{Host: "ctx.eventcore.io", ServerURL: "http://ctx"}

	if got := ResolveHost("flag.eventcore.io", dc, "cfg.eventcore.io"); got != "flag.eventcore.io" {
		t.Fatalf("explicit should win, got %q", got)
	}
	if got := ResolveHost("", dc, "cfg.eventcore.io"); got != "ctx.eventcore.io" {
		t.Fatalf("context should be used, got %q", got)
	}
	if got := ResolveHost("", nil, "cfg.eventcore.io"); got != "cfg.eventcore.io" {
		t.Fatalf("fallback should be used, got %q", got)
	}
	if got := ResolveServerURL("", dc, "http://cfg"); got != "http://ctx" {
		t.Fatalf("context server should be used, got %q", got)
	}
	if got := ResolveServerURL("", &DirectoryContext{}, "http://cfg"); got != "http://cfg" {
		t.Fatalf("fallback server should be used, got %q", got)
	}
}
