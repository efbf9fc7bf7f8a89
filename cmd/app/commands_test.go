package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/classlog/internal"
	"github.com/starford/classlog/internal/display"
	"github.com/starford/classlog/internal/report"
	"github.com/starford/classlog/internal/testutil"
)

func testRuntime(t *testing.T, files map[string]string) *internal.Runtime {
	t.Helper()
	root, _ := testutil.Files(t, files)
	cfg := internal.NewDefaultConfig()
	cfg.Sessions.Path = root
	cfg.Output.Path = t.TempDir()
	rt, err := internal.Open(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rt.Close() })
	return rt
}

func TestWriteSheetsSkipsBrokenSession(t *testing.T) {
	rt := testRuntime(t, testutil.Merge(
		testutil.ClassSession("2024-01-09"),
		map[string]string{"2024-01-10/markers": "xx:10\tHello\n"},
	))

	sheets, err := rt.Service.Sheets(context.Background())
	if err == nil {
		t.Fatal("expected an error for the malformed session")
	}

	var buf bytes.Buffer
	if err := writeSheets(rt.Output, display.New(&buf, false), sheets, false); err != nil {
		t.Fatalf("writeSheets: %v", err)
	}
	if !strings.Contains(buf.String(), "CL #01 2024-01-09") {
		t.Errorf("output = %q", buf.String())
	}

	data, err := rt.Output.Read(sheetsFile)
	if err != nil {
		t.Fatal(err)
	}
	var written []report.Worksheet
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatal(err)
	}
	if len(written) != 1 || written[0].Title != "CL #01 2024-01-09" {
		t.Errorf("written = %+v", written)
	}

	// A second run with unchanged markers writes nothing new.
	buf.Reset()
	if err := writeSheets(rt.Output, display.New(&buf, false), sheets, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "all sheets up to date") {
		t.Errorf("second run output = %q", buf.String())
	}
}
