package task

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseExportFormat(t *testing.T) {
	cases := map[string]ExportFormat{
		"json":   FormatJSON,
		" JSON ": FormatJSON,
		"yaml":   FormatYAML,
		"yml":    FormatYAML,
	}
	for input, want := range cases {
		got, err := ParseExportFormat(input)
		if err != nil || got != want {
			t.Errorf("%q: expected %q, got %q (%v)", input, want, got, err)
		}
	}
	if _, err := ParseExportFormat("csv"); err == nil {
		t.Error("expected csv to be rejected")
	}
}

func TestWriteSnapshot_JSON(t *testing.T) {
	env := seedQueryEnv(t)

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, env.engine.Snapshot(), FormatJSON); err != nil {
		t.Fatalf("write: %v", err)
	}

	var decoded map[string][]map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(decoded["active"]) != 2 || len(decoded["finished"]) != 1 || len(decoded["archived"]) != 1 {
		t.Fatalf("unexpected collection sizes: %s", buf.String())
	}
	if decoded["archived"][0]["title"] != "Call mom" {
		t.Fatalf("expected archived task in export, got %v", decoded["archived"][0])
	}
}

func TestWriteSnapshot_YAML(t *testing.T) {
	env := seedQueryEnv(t)

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, env.engine.Snapshot(), FormatYAML); err != nil {
		t.Fatalf("write: %v", err)
	}

	var decoded struct {
		Active []struct {
			ID    int    `yaml:"id"`
			Title string `yaml:"title"`
		} `yaml:"active"`
		Finished []struct {
			ID     int    `yaml:"id"`
			Status string `yaml:"status"`
		} `yaml:"finished"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(decoded.Active) != 2 || decoded.Active[0].Title != "Buy milk" {
		t.Fatalf("unexpected active tasks: %+v", decoded.Active)
	}
	if len(decoded.Finished) != 1 || decoded.Finished[0].Status != "done" {
		t.Fatalf("unexpected finished tasks: %+v", decoded.Finished)
	}
}

func TestWriteSnapshot_EmptyCollectionsAreLists(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, env.engine.Snapshot(), FormatJSON); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "null") {
		t.Fatalf("expected empty lists, got %s", buf.String())
	}
}
