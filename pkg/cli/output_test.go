package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutput(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		err := Output(map[string]any{"name": "test", "value": 123}, OutputOptions{
			Format: FormatJSON,
			Writer: &buf,
		})
		if err != nil {
			t.Fatalf("Output error: %v", err)
		}
		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if result["name"] != "test" {
			t.Errorf("name = %v", result["name"])
		}
	})

	t.Run("yaml is the default", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output(map[string]string{"key": "value"}, OutputOptions{Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if !strings.Contains(buf.String(), "key: value") {
			t.Errorf("default format should be YAML, got: %s", buf.String())
		}
	})

	t.Run("raw passes strings and bytes through", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Output([]byte("raw data"), OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if buf.String() != "raw data" {
			t.Errorf("output = %q", buf.String())
		}

		buf.Reset()
		// Non-string/bytes fall back to YAML.
		if err := Output(map[string]int{"count": 42}, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		if !strings.Contains(buf.String(), "count: 42") {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		if err := Output("data", OutputOptions{Format: "invalid", Writer: &bytes.Buffer{}}); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "output.json")
		if err := Output(map[string]string{"key": "value"}, OutputOptions{Format: FormatJSON, File: path}); err != nil {
			t.Fatalf("Output error: %v", err)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile error: %v", err)
		}
		var result map[string]string
		if err := json.Unmarshal(content, &result); err != nil || result["key"] != "value" {
			t.Errorf("file content = %s (%v)", content, err)
		}
	})
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript(3)
	tr.Add("one")
	tr.Write([]byte("two\nthree\nfour\n"))

	lines := tr.Lines()
	want := []string{"two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}
