package jsontime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
)

func TestDurationJSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		b, err := json.Marshal(Duration(1500 * time.Millisecond))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(b) != `"1.5s"` {
			t.Errorf("got %s", b)
		}
	})

	t.Run("unmarshal string", func(t *testing.T) {
		var d Duration
		if err := json.Unmarshal([]byte(`"500ms"`), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if d.Duration() != 500*time.Millisecond {
			t.Errorf("got %v", d)
		}
	})

	t.Run("unmarshal int", func(t *testing.T) {
		var d Duration
		if err := json.Unmarshal([]byte(`1000000`), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if d.Duration() != time.Millisecond {
			t.Errorf("got %v", d)
		}
	})

	t.Run("unmarshal null", func(t *testing.T) {
		d := Duration(time.Second)
		if err := json.Unmarshal([]byte(`null`), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if d.Duration() != time.Second {
			t.Errorf("null should not modify value, got %v", d)
		}
	})
}

func TestDurationYAML(t *testing.T) {
	type cfg struct {
		Interval Duration `yaml:"interval"`
	}

	t.Run("unmarshal", func(t *testing.T) {
		var c cfg
		if err := yaml.Unmarshal([]byte("interval: 500ms\n"), &c); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if c.Interval.Duration() != 500*time.Millisecond {
			t.Errorf("got %v", c.Interval)
		}
	})

	t.Run("roundtrip", func(t *testing.T) {
		c := cfg{Interval: Duration(2 * time.Second)}
		b, err := yaml.Marshal(c)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var got cfg
		if err := yaml.Unmarshal(b, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Interval != c.Interval {
			t.Errorf("got %v, want %v", got.Interval, c.Interval)
		}
	})
}

func TestFromDuration(t *testing.T) {
	d := FromDuration(time.Minute)
	if d.Duration() != time.Minute {
		t.Errorf("got %v", d)
	}
	var nilD *Duration
	if nilD.Duration() != 0 {
		t.Error("nil should return 0")
	}
}
