package encoding

import (
	"encoding/json"
	"testing"
)

func TestBase64DataMarshal(t *testing.T) {
	tests := []struct {
		name string
		data Base64Data
		want string
	}{
		{"empty", Base64Data{}, `""`},
		{"hello", Base64Data("hello"), `"aGVsbG8="`},
		{"binary", Base64Data{0x00, 0xff, 0x10}, `"AP8Q"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.data)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBase64DataUnmarshal(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		var b Base64Data
		if err := json.Unmarshal([]byte(`"aGVsbG8="`), &b); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if string(b) != "hello" {
			t.Errorf("got %q", string(b))
		}
	})

	t.Run("null", func(t *testing.T) {
		var b Base64Data
		if err := json.Unmarshal([]byte(`null`), &b); err != nil {
			t.Fatalf("unmarshal null: %v", err)
		}
		if b != nil {
			t.Errorf("got %v, want nil", b)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		var b Base64Data
		if err := json.Unmarshal([]byte(`123`), &b); err == nil {
			t.Error("expected error for non-string data")
		}
	})

	t.Run("bad base64", func(t *testing.T) {
		var b Base64Data
		if err := json.Unmarshal([]byte(`"!!!"`), &b); err == nil {
			t.Error("expected error for invalid base64")
		}
	})
}
