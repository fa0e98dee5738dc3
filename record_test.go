package leasepdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestParseRecord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "JSON object",
			input: `{"contractId": "HD-1", "room": {"name": "P101"}, "parties": [{"name": "An"}]}`,
			want: map[string]any{
				"contractId": "HD-1",
				"room":       map[string]any{"name": "P101"},
				"parties":    []any{map[string]any{"name": "An"}},
			},
		},
		{
			name:  "JSON with BOM and whitespace",
			input: "\xef\xbb\xbf  \n{\"id\": \"HD-2\"}\n",
			want:  map[string]any{"id": "HD-2"},
		},
		{
			name:  "YAML mapping",
			input: "contract_id: HD-3\nroom:\n  name: P202\nparties:\n  - name: Bình\n",
			want: map[string]any{
				"contract_id": "HD-3",
				"room":        map[string]any{"name": "P202"},
				"parties":     []any{map[string]any{"name": "Bình"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRecord([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseRecord() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRecord() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecord_KeepsNumberPrecision(t *testing.T) {
	t.Parallel()

	got, err := ParseRecord([]byte(`{"price": 12345678901234567890}`))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	n, ok := got["price"].(json.Number)
	if !ok {
		t.Fatalf("price is %T, want json.Number", got["price"])
	}
	if n.String() != "12345678901234567890" {
		t.Errorf("price = %s", n)
	}
}

func TestParseRecord_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", " \n\t"},
		{"invalid UTF-8", "id: \xff\xfe"},
		{"broken JSON", `{"id": `},
		{"YAML sequence root", "- a\n- b\n"},
		{"YAML scalar root", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRecord([]byte(tt.input))
			if !errors.Is(err, ErrRecordParse) {
				t.Errorf("ParseRecord(%q) error = %v, want ErrRecordParse", tt.input, err)
			}
		})
	}
}

func TestDataURI(t *testing.T) {
	t.Parallel()

	uri := DataURI(testPNG(t))
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("DataURI() = %.40q..., want a PNG data URI", uri)
	}
}
