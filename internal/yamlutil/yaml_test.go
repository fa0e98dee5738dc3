package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions), which callers never pass.
// - TestInputSizeLimit mutates MaxInputSize and does not run in parallel.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-leasepdf/internal/yamlutil"
)

type pageSettings struct {
	Size   string  `yaml:"size"`
	Margin float64 `yaml:"margin"`
	Strict bool    `yaml:"strict"`
}

func checkErr(t *testing.T, err, want error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if errors.Is(err, want) {
		return
	}
	if !strings.Contains(err.Error(), want.Error()) {
		t.Fatalf("error = %q, want containing %q", err, want)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Lenient decoding into structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{"valid", []byte("size: a4\nmargin: 20\nstrict: true"), &pageSettings{}, nil},
		{"unknown field tolerated", []byte("size: a5\nextra: 1"), &pageSettings{}, nil},
		{"nil data", nil, &pageSettings{}, yamlutil.ErrNilData},
		{"empty data", []byte{}, &pageSettings{}, yamlutil.ErrNilData},
		{"nil destination", []byte("size: a4"), nil, yamlutil.ErrNilDestination},
		{"syntax error", []byte("size: [unclosed"), &pageSettings{}, errors.New("yamlutil:")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				checkErr(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUnmarshal_Values(t *testing.T) {
	t.Parallel()

	var p pageSettings
	if err := yamlutil.Unmarshal([]byte("size: letter\nmargin: 12.5\nstrict: true"), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size != "letter" || p.Margin != 12.5 || !p.Strict {
		t.Errorf("decoded = %+v", p)
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{"known fields only", []byte("size: a4\nmargin: 20"), &pageSettings{}, nil},
		{"unknown field", []byte("size: a4\nmargn: 20"), &pageSettings{}, errors.New("yamlutil:")},
		{"nil data", nil, &pageSettings{}, yamlutil.ErrNilData},
		{"nil destination", []byte("size: a4"), nil, yamlutil.ErrNilDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				checkErr(t, err, tt.wantErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalMap - Loosely typed documents for contract records
// ---------------------------------------------------------------------------

func TestUnmarshalMap(t *testing.T) {
	t.Parallel()

	t.Run("nested record", func(t *testing.T) {
		t.Parallel()

		data := []byte(`id: HD-001
room:
  name: "P.101"
  area: 25.5
parties:
  - name: "Nguyễn Văn A"
  - name: "Trần Thị B"
`)
		m, err := yamlutil.UnmarshalMap(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m["id"] != "HD-001" {
			t.Errorf("id = %v, want HD-001", m["id"])
		}
		room, ok := m["room"].(map[string]any)
		if !ok {
			t.Fatalf("room = %T, want map[string]any", m["room"])
		}
		if room["name"] != "P.101" {
			t.Errorf("room.name = %v", room["name"])
		}
		parties, ok := m["parties"].([]any)
		if !ok || len(parties) != 2 {
			t.Fatalf("parties = %#v, want two entries", m["parties"])
		}
		if _, ok := parties[1].(map[string]any); !ok {
			t.Errorf("parties[1] = %T, want map[string]any", parties[1])
		}
	})

	t.Run("JSON is valid YAML", func(t *testing.T) {
		t.Parallel()

		m, err := yamlutil.UnmarshalMap([]byte(`{"contractId": "X", "tenants": [{"fullName": "B"}]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m["contractId"] != "X" {
			t.Errorf("contractId = %v", m["contractId"])
		}
	})

	t.Run("sequence root rejected", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalMap([]byte("- a\n- b\n"))
		if !errors.Is(err, yamlutil.ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		_, err := yamlutil.UnmarshalMap(nil)
		if !errors.Is(err, yamlutil.ErrNilData) {
			t.Errorf("error = %v, want ErrNilData", err)
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	data, err := yamlutil.Marshal(&pageSettings{Size: "a4", Margin: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, "size: a4") || !strings.Contains(s, "margin: 20") {
		t.Errorf("output = %q", s)
	}
}

// ---------------------------------------------------------------------------
// TestInputSizeLimit - MaxInputSize enforcement
// ---------------------------------------------------------------------------

func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })
	yamlutil.MaxInputSize = 100

	fill := func(n int) []byte {
		data := []byte(strings.Repeat(" ", n))
		copy(data, "size: x")
		return data
	}

	if err := yamlutil.Unmarshal(fill(100), &pageSettings{}); err != nil {
		t.Errorf("at limit: unexpected error: %v", err)
	}

	err := yamlutil.Unmarshal(fill(101), &pageSettings{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("over limit: error = %v, want ErrInputTooLarge", err)
	}
	if err != nil && !strings.Contains(err.Error(), "max 100") {
		t.Errorf("error should contain max size, got: %s", err)
	}

	if _, err := yamlutil.UnmarshalMap(fill(101)); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalMap over limit: error = %v, want ErrInputTooLarge", err)
	}
	if err := yamlutil.UnmarshalStrict(fill(101), &pageSettings{}); !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict over limit: error = %v, want ErrInputTooLarge", err)
	}
}
