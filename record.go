package leasepdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/alnah/go-leasepdf/internal/imgformat"
	"github.com/alnah/go-leasepdf/internal/yamlutil"
)

// ParseRecord decodes a contract record from JSON or YAML. The root must be
// an object. JSON numbers keep their full precision.
func ParseRecord(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrRecordParse)
	}
	if !utf8.Valid(trimmed) {
		return nil, fmt.Errorf("%w: input is not UTF-8", ErrRecordParse)
	}

	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecordParse, err)
		}
		return m, nil
	}

	m, err := yamlutil.UnmarshalMap(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordParse, err)
	}
	return m, nil
}

// DataURI encodes image bytes as a data URI usable as a signature or image
// reference. The media type is sniffed from the bytes.
func DataURI(image []byte) string {
	f := imgformat.Sniff(image, "")
	return "data:" + imgformat.MediaType(f) + ";base64," + base64.StdEncoding.EncodeToString(image)
}
