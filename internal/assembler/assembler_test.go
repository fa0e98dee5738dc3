package assembler

// Notes:
// - Placement text is sanitized (diacritics removed), so assertions on
//   document content search for ASCII forms such as "Ho va ten".
// - Image resolution uses an in-memory Source; the network chain is covered
//   by the fetch package.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/fetch"
	"github.com/alnah/go-leasepdf/internal/imgformat"
	"github.com/alnah/go-leasepdf/internal/layout"
)

type fakeSource struct {
	mu     sync.Mutex
	images map[string][]byte
	calls  map[string]int
}

func newFakeSource(images map[string][]byte) *fakeSource {
	return &fakeSource{images: images, calls: make(map[string]int)}
}

func (f *fakeSource) Resolve(_ context.Context, ref string) (*fetch.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[ref]++
	data, ok := f.images[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", fetch.ErrExhausted, ref)
	}
	return &fetch.Asset{Data: data, Format: imgformat.PNG, Source: ref, Strategy: fetch.StrategyInline}, nil
}

func (f *fakeSource) count(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[ref]
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, color.RGBA{R: 20, G: 20, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func standardClauses(t *testing.T) *assets.ClauseSet {
	t.Helper()
	cs, err := assets.LoadClauseSet(assets.DefaultClauseSetName)
	if err != nil {
		t.Fatalf("LoadClauseSet() error = %v", err)
	}
	return cs
}

func lessorOnlyRecord() map[string]any {
	return map[string]any{
		"contractId": "HD-2024-001",
		"parties": []any{
			map[string]any{
				"name":    "Nguyễn Văn An",
				"cccd":    "001088001234",
				"phone":   "0901234567",
				"address": "12 Lê Lợi, Quận 1",
			},
		},
		"room": map[string]any{
			"name":    "Phòng 101",
			"address": "34 Nguyễn Trãi, Hà Nội",
			"area":    25,
			"price":   3500000,
		},
		"startDate": "2024-01-01",
		"endDate":   "2024-06-30",
		"deposit":   3500000,
		"createdAt": "2023-12-20",
	}
}

func assemble(t *testing.T, in Input, src fetch.Source) *Output {
	t.Helper()
	out, err := Assemble(context.Background(), in, Deps{
		Clauses: standardClauses(t),
		Images:  src,
		Now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return out
}

// between returns the placements after the first one containing from and
// before the next one containing to.
func between(ps []layout.Placement, from, to string) []layout.Placement {
	start := -1
	for i, p := range ps {
		if start < 0 && strings.Contains(p.Text, from) {
			start = i
			continue
		}
		if start >= 0 && strings.Contains(p.Text, to) {
			return ps[start+1 : i]
		}
	}
	return nil
}

func containsText(ps []layout.Placement, kind layout.Kind, s string) bool {
	for _, p := range ps {
		if p.Kind == kind && strings.Contains(p.Text, s) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// End-to-end scenario
// ---------------------------------------------------------------------------

func TestAssemble_LessorOnlyContract(t *testing.T) {
	t.Parallel()

	out := assemble(t, Input{Record: lessorOnlyRecord()}, nil)

	if !bytes.HasPrefix(out.PDF, []byte("%PDF-")) {
		t.Fatal("output is not a PDF")
	}
	if out.Pages < 2 {
		t.Errorf("Pages = %d, want a multi-page document", out.Pages)
	}
	if len(out.Missing) != 0 {
		t.Errorf("Missing = %v, want none for a record without images", out.Missing)
	}

	t.Run("lessee rendered with placeholder", func(t *testing.T) {
		lessee := between(out.Placements, "BEN THUE (BEN B)", "Sau khi ban bac")
		if !containsText(lessee, layout.KindText, "Ho va ten: [Chua cap nhat]") {
			t.Errorf("lessee block does not show the placeholder name: %+v", lessee)
		}
		if !containsText(lessee, layout.KindText, "Dien thoai: [Chua cap nhat]") {
			t.Error("lessee block does not show the placeholder phone")
		}
		if !containsText(out.Placements, layout.KindTableRow, "Ben thue | [Chua cap nhat]") {
			t.Error("summary table does not show the placeholder lessee")
		}
	})

	t.Run("utilities article has six clauses and no meter readings", func(t *testing.T) {
		article := between(out.Placements, "DIEU 4.", "DIEU 5.")
		var clauses []string
		for _, p := range article {
			if p.Kind == layout.KindTableRow {
				t.Errorf("unexpected table row in utilities article: %q", p.Text)
			}
			if p.Kind == layout.KindText {
				clauses = append(clauses, p.Text)
			}
		}
		if len(clauses) != 6 {
			t.Fatalf("utilities article has %d clauses, want 6: %q", len(clauses), clauses)
		}
		for i, c := range clauses {
			if !strings.HasPrefix(c, fmt.Sprintf("%d. ", i+1)) {
				t.Errorf("clause %d = %q, want numbered %d", i, c, i+1)
			}
		}
		if containsText(article, layout.KindText, "Chi so cong to") {
			t.Error("meter-reading subsection rendered without readings")
		}
	})

	t.Run("summary shows five months", func(t *testing.T) {
		if !containsText(out.Placements, layout.KindTableRow, "Thoi han | 5 thang (~150 ngay)") {
			t.Error("summary table does not show \"5 thang (~150 ngay)\"")
		}
	})

	t.Run("co-occupant wording omitted", func(t *testing.T) {
		if containsText(out.Placements, layout.KindHeading, "NGUOI O CUNG") {
			t.Error("co-occupant list rendered without co-occupants")
		}
		if containsText(out.Placements, layout.KindText, "nguoi o cung co ten") {
			t.Error("co-occupant clause rendered without co-occupants")
		}
	})
}

func TestAssemble_Trace(t *testing.T) {
	t.Parallel()

	rec := lessorOnlyRecord()
	rec["documents"] = []any{"doc-1"}
	out := assemble(t, Input{Record: rec, LessorSignature: "sig-a"}, newFakeSource(nil))

	if out.Trace[0] != StateStart || out.Trace[1] != StateReconciling {
		t.Fatalf("Trace starts with %v, want [start reconciling]", out.Trace[:2])
	}
	if last := out.Trace[len(out.Trace)-1]; last != StateFinalized {
		t.Errorf("Trace ends with %q, want %q", last, StateFinalized)
	}

	var sections []string
	for _, s := range out.Trace {
		if strings.HasPrefix(s, StateAssembling+":") {
			sections = append(sections, s[strings.LastIndexByte(s, ':')+1:])
		}
	}
	if diff := cmp.Diff(Sections, sections); diff != "" {
		t.Errorf("sections visited (-want +got):\n%s", diff)
	}

	// Image resolution nests right after the section that needs it.
	for i, s := range out.Trace {
		if !strings.HasPrefix(s, StateImageResolution+":") {
			continue
		}
		group := strings.TrimPrefix(s, StateImageResolution+":")
		if !strings.HasSuffix(out.Trace[i-1], ":"+group) {
			t.Errorf("%q follows %q, want its own section", s, out.Trace[i-1])
		}
	}
}

// ---------------------------------------------------------------------------
// Images
// ---------------------------------------------------------------------------

func TestAssemble_ImageDegradation(t *testing.T) {
	t.Parallel()

	pic := testPNG(t)
	src := newFakeSource(map[string][]byte{
		"sig-lessor": pic,
		"front-0":    pic,
		"doc-ok":     pic,
		"corrupt":    []byte("\x89PNG\r\n\x1a\nnot really"),
	})

	rec := lessorOnlyRecord()
	rec["parties"] = []any{
		map[string]any{"name": "Nguyễn Văn An", "idCardFront": "front-0", "idCardBack": "back-0"},
		map[string]any{"name": "Trần Thị Bình"},
	}
	rec["documents"] = []any{"doc-ok", "doc-missing", "corrupt"}

	out := assemble(t, Input{
		Record:          rec,
		LessorSignature: "sig-lessor",
		LesseeSignature: "sig-lessee",
	}, src)

	want := []string{"signature:lessee", "id-card:0:back", "document:2", "document:3"}
	if diff := cmp.Diff(want, out.Missing); diff != "" {
		t.Errorf("Missing (-want +got):\n%s", diff)
	}
	if !containsText(out.Placements, layout.KindImageRow, "Khong tai duoc hinh anh") {
		t.Error("failed signature slot is not labelled")
	}
	if !containsText(out.Placements, layout.KindLabel, "Khong tai duoc hinh anh") {
		t.Error("failed document is not labelled")
	}
	if !containsText(out.Placements, layout.KindImage, "Tai lieu 1/3") {
		t.Error("resolved document image not placed")
	}
	if !containsText(out.Placements, layout.KindText, "Phu luc 01: Ban chup giay to tuy than") {
		t.Error("appendices do not list the identity documents")
	}
}

func TestAssemble_ExplicitSignatureWins(t *testing.T) {
	t.Parallel()

	src := newFakeSource(map[string][]byte{"explicit": testPNG(t)})
	rec := lessorOnlyRecord()
	rec["lessorSignature"] = "embedded"

	out := assemble(t, Input{Record: rec, LessorSignature: "explicit"}, src)

	if got := out.Contract.LessorSignature.Image; got != "explicit" {
		t.Errorf("LessorSignature.Image = %q, want %q", got, "explicit")
	}
	if src.count("embedded") != 0 {
		t.Error("embedded signature was resolved despite an explicit one")
	}

	// An empty explicit argument keeps the embedded reference.
	out = assemble(t, Input{Record: rec}, src)
	if got := out.Contract.LessorSignature.Image; got != "embedded" {
		t.Errorf("LessorSignature.Image = %q, want %q", got, "embedded")
	}
}

func TestAssemble_SharedReferenceResolvedOnce(t *testing.T) {
	t.Parallel()

	src := newFakeSource(map[string][]byte{"same": testPNG(t)})
	rec := lessorOnlyRecord()
	rec["documents"] = []any{"same", "same"}

	out := assemble(t, Input{Record: rec, LessorSignature: "same", LesseeSignature: "same"}, src)

	if n := src.count("same"); n != 1 {
		t.Errorf("source called %d times for one reference, want 1", n)
	}
	if len(out.Missing) != 0 {
		t.Errorf("Missing = %v, want none", out.Missing)
	}
}

func TestAssemble_NoImageSource(t *testing.T) {
	t.Parallel()

	out := assemble(t, Input{Record: lessorOnlyRecord(), LessorSignature: "sig"}, nil)
	if diff := cmp.Diff([]string{"signature:lessor"}, out.Missing); diff != "" {
		t.Errorf("Missing (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Conditional sections
// ---------------------------------------------------------------------------

func TestAssemble_OptionalSubsections(t *testing.T) {
	t.Parallel()

	rec := lessorOnlyRecord()
	rec["parties"] = []any{
		map[string]any{"name": "Nguyễn Văn An"},
		map[string]any{"name": "Trần Thị Bình"},
		map[string]any{"name": "Lê Văn Cường", "cccd": "079200001111"},
	}
	rec["utilities"] = []any{
		map[string]any{"type": "electric", "previous": 100, "current": 150, "unitPrice": 3500},
		map[string]any{"type": "water", "previous": 10, "current": 12, "unitPrice": 20000},
	}
	rec["electricRate"] = 3500
	rec["notes"] = "Bên B được nuôi **một** con mèo.\n\n- Giữ vệ sinh chung\n- Không gây ồn sau 22h"

	out := assemble(t, Input{Record: rec}, nil)
	ps := out.Placements

	if !containsText(ps, layout.KindHeading, "NGUOI O CUNG") {
		t.Error("co-occupant list missing")
	}
	if !containsText(ps, layout.KindText, "1. Le Van Cuong - CCCD: 079200001111") {
		t.Error("co-occupant entry missing")
	}
	if !containsText(between(ps, "DIEU 6.", "DIEU 7."), layout.KindText, "nguoi o cung co ten") {
		t.Error("co-occupant clause missing from lessee article")
	}

	utilities := between(ps, "DIEU 4.", "DIEU 5.")
	if !containsText(utilities, layout.KindText, "Chi so cong to") {
		t.Error("meter-reading subsection missing")
	}
	if !containsText(utilities, layout.KindTableRow, "Dien | 100 | 150 | 50 | 3.500 d | 175.000 d") {
		t.Errorf("electric reading row missing: %+v", utilities)
	}
	if !containsText(utilities, layout.KindTableRow, "Tong cong") {
		t.Error("utility total row missing")
	}
	if !containsText(utilities, layout.KindText, "1. Don gia dien: 3.500 d/kWh.") {
		t.Error("electric rate clause missing")
	}

	closing := between(ps, "DIEU 16.", "TOM TAT HOP DONG")
	if !containsText(closing, layout.KindText, "Ghi chu bo sung") {
		t.Error("notes subsection missing")
	}
	if !containsText(closing, layout.KindText, "- Khong gay on sau 22h") {
		t.Errorf("notes bullet missing: %+v", closing)
	}
	if !containsText(ps, layout.KindTableRow, "Nguoi o cung | 1 nguoi") {
		t.Error("summary does not count co-occupants")
	}
}

// ---------------------------------------------------------------------------
// Errors and determinism
// ---------------------------------------------------------------------------

func TestAssemble_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Input
		deps    Deps
		wantErr error
	}{
		{"nil record", Input{}, Deps{Clauses: standardClauses(t)}, ErrNilRecord},
		{"nil clause set", Input{Record: map[string]any{}}, Deps{}, ErrNoClauses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Assemble(context.Background(), tt.in, tt.deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Assemble() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssemble_EmptyRecordStillRenders(t *testing.T) {
	t.Parallel()

	out := assemble(t, Input{Record: map[string]any{}}, nil)
	if out.Pages < 1 {
		t.Fatal("empty record produced no pages")
	}
	if !containsText(out.Placements, layout.KindTableRow, "Thoi han | [Chua cap nhat]") {
		t.Error("summary does not show the placeholder term")
	}
}

func TestAssemble_LongFieldsStayInsidePages(t *testing.T) {
	t.Parallel()

	rec := lessorOnlyRecord()
	rec["room"].(map[string]any)["name"] = strings.Repeat("Phòng 101 tầng 3 ", 500)
	rec["parties"].([]any)[0].(map[string]any)["name"] = strings.Repeat("Nguyễn Văn An ", 300)
	out := assemble(t, Input{Record: rec}, nil)

	const top, bottom = layout.DefaultMargin, 297 - layout.DefaultMargin
	for i, p := range out.Placements {
		if p.Y < top-0.01 || p.Y+p.H > bottom+0.01 {
			t.Errorf("placement %d (%s) on page %d spans %.1f..%.1f, outside %v..%v",
				i, p.Kind, p.Page, p.Y, p.Y+p.H, top, bottom)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	t.Parallel()

	src := newFakeSource(map[string][]byte{"sig": testPNG(t)})
	a := assemble(t, Input{Record: lessorOnlyRecord(), LessorSignature: "sig"}, src)
	b := assemble(t, Input{Record: lessorOnlyRecord(), LessorSignature: "sig"}, src)
	if !bytes.Equal(a.PDF, b.PDF) {
		t.Error("identical input produced different documents")
	}
}

// ---------------------------------------------------------------------------
// Wording helpers
// ---------------------------------------------------------------------------

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	rec := func(status string) map[string]any {
		return map[string]any{"status": status}
	}
	tests := []struct {
		raw  map[string]any
		want string
	}{
		{rec(""), "[Chưa cập nhật]"},
		{rec("active"), "Đang hiệu lực"},
		{rec("Pending"), "Chờ ký"},
		{rec("cancelled"), "Đã hủy"},
		{map[string]any{"canceledAt": "2024-03-01"}, "Đã hủy ngày 01/03/2024"},
		{rec("archived"), "archived"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			out := assemble(t, Input{Record: tt.raw}, nil)
			if got := StatusLabel(out.Contract); got != tt.want {
				t.Errorf("StatusLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
