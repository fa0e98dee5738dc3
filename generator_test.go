package leasepdf

// Notes:
// - Generation runs the real layout engine and PDF writer; images are data
//   URIs so no test touches the network.
// - Preview uses a fake Viewer. The browser viewer opens a real window and
//   is exercised manually; the browser drawer has integration tests.
// - Output checks go through pdfcpu (PageCount, Validate).

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 80, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 80; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 30, B: 140, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
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
	}
}

var fixedNow = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }

// fakeViewer records the paths it is asked to open.
type fakeViewer struct {
	mu    sync.Mutex
	err   error
	paths []string
}

func (v *fakeViewer) View(_ context.Context, path string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paths = append(v.paths, path)
	return v.err
}

func newTestGenerator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	base := []Option{WithNow(fixedNow), WithViewer(&fakeViewer{})}
	g, err := NewGenerator(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
	return g
}

// ---------------------------------------------------------------------------
// TestNewGenerator - Option validation and clause set loading
// ---------------------------------------------------------------------------

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"defaults", nil, nil},
		{"letter page", []Option{WithPage(PageSettings{Size: "Letter", Margin: 15, FontSize: 10})}, nil},
		{"unknown page size", []Option{WithPage(PageSettings{Size: "tabloid", Margin: 20, FontSize: 11})}, ErrInvalidPageSize},
		{"margin too small", []Option{WithPage(PageSettings{Size: "a4", Margin: 1, FontSize: 11})}, ErrInvalidMargin},
		{"font too large", []Option{WithPage(PageSettings{Size: "a4", Margin: 20, FontSize: 40})}, ErrInvalidFontSize},
		{"bad filename date", []Option{WithFilenameDate("YYYY[MM")}, ErrInvalidFilenameDate},
		{"unknown clause set", []Option{WithClauseSet("no-such-set")}, ErrClauseSetNotFound},
		{"traversal clause set", []Option{WithClauseSet("../etc/passwd")}, ErrClauseSetNotFound},
		{"missing asset path", []Option{WithAssetPath("/nonexistent/leasepdf/assets")}, ErrInvalidAssetPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := NewGenerator(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewGenerator() unexpected error: %v", err)
				}
				_ = g.Close()
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewGenerator() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithAttemptTimeout_PanicsOnNonPositive(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("WithAttemptTimeout(0) did not panic")
		}
	}()
	WithAttemptTimeout(0)
}

func TestNewGenerator_CustomClauseSet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "clauses"), 0o750); err != nil {
		t.Fatal(err)
	}
	// Only a title: required articles are missing.
	if err := os.WriteFile(filepath.Join(dir, "clauses", "short.yaml"), []byte("header:\n  title: \"HỢP ĐỒNG\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewGenerator(WithAssetPath(dir), WithClauseSet("short"))
	if !errors.Is(err, ErrIncompleteClauseSet) {
		t.Errorf("NewGenerator() error = %v, want ErrIncompleteClauseSet", err)
	}

	// The built-in set is used when the custom directory lacks the file.
	if err := CheckClauseSet(dir, DefaultClauseSet); err != nil {
		t.Errorf("CheckClauseSet(fallback) error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - End-to-end rendering
// ---------------------------------------------------------------------------

func TestGenerate_NilRecord(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	_, err := g.Generate(context.Background(), Input{})
	if !errors.Is(err, ErrNilRecord) {
		t.Errorf("Generate() error = %v, want ErrNilRecord", err)
	}
}

func TestGenerate_LessorOnlyContract(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	res, err := g.Generate(context.Background(), Input{
		Record:          lessorOnlyRecord(),
		LessorSignature: DataURI(testPNG(t)),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !bytes.HasPrefix(res.PDF, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header")
	}
	if err := Validate(res.PDF); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	pages, err := PageCount(res.PDF)
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if pages != res.Pages || pages < 1 {
		t.Errorf("PageCount() = %d, Result.Pages = %d", pages, res.Pages)
	}
	if res.ContractID != "HD-2024-001" {
		t.Errorf("ContractID = %q, want %q", res.ContractID, "HD-2024-001")
	}
	if res.Filename != "hop-dong-HD-2024-001-20240305.pdf" {
		t.Errorf("Filename = %q", res.Filename)
	}
	if res.GenerationID == "" {
		t.Error("GenerationID is empty")
	}
	if len(res.Missing) != 0 {
		t.Errorf("Missing = %v, want none", res.Missing)
	}
}

func TestGenerate_EmptyRecordStillRenders(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	res, err := g.Generate(context.Background(), Input{Record: map[string]any{}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if res.ContractID != "" {
		t.Errorf("ContractID = %q, want empty for a record without id", res.ContractID)
	}
	if res.Filename != "hop-dong-20240305.pdf" {
		t.Errorf("Filename = %q, want %q", res.Filename, "hop-dong-20240305.pdf")
	}
	if err := Validate(res.PDF); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestGenerate_UnresolvableImageIsReported(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	res, err := g.Generate(context.Background(), Input{
		Record:          lessorOnlyRecord(),
		LessorSignature: "data:image/png;base64,bm90IGFuIGltYWdl",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Missing) == 0 {
		t.Error("Missing is empty, want the lessor signature slot")
	}
}

func TestGenerate_Optimize(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t, WithOptimize(true))
	res, err := g.Generate(context.Background(), Input{
		Record:          lessorOnlyRecord(),
		LessorSignature: DataURI(testPNG(t)),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := Validate(res.PDF); err != nil {
		t.Errorf("Validate(optimized) error = %v", err)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	sig := DataURI(testPNG(t))

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Generate(context.Background(), Input{Record: lessorOnlyRecord(), LessorSignature: sig})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Generate() error = %v", err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestFilename - Download name derivation
// ---------------------------------------------------------------------------

func TestFilename(t *testing.T) {
	t.Parallel()

	now := fixedNow()
	tests := []struct {
		name   string
		id     string
		format string
		want   string
	}{
		{"id and date", "HD-001", "YYYYMMDD", "hop-dong-HD-001-20240305.pdf"},
		{"no id", "", "YYYYMMDD", "hop-dong-20240305.pdf"},
		{"diacritics", "HĐ Số 7", "YYYYMMDD", "hop-dong-HD-So-7-20240305.pdf"},
		{"unsafe id", "a/b\\c", "YYYYMMDD", "hop-dong-a-b-c-20240305.pdf"},
		{"custom date", "HD-001", "DD-MM-YYYY", "hop-dong-HD-001-05-03-2024.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := &Generator{cfg: defaultConfig()}
			g.cfg.filenameDate = tt.format
			if got := g.filename(tt.id, now); got != tt.want {
				t.Errorf("filename(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDownload / TestPreview - Writing and opening documents
// ---------------------------------------------------------------------------

func TestDownload(t *testing.T) {
	t.Parallel()

	g := newTestGenerator(t)
	dir := filepath.Join(t.TempDir(), "out", "nested")

	res, err := g.Download(context.Background(), Input{Record: lessorOnlyRecord()}, dir)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if res.Path != filepath.Join(dir, res.Filename) {
		t.Errorf("Path = %q, want file %q in %q", res.Path, res.Filename, dir)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.Equal(data, res.PDF) {
		t.Error("written file differs from Result.PDF")
	}
}

func TestDownload_UnwritableDirectory(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	g := newTestGenerator(t)
	_, err := g.Download(context.Background(), Input{Record: lessorOnlyRecord()}, filepath.Join(blocker, "sub"))
	if !errors.Is(err, ErrOutputWrite) {
		t.Errorf("Download() error = %v, want ErrOutputWrite", err)
	}
}

func TestPreview_OpensViewer(t *testing.T) {
	t.Parallel()

	viewer := &fakeViewer{}
	g := newTestGenerator(t, WithViewer(viewer))
	dir := t.TempDir()

	res, err := g.Preview(context.Background(), Input{Record: lessorOnlyRecord()}, dir)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(res.Path) })

	if res.Notice != "" {
		t.Errorf("Notice = %q, want empty", res.Notice)
	}
	if len(viewer.paths) != 1 || viewer.paths[0] != res.Path {
		t.Errorf("viewer opened %v, want [%s]", viewer.paths, res.Path)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("previewed file missing: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("preview wrote %d files to the download dir, want 0", len(entries))
	}
}

func TestPreview_FallsBackToSave(t *testing.T) {
	t.Parallel()

	viewer := &fakeViewer{err: errors.New("no display")}
	g := newTestGenerator(t, WithViewer(viewer))
	dir := t.TempDir()

	res, err := g.Preview(context.Background(), Input{Record: lessorOnlyRecord()}, dir)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if res.Path != filepath.Join(dir, res.Filename) {
		t.Errorf("Path = %q, want saved file in %q", res.Path, dir)
	}
	if !strings.Contains(res.Notice, res.Path) {
		t.Errorf("Notice = %q, want it to name %q", res.Notice, res.Path)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestPreview_NilRecord(t *testing.T) {
	t.Parallel()

	viewer := &fakeViewer{}
	g := newTestGenerator(t, WithViewer(viewer))
	_, err := g.Preview(context.Background(), Input{}, t.TempDir())
	if !errors.Is(err, ErrNilRecord) {
		t.Errorf("Preview() error = %v, want ErrNilRecord", err)
	}
	if len(viewer.paths) != 0 {
		t.Error("viewer called for a failed generation")
	}
}
