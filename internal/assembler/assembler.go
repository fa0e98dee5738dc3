// Package assembler drives the layout engine through the fixed section
// sequence of a lease document.
//
// One call reconciles the raw record once, then walks the sections in order:
// title block, parties, the sixteen numbered articles, the summary table, the
// signature block and the identity and document galleries. Sections that need
// images resolve them in a nested step that always returns to the sequence;
// a failed image degrades to a label and never aborts the document.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/fetch"
	"github.com/alnah/go-leasepdf/internal/layout"
	"github.com/alnah/go-leasepdf/internal/record"
)

// Sentinel errors.
var (
	ErrNilRecord  = errors.New("contract record is nil")
	ErrNoClauses  = errors.New("clause set is nil")
	ErrNoImageSrc = errors.New("no image source configured")
)

// ImageUnavailable labels an image slot whose image could not be resolved.
const ImageUnavailable = "[Không tải được hình ảnh]"

// Trace states.
const (
	StateStart           = "start"
	StateReconciling     = "reconciling"
	StateAssembling      = "assembling"
	StateImageResolution = "image-resolution"
	StateFinalized       = "finalized"
)

// Section names, in document order.
var Sections = []string{
	"title", "parties",
	"article-1", "article-2", "article-3", "article-4",
	"article-5", "article-6", "article-7", "article-8",
	"article-9", "article-10", "article-11", "article-12",
	"article-13", "article-14", "article-15", "article-16",
	"summary", "signatures", "id-cards", "documents",
}

// Input is one generation request. Non-empty signature refs take precedence
// over signatures embedded in the record.
type Input struct {
	Record          map[string]any
	LessorSignature string
	LesseeSignature string
}

// Deps are the collaborators of one call.
type Deps struct {
	Clauses *assets.ClauseSet
	Images  fetch.Source // wrapped in a per-call cache; nil degrades every image
	Page    layout.Options
	Logger  *zap.Logger
	Now     time.Time // date printed when the record has no creation date
	// MaxParallel bounds concurrent image resolutions. Zero selects 4.
	MaxParallel int
}

// Output is a finished document.
type Output struct {
	PDF      []byte
	Pages    int
	Contract *record.Contract
	Missing  []string // image slots rendered as a label
	Trace    []string

	Placements []layout.Placement
}

type assembler struct {
	ctx      context.Context
	c        *record.Contract
	cs       *assets.ClauseSet
	e        *layout.Engine
	images   fetch.Source
	log      *zap.Logger
	now      time.Time
	parallel int

	trace   []string
	missing []string
}

// Assemble reconciles in.Record and lays out the whole document.
// The only errors are a nil record, a nil clause set and a PDF writer failure.
func Assemble(ctx context.Context, in Input, deps Deps) (*Output, error) {
	trace := []string{StateStart}
	if in.Record == nil {
		return nil, ErrNilRecord
	}
	if deps.Clauses == nil {
		return nil, ErrNoClauses
	}

	trace = append(trace, StateReconciling)
	c := record.Reconcile(in.Record)
	if in.LessorSignature != "" {
		c.LessorSignature.Image = in.LessorSignature
	}
	if in.LesseeSignature != "" {
		c.LesseeSignature.Image = in.LesseeSignature
	}

	a := &assembler{
		ctx:      ctx,
		c:        c,
		cs:       deps.Clauses,
		log:      deps.Logger,
		now:      deps.Now,
		parallel: deps.MaxParallel,
		trace:    trace,
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	a.log = a.log.With(zap.String("contract_id", c.ID))
	if a.now.IsZero() {
		a.now = time.Now()
	}
	if a.parallel <= 0 {
		a.parallel = 4
	}
	if deps.Images != nil {
		a.images = fetch.NewCache(deps.Images)
	}

	opts := deps.Page
	opts.Title = deps.Clauses.Header.Title
	if c.ID != record.Placeholder {
		opts.Title += " " + c.ID
	}
	if len(c.Parties) > 0 {
		opts.Author = c.Lessor().Name
	}
	if !c.CreatedAt.IsZero() {
		opts.Created = c.CreatedAt
	}
	a.e = layout.New(opts)

	steps := []func(){
		a.titleBlock, a.parties,
		a.premises, a.term, a.payment, a.utilities,
		a.lessorDuties, a.lesseeDuties, a.staticArticle(assets.ArticleSafety),
		a.staticArticle(assets.ArticlePrivacy), a.staticArticle(assets.ArticleMaintenance),
		a.staticArticle(assets.ArticleDisputes), a.staticArticle(assets.ArticleForceMajeure),
		a.staticArticle(assets.ArticleTermination), a.staticArticle(assets.ArticleAmendments),
		a.staticArticle(assets.ArticleNotices), a.appendices, a.closing,
		a.summary, a.signatures, a.idCards, a.documents,
	}
	for i, step := range steps {
		a.trace = append(a.trace, fmt.Sprintf("%s:%d:%s", StateAssembling, i, Sections[i]))
		step()
	}

	pages := a.e.Page()
	pdf, err := a.e.Output()
	if err != nil {
		return nil, err
	}
	a.trace = append(a.trace, StateFinalized)
	a.log.Debug("document assembled",
		zap.Int("pages", pages),
		zap.Int("missing_images", len(a.missing)))

	return &Output{
		PDF:      pdf,
		Pages:    pages,
		Contract: c,
		Missing:  a.missing,
		Trace:    a.trace,

		Placements: a.e.Placements(),
	}, nil
}
