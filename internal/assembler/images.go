package assembler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-leasepdf/internal/imgformat"
	"github.com/alnah/go-leasepdf/internal/layout"
)

// slot is one image position in the document.
type slot struct {
	name string // e.g. "signature:lessor", reported in Output.Missing
	ref  string

	img *layout.ImageBlock
	err error
}

// resolve fetches every slot with a reference, at most a.parallel at a time.
// Failures are kept on the slot; the group itself never fails.
func (a *assembler) resolve(group string, slots []*slot) {
	a.trace = append(a.trace, StateImageResolution+":"+group)

	g, ctx := errgroup.WithContext(a.ctx)
	g.SetLimit(a.parallel)
	for _, s := range slots {
		if s.ref == "" {
			continue
		}
		g.Go(func() error {
			s.img, s.err = a.fetch(ctx, s.ref)
			return nil
		})
	}
	_ = g.Wait()

	for _, s := range slots {
		if s.err != nil {
			a.log.Warn("image unavailable",
				zap.String("slot", s.name),
				zap.Error(s.err))
		}
	}
}

// fetch resolves ref and converts it to an embeddable image.
func (a *assembler) fetch(ctx context.Context, ref string) (*layout.ImageBlock, error) {
	if a.images == nil {
		return nil, ErrNoImageSrc
	}
	asset, err := a.images.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	sniffed := imgformat.Sniff(asset.Data, string(asset.Format))
	data, format, err := imgformat.Normalize(asset.Data, sniffed)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", sniffed, err)
	}
	return &layout.ImageBlock{Data: data, Type: imgformat.PDFType(format)}, nil
}

// failed records a slot that ends up as a label.
func (a *assembler) failed(s *slot) {
	a.missing = append(a.missing, s.name)
}

// cell builds an image-row cell. A slot without a reference shows empty; a
// slot with one shows ImageUnavailable if its image cannot be placed.
func cell(s *slot, header, empty string, footer []string) layout.Cell {
	c := layout.Cell{Header: header, Footer: footer, Image: s.img, Fallback: empty}
	if s.ref != "" {
		c.Fallback = ImageUnavailable
	}
	return c
}

// imageRow places cells and degrades cells the layout engine could not embed.
func (a *assembler) imageRow(slots []*slot, cells []layout.Cell, boxH float64) {
	for _, s := range slots {
		if s.ref != "" && s.img == nil {
			a.failed(s)
		}
	}
	errs := a.e.ImageRow(cells, boxH)
	for i, err := range errs {
		if err != nil {
			a.log.Warn("image not embeddable", zap.String("slot", slots[i].name), zap.Error(err))
			a.failed(slots[i])
		}
	}
}
