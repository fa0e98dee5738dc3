package assembler

import (
	"fmt"

	"github.com/alnah/go-leasepdf/internal/dateutil"
	"github.com/alnah/go-leasepdf/internal/layout"
	"github.com/alnah/go-leasepdf/internal/record"
)

const (
	signatureBoxH = 30.0
	idCardBoxH    = 50.0
	documentBoxH  = 150.0
)

// TermSummary renders the lease duration for the summary table.
func TermSummary(t record.Term) string {
	return fmt.Sprintf("%d tháng (~%d ngày)", t.Months, t.ApproxDays)
}

// StatusLabel renders the lifecycle status in Vietnamese.
func StatusLabel(c *record.Contract) string {
	if c.Canceled() {
		if !c.CanceledAt.IsZero() {
			return "Đã hủy ngày " + dateutil.Short(c.CanceledAt)
		}
		return "Đã hủy"
	}
	switch c.Status {
	case "":
		return record.Placeholder
	case "active", "signed", "dang hieu luc":
		return "Đang hiệu lực"
	case "pending", "draft", "waiting":
		return "Chờ ký"
	case "expired", "ended", "completed":
		return "Đã kết thúc"
	}
	return c.Status
}

func (a *assembler) summary() {
	c := a.c
	a.e.Space(4)
	a.e.Heading(a.cs.Labels.Summary)

	term := record.Placeholder
	period := record.Placeholder
	if !c.Start.IsZero() && !c.End.IsZero() {
		term = TermSummary(c.Term())
		period = dateutil.Short(c.Start) + " - " + dateutil.Short(c.End)
	}

	rows := [][]string{
		{"Mã hợp đồng", c.ID},
		{"Bên cho thuê", c.Lessor().Name},
		{"Bên thuê", c.Lessee().Name},
	}
	if co := c.CoOccupants(); len(co) > 0 {
		rows = append(rows, []string{"Người ở cùng", fmt.Sprintf("%d người", len(co))})
	}
	rows = append(rows,
		[]string{"Phòng", c.Room.Name},
		[]string{"Thời hạn", term},
		[]string{"Thời gian", period},
		[]string{"Giá thuê", money(c.Terms.MonthlyRent)},
		[]string{"Tiền cọc", money(c.Terms.Deposit)},
	)
	if len(c.Utilities) > 0 {
		rows = append(rows, []string{"Tiền điện nước", money(c.UtilitiesTotal())})
	}
	rows = append(rows, []string{"Trạng thái", StatusLabel(c)})

	a.e.Table(layout.TableBlock{
		Header: []string{"Nội dung", "Chi tiết"},
		Rows:   rows,
		Widths: []float64{1, 2},
	})
}

func (a *assembler) signatures() {
	c := a.c
	l := a.cs.Labels
	slots := []*slot{
		{name: "signature:lessor", ref: c.LessorSignature.Image},
		{name: "signature:lessee", ref: c.LesseeSignature.Image},
	}
	a.resolve("signatures", slots)

	a.e.Space(6)
	a.e.Heading(l.Signatures)
	cells := []layout.Cell{
		cell(slots[0], l.Lessor, l.SignHint, signedBy(c.Lessor(), c.LessorSignature, l.Unsigned)),
		cell(slots[1], l.Lessee, l.SignHint, signedBy(c.Lessee(), c.LesseeSignature, l.Unsigned)),
	}
	a.imageRow(slots, cells, signatureBoxH)
}

func signedBy(p record.Party, s record.Signature, unsigned string) []string {
	lines := []string{p.Name}
	switch {
	case !s.SignedAt.IsZero():
		lines = append(lines, "Ký lúc "+dateutil.Stamp(s.SignedAt))
	case s.Image == "":
		lines = append(lines, unsigned)
	}
	return lines
}

func (a *assembler) idCards() {
	type owner struct {
		role  string
		party record.Party
		slots []*slot
	}
	var owners []owner
	var all []*slot
	for i, p := range a.c.Parties {
		if !p.IDCard.HasImages() {
			continue
		}
		o := owner{role: partyRole(i), party: p, slots: []*slot{
			{name: fmt.Sprintf("id-card:%d:front", i), ref: p.IDCard.Front},
			{name: fmt.Sprintf("id-card:%d:back", i), ref: p.IDCard.Back},
		}}
		owners = append(owners, o)
		all = append(all, o.slots...)
	}
	if len(owners) == 0 {
		return
	}
	a.resolve("id-cards", all)

	a.e.FreshPage()
	a.e.Heading(a.cs.Labels.IDCards)
	for _, o := range owners {
		a.e.Space(3)
		a.e.Text(layout.TextBlock{Text: o.role + ": " + o.party.Name, Style: "B", KeepWithNext: true})
		cells := []layout.Cell{
			cell(o.slots[0], "Mặt trước", record.Placeholder, nil),
			cell(o.slots[1], "Mặt sau", record.Placeholder, nil),
		}
		a.imageRow(o.slots, cells, idCardBoxH)
	}
}

func partyRole(i int) string {
	switch i {
	case 0:
		return "Bên cho thuê"
	case 1:
		return "Bên thuê"
	}
	return fmt.Sprintf("Người ở cùng %d", i-1)
}

func (a *assembler) documents() {
	docs := a.c.Documents
	if len(docs) == 0 {
		return
	}
	slots := make([]*slot, len(docs))
	for i, ref := range docs {
		slots[i] = &slot{name: fmt.Sprintf("document:%d", i+1), ref: ref}
	}
	a.resolve("documents", slots)

	a.e.FreshPage()
	a.e.Heading(a.cs.Labels.Documents)
	for i, s := range slots {
		caption := fmt.Sprintf("Tài liệu %d/%d", i+1, len(slots))
		if s.img == nil {
			a.failed(s)
			a.e.Text(layout.TextBlock{Text: caption, Style: "B", KeepWithNext: true})
			a.e.Label(ImageUnavailable)
			continue
		}
		block := *s.img
		block.Caption = caption
		block.H = documentBoxH
		if err := a.e.Image(block); err != nil {
			a.failed(s)
			a.e.Text(layout.TextBlock{Text: caption, Style: "B", KeepWithNext: true})
			a.e.Label(ImageUnavailable)
		}
		a.e.Space(3)
	}
}
