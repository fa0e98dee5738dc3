package assembler

import (
	"fmt"
	"strings"

	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/dateutil"
	"github.com/alnah/go-leasepdf/internal/layout"
	"github.com/alnah/go-leasepdf/internal/record"
	"github.com/alnah/go-leasepdf/internal/textutil"
)

const (
	clauseIndent = 4.0
	fieldIndent  = 6.0
)

func (a *assembler) line(text string) {
	a.e.Text(layout.TextBlock{Text: text})
}

func (a *assembler) field(label, value string) {
	a.e.Text(layout.TextBlock{Text: label + ": " + orPlaceholder(value), Indent: fieldIndent})
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return record.Placeholder
	}
	return s
}

// article places an article heading and returns a function that places its
// numbered clauses.
func (a *assembler) article(key string) func(text string) {
	art := a.cs.Article(key)
	a.e.Space(2)
	a.e.Heading(art.Title)
	n := 0
	return func(text string) {
		n++
		a.e.Text(layout.TextBlock{Text: fmt.Sprintf("%d. %s", n, text), Indent: clauseIndent})
	}
}

// standing places the clause set's fixed clauses.
func standing(clause func(string), art assets.Article) {
	for _, text := range art.Clauses {
		clause(text)
	}
}

func (a *assembler) staticArticle(key string) func() {
	return func() {
		clause := a.article(key)
		standing(clause, a.cs.Article(key))
	}
}

// ---------------------------------------------------------------------------
// Title block and parties
// ---------------------------------------------------------------------------

func (a *assembler) titleBlock() {
	h := a.cs.Header
	a.e.Text(layout.TextBlock{Text: h.Nation, Style: "B", Align: layout.AlignCenter, KeepWithNext: true})
	a.e.Text(layout.TextBlock{Text: h.Motto, Style: "B", Align: layout.AlignCenter, After: 1})
	a.e.Rule()
	a.e.Space(4)
	a.e.Title(h.Title, 16)
	a.e.Text(layout.TextBlock{Text: "Số: " + a.c.ID, Align: layout.AlignCenter, After: 3})

	for _, basis := range h.Basis {
		a.e.Text(layout.TextBlock{Text: basis, Style: "I"})
	}
	a.e.Space(2)

	date := a.c.CreatedAt
	if date.IsZero() {
		date = a.now
	}
	place := "Hôm nay, " + dateutil.Long(date)
	if a.c.Room.Address != record.Placeholder {
		place += ", tại " + a.c.Room.Address
	}
	a.line(place + ".")
	if h.Intro != "" {
		a.line(h.Intro)
	}
}

func (a *assembler) parties() {
	l := a.cs.Labels
	a.party(l.Lessor, a.c.Lessor())
	a.party(l.Lessee, a.c.Lessee())

	if co := a.c.CoOccupants(); len(co) > 0 {
		a.e.Space(2)
		a.e.Heading(l.CoOccupants)
		for i, p := range co {
			text := fmt.Sprintf("%d. %s", i+1, orPlaceholder(p.Name))
			if p.IDNumber != "" && p.IDNumber != record.Placeholder {
				text += " - CCCD: " + p.IDNumber
			}
			if p.Phone != "" && p.Phone != record.Placeholder {
				text += " - ĐT: " + p.Phone
			}
			a.e.Text(layout.TextBlock{Text: text, Indent: fieldIndent})
		}
	}

	a.e.Space(3)
	a.line(l.Agreement)
}

func (a *assembler) party(label string, p record.Party) {
	a.e.Space(2)
	a.e.Heading(label)
	a.field("Họ và tên", p.Name)
	if !p.BirthDate.IsZero() {
		a.field("Ngày sinh", dateutil.Short(p.BirthDate))
	}
	id := orPlaceholder(p.IDNumber)
	if !p.IDIssuedDate.IsZero() {
		id += ", cấp ngày " + dateutil.Short(p.IDIssuedDate)
	}
	if p.IDIssuedPlace != "" {
		id += ", tại " + p.IDIssuedPlace
	}
	a.field("Số CCCD/CMND", id)
	a.field("Địa chỉ thường trú", p.Address)
	a.field("Điện thoại", p.Phone)
	if p.Email != "" {
		a.field("Email", p.Email)
	}
}

// ---------------------------------------------------------------------------
// Articles with dynamic wording
// ---------------------------------------------------------------------------

func (a *assembler) premises() {
	clause := a.article(assets.ArticlePremises)
	r := a.c.Room
	text := "Bên A cho Bên B thuê phòng " + r.Name
	if r.Address != record.Placeholder {
		text += ", địa chỉ: " + r.Address
	}
	clause(text + ".")
	if r.Area > 0 {
		clause("Diện tích sử dụng: " + textutil.FormatNumber(r.Area) + " m².")
	}
	if r.MaxOccupants > 0 {
		clause(fmt.Sprintf("Số người ở tối đa: %d người.", r.MaxOccupants))
	}
	standing(clause, a.cs.Article(assets.ArticlePremises))
}

func (a *assembler) term() {
	clause := a.article(assets.ArticleTerm)
	if a.c.Start.IsZero() || a.c.End.IsZero() {
		clause("Thời hạn thuê: " + record.Placeholder + ".")
	} else {
		t := a.c.Term()
		clause(fmt.Sprintf("Thời hạn thuê: %d tháng, từ ngày %s đến ngày %s.",
			t.Months, dateutil.Short(a.c.Start), dateutil.Short(a.c.End)))
	}
	standing(clause, a.cs.Article(assets.ArticleTerm))
}

func (a *assembler) payment() {
	clause := a.article(assets.ArticlePayment)
	t := a.c.Terms
	clause("Giá thuê phòng: " + money(t.MonthlyRent) + "/tháng.")
	clause("Tiền đặt cọc: " + money(t.Deposit) + ".")
	due := fmt.Sprintf("Bên B thanh toán tiền thuê trước ngày %02d hằng tháng", t.PaymentDay)
	if t.PaymentMethod != "" {
		due += " bằng hình thức " + paymentMethod(t.PaymentMethod)
	}
	clause(due + ".")
	standing(clause, a.cs.Article(assets.ArticlePayment))
}

func (a *assembler) utilities() {
	clause := a.article(assets.ArticleUtilities)
	t := a.c.Terms
	if t.ElectricRate > 0 {
		clause("Đơn giá điện: " + money(t.ElectricRate) + "/kWh.")
	}
	if t.WaterRate > 0 {
		clause("Đơn giá nước: " + money(t.WaterRate) + "/m³.")
	}
	if t.ServiceFee > 0 {
		clause("Phí dịch vụ: " + money(t.ServiceFee) + "/tháng.")
	}
	standing(clause, a.cs.Article(assets.ArticleUtilities))

	if len(a.c.Utilities) == 0 {
		return
	}
	a.e.Space(1)
	a.e.Text(layout.TextBlock{Text: a.cs.Labels.MeterReadings, Style: "B", KeepWithNext: true})
	rows := make([][]string, 0, len(a.c.Utilities)+1)
	for _, u := range a.c.Utilities {
		rows = append(rows, []string{
			utilityName(u.Type),
			textutil.FormatNumber(u.Previous),
			textutil.FormatNumber(u.Current),
			textutil.FormatNumber(u.Consumption()),
			money(u.UnitPrice),
			money(u.Total),
		})
	}
	rows = append(rows, []string{"Tổng cộng", "", "", "", "", money(a.c.UtilitiesTotal())})
	a.e.Table(layout.TableBlock{
		Header: []string{"Loại", "Chỉ số cũ", "Chỉ số mới", "Tiêu thụ", "Đơn giá", "Thành tiền"},
		Rows:   rows,
		Widths: []float64{1.2, 1, 1, 1, 1.2, 1.4},
	})
}

func (a *assembler) lessorDuties() {
	clause := a.article(assets.ArticleLessor)
	standing(clause, a.cs.Article(assets.ArticleLessor))
}

func (a *assembler) lesseeDuties() {
	clause := a.article(assets.ArticleLessee)
	art := a.cs.Article(assets.ArticleLessee)
	standing(clause, art)
	if len(a.c.CoOccupants()) > 0 && art.CoOccupant != "" {
		clause(art.CoOccupant)
	}
}

func (a *assembler) appendices() {
	clause := a.article(assets.ArticleAppendices)
	standing(clause, a.cs.Article(assets.ArticleAppendices))
	n := 0
	if a.hasIDCards() {
		n++
		clause(fmt.Sprintf("Phụ lục %02d: Bản chụp giấy tờ tùy thân của các bên.", n))
	}
	if docs := len(a.c.Documents); docs > 0 {
		n++
		clause(fmt.Sprintf("Phụ lục %02d: Tài liệu đính kèm (%d tài liệu).", n, docs))
	}
}

func (a *assembler) closing() {
	clause := a.article(assets.ArticleClosing)
	standing(clause, a.cs.Article(assets.ArticleClosing))

	blocks := textutil.NotesBlocks(a.c.Notes)
	if len(blocks) == 0 {
		return
	}
	a.e.Space(1)
	a.e.Text(layout.TextBlock{Text: a.cs.Labels.Notes, Style: "B", KeepWithNext: true})
	for _, b := range blocks {
		switch b.Kind {
		case textutil.BlockHeading:
			a.e.Text(layout.TextBlock{Text: b.Text, Style: "B", Indent: clauseIndent, KeepWithNext: true})
		case textutil.BlockBullet:
			a.e.Text(layout.TextBlock{
				Text:   b.Marker + " " + b.Text,
				Indent: clauseIndent + fieldIndent*float64(b.Depth+1),
			})
		default:
			a.e.Text(layout.TextBlock{Text: b.Text, Indent: clauseIndent, After: 1})
		}
	}
}

// ---------------------------------------------------------------------------
// Wording helpers
// ---------------------------------------------------------------------------

func money(v int64) string {
	if v <= 0 {
		return record.Placeholder
	}
	return textutil.FormatMoney(v)
}

func utilityName(t record.UtilityType) string {
	if t == record.UtilityElectric {
		return "Điện"
	}
	return "Nước"
}

func paymentMethod(m string) string {
	switch strings.ToLower(m) {
	case "cash", "tien mat", "tiền mặt":
		return "tiền mặt"
	case "transfer", "bank", "bank_transfer", "chuyen khoan", "chuyển khoản":
		return "chuyển khoản"
	}
	return m
}

func (a *assembler) hasIDCards() bool {
	for _, p := range a.c.Parties {
		if p.IDCard.HasImages() {
			return true
		}
	}
	return false
}
