package record

import (
	"math"
	"strings"
)

// Reconcile normalizes a raw record into a Contract. It never fails: fields
// that no alias resolves are left at their documented defaults. A nil map
// yields an empty contract whose display fields are placeholders.
func Reconcile(raw map[string]any) *Contract {
	f := newFields(raw)

	c := &Contract{
		ID:         f.text(aliasID),
		Parties:    reconcileParties(f),
		Room:       reconcileRoom(f),
		Start:      f.date(aliasStart),
		End:        f.date(aliasEnd),
		Notes:      f.str(aliasNotes),
		Documents:  reconcileImageList(f.list(aliasDocuments)),
		CreatedAt:  f.date(aliasCreatedAt),
		UpdatedAt:  f.date(aliasUpdatedAt),
		CanceledAt: f.date(aliasCanceledAt),
		Status:     strings.ToLower(f.str(aliasStatus)),
	}

	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		c.End = c.Start
	}

	c.Terms = Terms{
		MonthlyRent:   f.money(aliasRent),
		Deposit:       f.money(aliasDeposit),
		PaymentDay:    int(f.decimal(aliasPaymentDay)),
		PaymentMethod: f.str(aliasPaymentMethod),
		ElectricRate:  f.money(aliasElectricRate),
		WaterRate:     f.money(aliasWaterRate),
		ServiceFee:    f.money(aliasServiceFee),
	}
	if c.Terms.PaymentDay < 1 || c.Terms.PaymentDay > 31 {
		c.Terms.PaymentDay = DefaultPaymentDay
	}
	if c.Terms.MonthlyRent == 0 {
		c.Terms.MonthlyRent = c.Room.Price
	}
	if c.Room.Price == 0 {
		c.Room.Price = c.Terms.MonthlyRent
	}

	c.Utilities = reconcileUtilities(f)
	c.LessorSignature, c.LesseeSignature = reconcileSignatures(f)

	return c
}

// reconcileParties builds the party list. A list under any party alias is
// taken verbatim in input order; otherwise the list is assembled from flat
// lessor/lessee/co-occupant objects or prefixed keys.
func reconcileParties(f fields) []Party {
	if items := f.list(aliasParties); len(items) > 0 {
		parties := make([]Party, 0, len(items))
		for _, item := range items {
			parties = append(parties, reconcileParty(item))
		}
		return parties
	}

	lessor, hasLessor := flatParty(f, aliasLessor)
	lessee, hasLessee := flatParty(f, aliasLessee)
	occupants := f.list(aliasOccupants)

	if !hasLessor && !hasLessee && len(occupants) == 0 {
		return nil
	}

	parties := []Party{placeholderParty()}
	if hasLessor {
		parties[0] = lessor
	}
	if hasLessee || len(occupants) > 0 {
		if hasLessee {
			parties = append(parties, lessee)
		} else {
			parties = append(parties, placeholderParty())
		}
	}
	for _, item := range occupants {
		parties = append(parties, reconcileParty(item))
	}
	return parties
}

// flatParty resolves a role from a nested object ("landlord": {...}) or from
// prefixed keys ("landlordName", "landlord_phone").
func flatParty(f fields, roles []string) (Party, bool) {
	if obj, ok := f.object(roles); ok {
		return partyFromFields(obj), true
	}
	if name := f.str(roles); name != "" {
		p := placeholderParty()
		p.Name = name
		p.Present = true
		return p, true
	}

	synthetic := make(map[string]any)
	for _, field := range flatPartyFields {
		var keys []string
		for _, role := range roles {
			for _, suffix := range flatPartySuffixes[field] {
				keys = append(keys, role+suffix)
			}
		}
		if v, ok := f.lookup(keys); ok {
			synthetic[field] = v
		}
	}
	if len(synthetic) == 0 {
		return Party{}, false
	}
	return partyFromFields(newFields(synthetic)), true
}

// reconcileParty converts one list entry. Null entries are explicit holes and
// become placeholder parties; bare strings are names.
func reconcileParty(item any) Party {
	if item == nil {
		return placeholderParty()
	}
	if s, ok := item.(string); ok {
		p := placeholderParty()
		if s = strings.TrimSpace(s); s != "" {
			p.Name = s
		}
		p.Present = true
		return p
	}
	m, ok := toObject(item)
	if !ok {
		return placeholderParty()
	}
	return partyFromFields(newFields(m))
}

func partyFromFields(f fields) Party {
	p := Party{
		Name:          f.text(aliasPartyName),
		IDNumber:      f.text(aliasPartyIDNumber),
		IDIssuedDate:  f.date(aliasPartyIDDate),
		IDIssuedPlace: f.str(aliasPartyIDPlace),
		BirthDate:     f.date(aliasPartyBirthDate),
		Phone:         f.text(aliasPartyPhone),
		Email:         f.str(aliasPartyEmail),
		Address:       f.text(aliasPartyAddress),
		IDCard: IDCard{
			Front: f.image(aliasPartyIDCardFront),
			Back:  f.image(aliasPartyIDCardBack),
		},
		Present: true,
	}

	if card, ok := f.object(aliasPartyIDCard); ok {
		if p.IDCard.Front == "" {
			p.IDCard.Front = card.image(aliasCardFront)
		}
		if p.IDCard.Back == "" {
			p.IDCard.Back = card.image(aliasCardBack)
		}
	} else if sides := f.list(aliasPartyIDCard); len(sides) > 0 {
		if p.IDCard.Front == "" {
			p.IDCard.Front = toImageRef(sides[0])
		}
		if p.IDCard.Back == "" && len(sides) > 1 {
			p.IDCard.Back = toImageRef(sides[1])
		}
	}
	return p
}

func reconcileRoom(f fields) Room {
	var r Room
	if obj, ok := f.object(aliasRoom); ok {
		r = Room{
			Name:         obj.str(aliasRoomName),
			Address:      obj.str(aliasRoomAddress),
			Area:         obj.decimal(aliasRoomArea),
			MaxOccupants: int(obj.decimal(aliasRoomCapacity)),
			Price:        obj.money(aliasRoomPrice),
		}
	} else if name := f.str(aliasRoom); name != "" {
		r.Name = name
	}

	if r.Name == "" {
		r.Name = f.str(aliasFlatRoomName)
	}
	if r.Address == "" {
		r.Address = f.str(aliasFlatRoomAddress)
	}
	if r.Area == 0 {
		r.Area = f.decimal(aliasFlatRoomArea)
	}
	if r.MaxOccupants == 0 {
		r.MaxOccupants = int(f.decimal(aliasFlatRoomCapacity))
	}
	if r.Price == 0 {
		r.Price = f.money(aliasFlatRoomPrice)
	}

	if r.Name == "" {
		r.Name = Placeholder
	}
	if r.Address == "" {
		r.Address = Placeholder
	}
	if r.Area < 0 {
		r.Area = 0
	}
	if r.MaxOccupants < 0 {
		r.MaxOccupants = 0
	}
	return r
}

// reconcileUtilities reads a reading list, or per-type objects
// ("electricity": {...}, "water": {...}) when no list is present.
func reconcileUtilities(f fields) []UtilityReading {
	var out []UtilityReading
	if items := f.list(aliasUtilities); len(items) > 0 {
		for _, item := range items {
			m, ok := toObject(item)
			if !ok {
				continue
			}
			rf := newFields(m)
			typ, ok := parseUtilityType(rf.str(aliasUtilityType))
			if !ok {
				continue
			}
			out = append(out, reading(rf, typ))
		}
		return out
	}

	for _, kind := range []struct {
		aliases []string
		typ     UtilityType
	}{
		{aliasElectricObject, UtilityElectric},
		{aliasWaterObject, UtilityWater},
	} {
		obj, ok := f.object(kind.aliases)
		if !ok {
			continue
		}
		if _, ok := obj.lookup(aliasUtilityCurrent); !ok {
			continue
		}
		out = append(out, reading(obj, kind.typ))
	}
	return out
}

func reading(f fields, typ UtilityType) UtilityReading {
	u := UtilityReading{
		Type:      typ,
		Previous:  f.decimal(aliasUtilityPrevious),
		Current:   f.decimal(aliasUtilityCurrent),
		UnitPrice: f.money(aliasUtilityPrice),
	}
	if v, ok := f.lookup(aliasUtilityTotal); ok {
		if total, ok := toMoney(v); ok {
			u.Total = total
			return u
		}
	}
	u.Total = UtilityTotal(u.Previous, u.Current, u.UnitPrice)
	return u
}

// UtilityTotal is (current - previous) * unitPrice, rounded, never negative.
func UtilityTotal(previous, current float64, unitPrice int64) int64 {
	total := math.Round((current - previous) * float64(unitPrice))
	if total < 0 {
		return 0
	}
	return int64(total)
}

func parseUtilityType(s string) (UtilityType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "electric", "electricity", "power", "dien", "điện", "tien dien", "tiền điện":
		return UtilityElectric, true
	case "water", "nuoc", "nước", "tien nuoc", "tiền nước":
		return UtilityWater, true
	}
	return "", false
}

// reconcileSignatures prefers flat keys ("landlordSignature") over the nested
// "signatures" object.
func reconcileSignatures(f fields) (lessor, lessee Signature) {
	lessor = Signature{
		Image:    f.image(aliasLessorSignature),
		SignedAt: f.date(aliasLessorSignedAt),
	}
	lessee = Signature{
		Image:    f.image(aliasLesseeSignature),
		SignedAt: f.date(aliasLesseeSignedAt),
	}

	if obj, ok := f.object(aliasLessorSignature); ok && lessor.SignedAt.IsZero() {
		lessor.SignedAt = obj.date(aliasSigSignedAt)
	}
	if obj, ok := f.object(aliasLesseeSignature); ok && lessee.SignedAt.IsZero() {
		lessee.SignedAt = obj.date(aliasSigSignedAt)
	}

	nested, ok := f.object(aliasSignatures)
	if !ok {
		return lessor, lessee
	}
	fill := func(sig *Signature, roles []string) {
		if sub, ok := nested.object(roles); ok {
			if sig.Image == "" {
				sig.Image = sub.image(aliasSigImage)
			}
			if sig.SignedAt.IsZero() {
				sig.SignedAt = sub.date(aliasSigSignedAt)
			}
			return
		}
		if sig.Image == "" {
			sig.Image = nested.image(roles)
		}
	}
	fill(&lessor, aliasSigLessorKey)
	fill(&lessee, aliasSigLesseeKey)
	return lessor, lessee
}

func reconcileImageList(items []any) []string {
	var refs []string
	for _, item := range items {
		if ref := toImageRef(item); ref != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}
