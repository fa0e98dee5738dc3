package record

import "time"

// ToMap renders the contract back into a raw record using canonical keys only.
// Reconcile(c.ToMap()) yields a contract equal to c.
func (c *Contract) ToMap() map[string]any {
	m := map[string]any{
		"id":           c.ID,
		"room":         c.Room.toMap(),
		"monthlyRent":  c.Terms.MonthlyRent,
		"deposit":      c.Terms.Deposit,
		"paymentDay":   c.Terms.PaymentDay,
		"electricRate": c.Terms.ElectricRate,
		"waterRate":    c.Terms.WaterRate,
		"serviceFee":   c.Terms.ServiceFee,
	}
	putString(m, "paymentMethod", c.Terms.PaymentMethod)
	putString(m, "notes", c.Notes)
	putString(m, "status", c.Status)
	putTime(m, "startDate", c.Start)
	putTime(m, "endDate", c.End)
	putTime(m, "createdAt", c.CreatedAt)
	putTime(m, "updatedAt", c.UpdatedAt)
	putTime(m, "canceledAt", c.CanceledAt)

	if len(c.Parties) > 0 {
		parties := make([]any, len(c.Parties))
		for i, p := range c.Parties {
			if p.Present {
				parties[i] = p.toMap()
			}
		}
		m["parties"] = parties
	}

	if len(c.Utilities) > 0 {
		readings := make([]any, len(c.Utilities))
		for i, u := range c.Utilities {
			readings[i] = map[string]any{
				"type":      string(u.Type),
				"previous":  u.Previous,
				"current":   u.Current,
				"unitPrice": u.UnitPrice,
				"total":     u.Total,
			}
		}
		m["utilities"] = readings
	}

	if len(c.Documents) > 0 {
		docs := make([]any, len(c.Documents))
		for i, d := range c.Documents {
			docs[i] = d
		}
		m["documents"] = docs
	}

	putString(m, "lessorSignature", c.LessorSignature.Image)
	putTime(m, "lessorSignedAt", c.LessorSignature.SignedAt)
	putString(m, "lesseeSignature", c.LesseeSignature.Image)
	putTime(m, "lesseeSignedAt", c.LesseeSignature.SignedAt)

	return m
}

func (r Room) toMap() map[string]any {
	m := map[string]any{
		"name":    r.Name,
		"address": r.Address,
		"price":   r.Price,
	}
	if r.Area > 0 {
		m["area"] = r.Area
	}
	if r.MaxOccupants > 0 {
		m["maxOccupants"] = r.MaxOccupants
	}
	return m
}

func (p Party) toMap() map[string]any {
	m := map[string]any{
		"name":     p.Name,
		"idNumber": p.IDNumber,
		"phone":    p.Phone,
		"address":  p.Address,
	}
	putString(m, "idIssuedPlace", p.IDIssuedPlace)
	putString(m, "email", p.Email)
	putString(m, "idCardFront", p.IDCard.Front)
	putString(m, "idCardBack", p.IDCard.Back)
	putTime(m, "idIssuedDate", p.IDIssuedDate)
	putTime(m, "birthDate", p.BirthDate)
	return m
}

func putString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putTime(m map[string]any, key string, t time.Time) {
	if !t.IsZero() {
		m[key] = t.UTC().Format(time.RFC3339Nano)
	}
}
