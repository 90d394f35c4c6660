package search

import "github.com/jpl-au/examdex/internal/index"

// Entity is what the visibility rule looks at. Replies are judged by their
// owning document, so callers pass the document's attributes for them.
type Entity struct {
	CategoryID   int64
	Public       bool
	NeedsPayment bool
}

// EntityOf returns the visibility-relevant attributes of a candidate's
// owning document.
func EntityOf(c index.Candidate) Entity {
	return Entity{
		CategoryID:   c.Document.CategoryID,
		Public:       c.Document.Public,
		NeedsPayment: c.Document.NeedsPayment,
	}
}

// CanView reports whether r may see e. Global admins see everything;
// category admins see everything in their categories; everyone else sees
// public documents, payment-gated ones only with an active payment.
func CanView(r Requester, e Entity) bool {
	if r.GlobalAdmin {
		return true
	}
	if r.AdminOf(e.CategoryID) {
		return true
	}
	return e.Public && (!e.NeedsPayment || r.HasPayment)
}

// Visibility translates the CanView rule into an index filter.
func Visibility(r Requester) index.Visibility {
	return index.Visibility{
		Unrestricted:    r.GlobalAdmin,
		HasPayment:      r.HasPayment,
		AdminCategories: r.CategoryIDs(),
	}
}
