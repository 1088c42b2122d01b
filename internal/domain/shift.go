package domain

import "time"

// Shift is one entry of the fixed six-slot catalog. DualDepartment slots are
// staffed with one employee from each department; the rest take a single
// employee from either department. PartnerID pairs alternating slots for
// display only, the engine does not act on it. AnchorTarget marks the slot
// used for the anchor worker's minimum and for forced repair placements.
type Shift struct {
	ID             int64     `json:"id"`
	DisplayTime    string    `json:"displayTime"`
	Label          string    `json:"label"`
	DualDepartment bool      `json:"dualDepartment"`
	PartnerID      *int64    `json:"partnerID"`
	AnchorTarget   bool      `json:"anchorTarget"`
	CreatedAt      time.Time `json:"createdAt"`
	Version        int32     `json:"-"`
}
