package model

import "time"

// Rating is a customer's star rating of a facility, with optional
// feedback.  Stars run 1 to 5.
type Rating struct {
	ID         uint64    `json:"id"`
	FacilityID uint64    `json:"facility_id"`
	UserID     uint64    `json:"user_id"`
	Stars      int       `json:"stars"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
