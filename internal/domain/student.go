package domain

import "time"

// Student is the renting party. Accounts are issued by the identity system;
// this service only reads them and references rentals by student id.
type Student struct {
	ID        int32     `json:"id"`
	StuID     string    `json:"stu_id"` // system-generated UUID, stable across renames
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"created_on"`
}
