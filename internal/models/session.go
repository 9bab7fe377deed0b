package models

import "github.com/google/uuid"

// Session identifies who is calling the sync gateway and for which company.
// It is passed explicitly on every call instead of living in shared storage.
type Session struct {
	CompanyID uuid.UUID
	Token     string
}

func (s Session) Valid() bool {
	return s.CompanyID != uuid.Nil
}
