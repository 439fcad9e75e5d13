package model

import "github.com/google/uuid"

// StaffMember is the slice of the HR roster the engine reads: the project
// lead's hourly cost feeds the prorated labor share of the dashboard
// actual-cost series.
type StaffMember struct {
	ID         uuid.UUID
	FullName   string
	Role       string
	HourlyCost float64
}
