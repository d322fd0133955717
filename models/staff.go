package models

import "time"

// Shift is one rostered working block for a staff member. Times are local
// "HH:MM" strings; a shift may not overlap another shift of the same person
// on the same day.
type Shift struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StaffID   uint      `json:"staff_id" gorm:"not null;index"`
	Staff     User      `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	Day       string    `json:"day" gorm:"not null;index"` // YYYY-MM-DD
	StartTime string    `json:"start_time" gorm:"not null"`
	EndTime   string    `json:"end_time" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"not null"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Overlaps reports whether two shifts on the same day intersect. HH:MM
// strings compare correctly lexicographically.
func (s *Shift) Overlaps(other *Shift) bool {
	if s.StaffID != other.StaffID || s.Day != other.Day {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// TaxDeduction is a payroll-adjacent record: either a flat amount or a
// percentage of the period's gross, tracked per staff member per period.
type TaxDeduction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StaffID   uint      `json:"staff_id" gorm:"not null;index"`
	Staff     User      `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
	Period    string    `json:"period" gorm:"not null;index"` // YYYY-MM
	Label     string    `json:"label" gorm:"not null"`
	Amount    float64   `json:"amount" gorm:"default:0"`
	Percent   int       `json:"percent" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
