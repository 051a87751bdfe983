package attendance

import (
	"time"
)

// Status is the outcome of one halaqah session for a staff member.
type Status string

const (
	StatusPresent    Status = "PRESENT"
	StatusLate       Status = "LATE"
	StatusAbsent     Status = "ABSENT"
	StatusSick       Status = "SICK"
	StatusPermission Status = "PERMISSION"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusSick, StatusPermission:
		return true
	}
	return false
}

// Earns reports whether a session with this status produces an earning.
func (s Status) Earns() bool {
	return s == StatusPresent || s == StatusLate
}

type Attendance struct {
	ID           string
	StaffID      string
	HalaqahID    string
	Date         time.Time
	Status       Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	SessionType  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DurationMinutes is the checked-in time of the session, 0 when either end is missing.
func (a Attendance) DurationMinutes() int {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return 0
	}
	d := a.CheckOutTime.Sub(*a.CheckInTime)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Period returns the payroll period (month, year) the session belongs to.
func (a Attendance) Period() (int, int) {
	return int(a.Date.Month()), a.Date.Year()
}

// PeriodCounts aggregates attendance for one staff member over one payroll period.
type PeriodCounts struct {
	TotalSessions    int
	AttendedSessions int
	LateSessions     int
}

// Patch lists the only fields an admin correction may change.
type Patch struct {
	Status       *Status
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.CheckInTime == nil && p.CheckOutTime == nil
}

// Apply returns a copy of a with the patch applied.
func (p Patch) Apply(a Attendance) Attendance {
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.CheckInTime != nil {
		a.CheckInTime = p.CheckInTime
	}
	if p.CheckOutTime != nil {
		a.CheckOutTime = p.CheckOutTime
	}
	return a
}
