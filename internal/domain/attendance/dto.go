package attendance

import (
	"time"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
)

type RecordAttendanceRequest struct {
	StaffID      string  `json:"staff_id" validate:"notblank"`
	HalaqahID    string  `json:"halaqah_id" validate:"notblank"`
	Date         string  `json:"date" validate:"notblank"`
	Status       string  `json:"status" validate:"required,oneof=PRESENT LATE ABSENT SICK PERMISSION"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	SessionType  string  `json:"session_type"`
}

// Parse validates the request and converts it into an Attendance.
func (r *RecordAttendanceRequest) Parse() (Attendance, error) {
	if err := validator.Struct(r); err != nil {
		return Attendance{}, err
	}

	var errs validator.ValidationErrors
	date, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs.Add("date", "must be in YYYY-MM-DD format")
	}
	checkIn := parseOptionalTime(r.CheckInTime, "check_in_time", &errs)
	checkOut := parseOptionalTime(r.CheckOutTime, "check_out_time", &errs)
	if err := errs.Err(); err != nil {
		return Attendance{}, err
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return Attendance{}, ErrCheckOutBeforeStart
	}

	sessionType := r.SessionType
	if sessionType == "" {
		sessionType = "REGULAR"
	}

	return Attendance{
		StaffID:      r.StaffID,
		HalaqahID:    r.HalaqahID,
		Date:         date,
		Status:       Status(r.Status),
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
		SessionType:  sessionType,
	}, nil
}

type CorrectAttendanceRequest struct {
	ID           string  `json:"-"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=PRESENT LATE ABSENT SICK PERMISSION"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	CorrectedBy  string  `json:"-"`
}

// Patch validates the request and converts it into a typed Patch.
func (r *CorrectAttendanceRequest) Patch() (Patch, error) {
	if err := validator.Struct(r); err != nil {
		return Patch{}, err
	}

	var errs validator.ValidationErrors
	var p Patch
	if r.Status != nil {
		s := Status(*r.Status)
		p.Status = &s
	}
	p.CheckInTime = parseOptionalTime(r.CheckInTime, "check_in_time", &errs)
	p.CheckOutTime = parseOptionalTime(r.CheckOutTime, "check_out_time", &errs)
	if err := errs.Err(); err != nil {
		return Patch{}, err
	}
	if p.IsEmpty() {
		return Patch{}, ErrEmptyCorrection
	}
	return p, nil
}

func parseOptionalTime(value *string, field string, errs *validator.ValidationErrors) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, ok := validator.IsValidDateTime(*value)
	if !ok {
		errs.Add(field, "must be an RFC3339 timestamp")
		return nil
	}
	return &t
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	StaffID         string  `json:"staff_id"`
	HalaqahID       string  `json:"halaqah_id"`
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	CheckInTime     *string `json:"check_in_time,omitempty"`
	CheckOutTime    *string `json:"check_out_time,omitempty"`
	SessionType     string  `json:"session_type"`
	DurationMinutes int     `json:"duration_minutes"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (a Attendance) ToResponse() AttendanceResponse {
	return AttendanceResponse{
		ID:              a.ID,
		StaffID:         a.StaffID,
		HalaqahID:       a.HalaqahID,
		Date:            a.Date.Format("2006-01-02"),
		Status:          string(a.Status),
		CheckInTime:     timePtrToString(a.CheckInTime),
		CheckOutTime:    timePtrToString(a.CheckOutTime),
		SessionType:     a.SessionType,
		DurationMinutes: a.DurationMinutes(),
	}
}
