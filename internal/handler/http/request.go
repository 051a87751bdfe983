package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/halaqah-payroll-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/halaqah-payroll-go/internal/pkg/validator"
)

var errNotOwner = fmt.Errorf("%w: staff members may only access their own records", apperror.ErrForbidden)

// caller returns the authenticated claims. Routes are mounted behind
// AuthRequired, so a missing caller is an empty, non-admin identity.
func caller(r *http.Request) jwt.Claims {
	c, _ := middleware.Caller(r.Context())
	return c
}

// authorizeStaff allows admins and the staff member the record belongs to.
func authorizeStaff(r *http.Request, staffID string) error {
	c := caller(r)
	if c.IsAdmin() || (c.StaffID != "" && c.StaffID == staffID) {
		return nil
	}
	return errNotOwner
}

// scopeStaffFilter pins non-admin callers to their own staff id.
func scopeStaffFilter(r *http.Request) *string {
	c := caller(r)
	if !c.IsAdmin() {
		id := c.StaffID
		return &id
	}
	if id := r.URL.Query().Get("staff_id"); id != "" {
		return &id
	}
	return nil
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// optionalIntQuery parses an optional int query parameter into errs.
func optionalIntQuery(r *http.Request, key string, errs *validator.ValidationErrors) *int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		errs.Add(key, "must be a number")
		return nil
	}
	return &n
}

// periodQuery parses the optional period_month/period_year filters and checks
// that the supplied parts form a valid payroll period.
func periodQuery(r *http.Request, errs *validator.ValidationErrors) (*int, *int) {
	month := optionalIntQuery(r, "period_month", errs)
	year := optionalIntQuery(r, "period_year", errs)
	if month == nil && year == nil {
		return nil, nil
	}

	m, y := 1, 2000
	if month != nil {
		m = *month
	}
	if year != nil {
		y = *year
	}
	if !validator.IsValidPeriod(m, y) {
		errs.Add("period", "period_month must be 1-12 and period_year a four-digit year from 2000")
	}
	return month, year
}
