package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
)

// Standard holds an employee's scheduled working hours.
type Standard struct {
	CheckIn  timecalc.Clock
	CheckOut timecalc.Clock
}

// State is the per-day check-in/check-out progress of an employee.
type State int

const (
	NotCheckedIn State = iota
	CheckedIn
	CheckedOut
)

func (s State) String() string {
	switch s {
	case NotCheckedIn:
		return "NOT_CHECKED_IN"
	case CheckedIn:
		return "CHECKED_IN"
	case CheckedOut:
		return "CHECKED_OUT"
	default:
		return "UNKNOWN"
	}
}

// StateOf returns the state for the day's record, nil meaning no record yet.
func StateOf(rec *Attendance) State {
	switch {
	case rec == nil:
		return NotCheckedIn
	case rec.CheckOut != nil:
		return CheckedOut
	default:
		return CheckedIn
	}
}

// NewCheckIn builds the day's record for a check-in at instant at.
// The record date is the civil date of at in at's location.
func NewCheckIn(employeeID string, at time.Time, status Status, reason string, std Standard) (Attendance, error) {
	if !status.Valid() {
		return Attendance{}, ErrInvalidStatus
	}

	reason = strings.TrimSpace(reason)
	if status.RequiresReason() && reason == "" {
		return Attendance{}, ErrReasonRequired
	}

	rec := Attendance{
		EmployeeID: employeeID,
		Date:       timecalc.DateOf(at),
		Status:     status,
	}
	if reason != "" {
		rec.Reason = &reason
	}

	switch status {
	case StatusPresent:
		rec.CheckIn = &at
		rec.LateMinutes = timecalc.ClockOf(at).MinutesAfter(std.CheckIn)
	case StatusExcused, StatusSick, StatusAbsent:
		// no instant, all minute counters stay zero
	}

	return rec, nil
}

// RecordCheckOut moves a CheckedIn record to CheckedOut.
func (a *Attendance) RecordCheckOut(at time.Time, std Standard) error {
	if a.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if a.Status != StatusPresent {
		return ErrNotPresent
	}
	if a.CheckIn == nil {
		return ErrNotCheckedIn
	}

	checkIn := a.CheckIn.In(at.Location())
	if !at.After(checkIn) {
		return ErrCheckOutBeforeCheckIn
	}
	if timecalc.DateOf(at) != a.Date {
		return ErrCrossMidnight
	}

	in, out := timecalc.ClockOf(checkIn), timecalc.ClockOf(at)
	a.CheckOut = &at
	a.OvertimeMinutes = out.MinutesAfter(std.CheckOut)
	a.WorkedMinutes = out.MinutesAfter(in)
	return nil
}

// Correction is an admin edit of an existing record. Nil fields are kept.
type Correction struct {
	CheckIn  *timecalc.Clock
	CheckOut *timecalc.Clock
	Status   *Status
	Reason   *string
}

// ApplyCorrection edits the record and recomputes every minute counter from
// the resulting clock times with the same rules as check-in and check-out.
func (a *Attendance) ApplyCorrection(c Correction, std Standard, loc *time.Location) error {
	status := a.Status
	if c.Status != nil {
		if !c.Status.Valid() {
			return ErrInvalidStatus
		}
		status = *c.Status
	}

	reason := a.Reason
	if c.Reason != nil {
		trimmed := strings.TrimSpace(*c.Reason)
		reason = nil
		if trimmed != "" {
			reason = &trimmed
		}
	}
	if status.RequiresReason() && reason == nil {
		return ErrReasonRequired
	}

	if status != StatusPresent {
		if c.CheckIn != nil || c.CheckOut != nil {
			return ErrTimesRequirePresent
		}
		a.Status, a.Reason = status, reason
		a.CheckIn, a.CheckOut = nil, nil
		a.LateMinutes, a.OvertimeMinutes, a.WorkedMinutes = 0, 0, 0
		return nil
	}

	var in, out *timecalc.Clock
	if a.CheckIn != nil {
		clock := timecalc.ClockOf(a.CheckIn.In(loc))
		in = &clock
	}
	if a.CheckOut != nil {
		clock := timecalc.ClockOf(a.CheckOut.In(loc))
		out = &clock
	}
	if c.CheckIn != nil {
		in = c.CheckIn
	}
	if c.CheckOut != nil {
		out = c.CheckOut
	}
	if in == nil {
		return ErrCheckInRequired
	}
	if out != nil && *out <= *in {
		return ErrCheckOutBeforeCheckIn
	}

	checkIn := a.Date.At(*in, loc)
	a.Status, a.Reason = status, reason
	a.CheckIn = &checkIn
	a.LateMinutes = in.MinutesAfter(std.CheckIn)
	a.CheckOut, a.OvertimeMinutes, a.WorkedMinutes = nil, 0, 0
	if out != nil {
		checkOut := a.Date.At(*out, loc)
		a.CheckOut = &checkOut
		a.OvertimeMinutes = out.MinutesAfter(std.CheckOut)
		a.WorkedMinutes = out.MinutesAfter(*in)
	}
	return nil
}
