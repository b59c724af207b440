package attendance_test

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wib      = time.FixedZone("WIB", 7*60*60)
	standard = attendance.Standard{CheckIn: 8 * 60, CheckOut: 17 * 60}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, wib)
}

func clock(s string) *timecalc.Clock {
	c, err := timecalc.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return &c
}

func TestCheckInAndOutComputesMinutes(t *testing.T) {
	rec, err := attendance.NewCheckIn("emp-1", at(14, 8, 20), attendance.StatusPresent, "", standard)
	require.NoError(t, err)

	assert.Equal(t, attendance.CheckedIn, attendance.StateOf(&rec))
	assert.Equal(t, timecalc.Date{Year: 2026, Month: time.October, Day: 14}, rec.Date)
	assert.Equal(t, 20, rec.LateMinutes)
	assert.Nil(t, rec.Reason)

	require.NoError(t, rec.RecordCheckOut(at(14, 18, 5), standard))

	assert.Equal(t, attendance.CheckedOut, attendance.StateOf(&rec))
	assert.Equal(t, 65, rec.OvertimeMinutes)
	assert.Equal(t, 585, rec.WorkedMinutes)
}

func TestCheckInOnTimeIsNotLate(t *testing.T) {
	rec, err := attendance.NewCheckIn("emp-1", at(14, 7, 55), attendance.StatusPresent, "", standard)
	require.NoError(t, err)
	assert.Zero(t, rec.LateMinutes)

	require.NoError(t, rec.RecordCheckOut(at(14, 16, 30), standard))
	assert.Zero(t, rec.OvertimeMinutes)
	assert.Equal(t, 515, rec.WorkedMinutes)
}

func TestCheckInNonPresent(t *testing.T) {
	for _, status := range []attendance.Status{attendance.StatusExcused, attendance.StatusSick} {
		_, err := attendance.NewCheckIn("emp-1", at(14, 9, 0), status, "   ", standard)
		assert.ErrorIs(t, err, attendance.ErrReasonRequired, status)

		rec, err := attendance.NewCheckIn("emp-1", at(14, 9, 0), status, " flu ", standard)
		require.NoError(t, err)
		assert.Nil(t, rec.CheckIn)
		assert.Equal(t, "flu", *rec.Reason)
		assert.Zero(t, rec.LateMinutes)
		assert.Zero(t, rec.OvertimeMinutes)
		assert.Zero(t, rec.WorkedMinutes)
	}

	rec, err := attendance.NewCheckIn("emp-1", at(14, 9, 0), attendance.StatusAbsent, "", standard)
	require.NoError(t, err)
	assert.Nil(t, rec.CheckIn)

	_, err = attendance.NewCheckIn("emp-1", at(14, 9, 0), attendance.Status("LATE"), "", standard)
	assert.ErrorIs(t, err, attendance.ErrInvalidStatus)
}

func TestRecordCheckOutRejections(t *testing.T) {
	t.Run("already checked out", func(t *testing.T) {
		rec, _ := attendance.NewCheckIn("emp-1", at(14, 8, 0), attendance.StatusPresent, "", standard)
		require.NoError(t, rec.RecordCheckOut(at(14, 17, 0), standard))
		assert.ErrorIs(t, rec.RecordCheckOut(at(14, 18, 0), standard), attendance.ErrAlreadyCheckedOut)
		assert.Equal(t, 540, rec.WorkedMinutes)
	})

	t.Run("not present", func(t *testing.T) {
		rec, _ := attendance.NewCheckIn("emp-1", at(14, 8, 0), attendance.StatusSick, "fever", standard)
		assert.ErrorIs(t, rec.RecordCheckOut(at(14, 17, 0), standard), attendance.ErrNotPresent)
	})

	t.Run("before check-in", func(t *testing.T) {
		rec, _ := attendance.NewCheckIn("emp-1", at(14, 8, 0), attendance.StatusPresent, "", standard)
		assert.ErrorIs(t, rec.RecordCheckOut(at(14, 8, 0), standard), attendance.ErrCheckOutBeforeCheckIn)
		assert.ErrorIs(t, rec.RecordCheckOut(at(14, 7, 0), standard), attendance.ErrCheckOutBeforeCheckIn)
		assert.Nil(t, rec.CheckOut)
	})

	t.Run("after midnight", func(t *testing.T) {
		rec, _ := attendance.NewCheckIn("emp-1", at(14, 22, 0), attendance.StatusPresent, "", standard)
		assert.ErrorIs(t, rec.RecordCheckOut(at(15, 1, 0), standard), attendance.ErrCrossMidnight)
	})
}

func TestStateOfNil(t *testing.T) {
	assert.Equal(t, attendance.NotCheckedIn, attendance.StateOf(nil))
	assert.Equal(t, "NOT_CHECKED_IN", attendance.NotCheckedIn.String())
}

func TestApplyCorrection(t *testing.T) {
	newRecord := func(t *testing.T) attendance.Attendance {
		rec, err := attendance.NewCheckIn("emp-1", at(14, 8, 20), attendance.StatusPresent, "", standard)
		require.NoError(t, err)
		require.NoError(t, rec.RecordCheckOut(at(14, 18, 5), standard))
		return rec
	}

	t.Run("new check-in recomputes late and worked", func(t *testing.T) {
		rec := newRecord(t)
		require.NoError(t, rec.ApplyCorrection(attendance.Correction{CheckIn: clock("07:50")}, standard, wib))
		assert.Zero(t, rec.LateMinutes)
		assert.Equal(t, 65, rec.OvertimeMinutes)
		assert.Equal(t, 615, rec.WorkedMinutes)
		assert.Equal(t, at(14, 7, 50), rec.CheckIn.In(wib))
	})

	t.Run("switching to sick clears times", func(t *testing.T) {
		rec := newRecord(t)
		sick, reason := attendance.StatusSick, "migraine"
		require.NoError(t, rec.ApplyCorrection(attendance.Correction{Status: &sick, Reason: &reason}, standard, wib))
		assert.Nil(t, rec.CheckIn)
		assert.Nil(t, rec.CheckOut)
		assert.Zero(t, rec.LateMinutes+rec.OvertimeMinutes+rec.WorkedMinutes)
	})

	t.Run("sick needs reason", func(t *testing.T) {
		rec := newRecord(t)
		sick := attendance.StatusSick
		assert.ErrorIs(t, rec.ApplyCorrection(attendance.Correction{Status: &sick}, standard, wib), attendance.ErrReasonRequired)
	})

	t.Run("times only for present", func(t *testing.T) {
		rec := newRecord(t)
		absent := attendance.StatusAbsent
		err := rec.ApplyCorrection(attendance.Correction{Status: &absent, CheckIn: clock("08:00")}, standard, wib)
		assert.ErrorIs(t, err, attendance.ErrTimesRequirePresent)
	})

	t.Run("present needs check-in", func(t *testing.T) {
		rec, _ := attendance.NewCheckIn("emp-1", at(14, 8, 0), attendance.StatusAbsent, "", standard)
		present := attendance.StatusPresent
		err := rec.ApplyCorrection(attendance.Correction{Status: &present}, standard, wib)
		assert.ErrorIs(t, err, attendance.ErrCheckInRequired)

		require.NoError(t, rec.ApplyCorrection(attendance.Correction{Status: &present, CheckIn: clock("08:10")}, standard, wib))
		assert.Equal(t, 10, rec.LateMinutes)
		assert.Nil(t, rec.CheckOut)
	})

	t.Run("check-out must follow check-in", func(t *testing.T) {
		rec := newRecord(t)
		err := rec.ApplyCorrection(attendance.Correction{CheckOut: clock("08:00")}, standard, wib)
		assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
		assert.Equal(t, 585, rec.WorkedMinutes)
	})
}

func TestTodaySummaryCount(t *testing.T) {
	late, _ := attendance.NewCheckIn("a", at(14, 8, 30), attendance.StatusPresent, "", standard)
	onTime, _ := attendance.NewCheckIn("b", at(14, 7, 30), attendance.StatusPresent, "", standard)
	sick, _ := attendance.NewCheckIn("c", at(14, 7, 30), attendance.StatusSick, "flu", standard)

	var s attendance.TodaySummary
	for _, rec := range []*attendance.Attendance{&late, &onTime, &sick, nil} {
		s.Count(rec)
	}

	assert.Equal(t, attendance.TodaySummary{Total: 4, Present: 2, Sick: 1, Late: 1, NotRecorded: 1}, s)
}
