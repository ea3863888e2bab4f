package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttendanceResponse_TimestampsMatchTotalHours(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 5, 0, 900*int(time.Millisecond), time.UTC)
	out := time.Date(2026, 3, 2, 17, 35, 0, 100*int(time.Millisecond), time.UTC)
	total := HoursBetween(in, out)

	resp := NewAttendanceResponse(Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:    &in,
		CheckOut:   &out,
		TotalHours: &total,
		Status:     StatusOnTime,
	})

	require.NotNil(t, resp.CheckIn)
	require.NotNil(t, resp.CheckOut)
	require.NotNil(t, resp.TotalHours)
	assert.Equal(t, "2026-03-02T09:05:00.900Z", *resp.CheckIn)
	assert.Equal(t, "2026-03-02T17:35:00.100Z", *resp.CheckOut)

	parsedIn, err := time.Parse(TimestampLayout, *resp.CheckIn)
	require.NoError(t, err)
	parsedOut, err := time.Parse(TimestampLayout, *resp.CheckOut)
	require.NoError(t, err)
	assert.InDelta(t, HoursBetween(parsedIn, parsedOut), *resp.TotalHours, 1e-6)
}

func TestNewAttendanceResponse_OpenSession(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC)

	resp := NewAttendanceResponse(Attendance{ID: "att-1", EmployeeID: "emp-1", CheckIn: &in, Status: StatusOnTime})

	assert.Equal(t, "2026-03-02T09:05:00.000Z", *resp.CheckIn)
	assert.Nil(t, resp.CheckOut)
	assert.Nil(t, resp.TotalHours)
}
