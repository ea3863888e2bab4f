package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn      = errors.New("you have already checked in today")
	ErrNotCheckedIn          = errors.New("you have not checked in today")
	ErrAlreadyCheckedOut     = errors.New("you have already checked out today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out must be after check-in")

	// ErrNoOpenSession is returned by repositories when a guarded check-out
	// matched no record; the service turns it into one of the errors above.
	ErrNoOpenSession = errors.New("no open attendance session")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
