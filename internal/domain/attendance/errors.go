package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn = errors.New("you already have an open session")
	ErrFaceNotMatched   = errors.New("face not recognized")
	ErrLowSimilarity    = errors.New("face match similarity below threshold")

	// Check-out errors
	ErrNoOpenSession = errors.New("no open session to check out")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
)
