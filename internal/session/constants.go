package session

import "time"

// Configured constants, spec.md §6 "Configured constants."
const (
	defaultMaxResults = 100
	hardMaxResultsCap = 10_000

	maxUUIDCollisionAttempts = 10

	firstResultWait = 40 * time.Millisecond

	sortingWaitCap  = 30 * time.Second
	sortingWaitPoll = 100 * time.Millisecond

	retentionSweepInterval     = 60 * time.Second
	completedSessionRetention  = 30 * time.Second
	activeSessionRetention     = 5 * time.Minute
)
