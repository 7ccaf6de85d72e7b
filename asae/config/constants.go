package config

import "time"

// Colors
const (
	ErrorColor   = 0xE74C3C
	SuccessColor = 0x2ECC71
	InfoColor    = 0x3498DB
	WarningColor = 0xE67E22
)

// Timeouts
const (
	CommandTimeout = 10 * time.Second
	// ScanCommandTimeout covers commands that read full channel histories.
	ScanCommandTimeout = 5 * time.Minute
	PresenceTimeout    = 5 * time.Second
	ShutdownTimeout    = 10 * time.Second
	GatewayTimeout     = 10 * time.Second
	// StorageTimeout bounds opening the store, including waiting for Postgres to come up.
	StorageTimeout = 10 * time.Minute
)

// Views
const (
	DefaultHistoryDays = 30
	MaxHistoryDays     = 365
	DaysPerPage        = 7
	DefaultRankingDays = 7
	// AuditListLimit caps how many users a purge summary lists by name.
	AuditListLimit = 5
)
