package constants

import "time"

const (
	CommandTimeout  = 10 * time.Second
	DatabaseTimeout = 5 * time.Second
	ShutdownTimeout = 5 * time.Second
)

const (
	DBMaxOpenConns    = 1 // commands are serial; a single connection keeps writes ordered
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
)

const (
	HistoryLimit       = 10
	LeaderboardLimit   = 10
	PlayerHistoryLimit = 20
)
