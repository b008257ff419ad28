package main

// Default limits for CLI commands.
const (
	DefaultAllianceLimit = 25
	DefaultHistoryLimit  = 20
)

// eveTimeDisplay formats timestamps for terminal output.
const eveTimeDisplay = "2006-01-02 15:04"
