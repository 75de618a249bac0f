// Package config centralizes all tunable game parameters.
package config

import "time"

// Canvas - the maze is sized from these once at startup.
const (
	CanvasWidth  = 600 // Pixels
	CanvasHeight = 600 // Pixels
	CellSize     = 20  // Pixels per grid cell
)

// Session
const (
	ItemCount      = 10 // Items placed on every reset
	SessionSeconds = 80 // Countdown length
	TickInterval   = time.Second
)

// Terminal rendering
const (
	HUDRows = 1 // Rows above the maze border reserved for the timer and item count
)

// Shutdown
const (
	ShutdownDisplay = 10 * time.Second // How long the shutdown notice stays before disconnect
	ShutdownTimeout = 15 * time.Second // How long the server waits for clients to leave
)
