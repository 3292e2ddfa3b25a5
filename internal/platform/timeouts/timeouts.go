// Package timeouts defines shared timeout constants used across trackmeet
// commands so clients and servers agree on the same budgets.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the meet service.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single meet service call made by
// meetctl or the MCP bridge.
const GRPCRequest = 5 * time.Second

// Shutdown limits how long a server waits for in-flight calls during
// graceful shutdown.
const Shutdown = 5 * time.Second
