// Package domain maps MCP tools and resources onto meet service calls.
//
// Each tool has an input type, a result type, a Tool descriptor and a
// handler built around a MeetClient. Results are flat JSON shapes with
// RFC3339 timestamps so agents can render them without the domain types.
package domain
