// Package discovery centralizes the default addresses of trackmeet services.
package discovery

import (
	"strconv"
	"strings"
)

const (
	// ServiceMeet is the meet gRPC service identity.
	ServiceMeet = "meet"
	// ServiceMCP is the MCP HTTP service identity.
	ServiceMCP = "mcp"
)

// defaultHost is where services listen when nothing else is configured.
const defaultHost = "localhost"

var grpcPorts = map[string]int{
	ServiceMeet: 8090,
}

var httpPorts = map[string]int{
	ServiceMCP: 8091,
}

// DefaultGRPCPort returns the conventional gRPC port of a service, or 0.
func DefaultGRPCPort(service string) int {
	return grpcPorts[strings.TrimSpace(service)]
}

// DefaultGRPCAddr returns the conventional gRPC address for a service.
func DefaultGRPCAddr(service string) string {
	return defaultAddr(strings.TrimSpace(service), grpcPorts)
}

// DefaultHTTPAddr returns the conventional HTTP address for a service.
func DefaultHTTPAddr(service string) string {
	return defaultAddr(strings.TrimSpace(service), httpPorts)
}

// OrDefaultGRPCAddr returns value when set, otherwise the service convention.
func OrDefaultGRPCAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return DefaultGRPCAddr(service)
}

// OrDefaultHTTPAddr returns value when set, otherwise the service convention.
func OrDefaultHTTPAddr(value, service string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	return DefaultHTTPAddr(service)
}

func defaultAddr(service string, ports map[string]int) string {
	port, ok := ports[service]
	if !ok || port <= 0 {
		return ""
	}
	return defaultHost + ":" + strconv.Itoa(port)
}
