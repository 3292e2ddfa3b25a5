package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/louisbranch/trackmeet/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/trackmeet/internal/platform/grpc"
	"github.com/louisbranch/trackmeet/internal/platform/timeouts"
	meetapi "github.com/louisbranch/trackmeet/internal/services/meet/api/grpc/meet"
	"github.com/louisbranch/trackmeet/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	serverName    = "trackmeet MCP"
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	MeetAddr  string
	Transport TransportKind
	// HTTPAddr is the listen address for the HTTP transport.
	HTTPAddr string
}

// Server hosts the MCP server and its meet connection.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New creates an MCP server whose tools call the meet service at meetAddr.
// The connection is established lazily on the first call.
func New(meetAddr string) (*Server, error) {
	addr := meetAddress(meetAddr)
	conn, err := grpc.NewClient(addr, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		return nil, fmt.Errorf("connect to meet server at %s: %w", addr, err)
	}
	return newServer(conn), nil
}

func newServer(conn *grpc.ClientConn) *Server {
	return &Server{
		mcpServer: newMCPServer(meetapi.NewClient(conn)),
		conn:      conn,
	}
}

func newMCPServer(client domain.MeetClient) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	registerTools(server, client)
	registerResources(server, client)
	return server
}

// Run starts MCP on the configured transport and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg.MeetAddr, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the meet connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP session over transport and closes the
// meet connection on the way out.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func runWithTransport(ctx context.Context, meetAddr string, transport mcp.Transport) error {
	conn, err := dialMeet(ctx, meetAddress(meetAddr))
	if err != nil {
		return err
	}
	return newServer(conn).serveWithTransport(ctx, transport)
}

func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := discovery.OrDefaultHTTPAddr(cfg.HTTPAddr, discovery.ServiceMCP)
	conn, err := dialMeet(ctx, meetAddress(cfg.MeetAddr))
	if err != nil {
		return err
	}
	server := newServer(conn)
	defer func() {
		if err := server.Close(); err != nil {
			log.Printf("close meet connection: %v", err)
		}
	}()

	listener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", httpAddr, err)
	}
	return serveHTTP(ctx, listener, newHTTPHandler(server.mcpServer))
}

func newHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// serveHTTP serves handler on listener until ctx ends, then shuts down.
func serveHTTP(ctx context.Context, listener net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("MCP HTTP listening at %v", listener.Addr())

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP HTTP: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	}
}

func dialMeet(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	conn, err := platformgrpc.DialWithHealth(ctx, nil, platformgrpc.Target{
		Addr:          addr,
		HealthService: meetapi.ServiceName,
		Timeout:       timeouts.GRPCDial,
	}, log.Printf)
	if err != nil {
		return nil, fmt.Errorf("connect to meet server at %s: %w", addr, err)
	}
	return conn, nil
}

func meetAddress(addr string) string {
	return discovery.OrDefaultGRPCAddr(addr, discovery.ServiceMeet)
}
