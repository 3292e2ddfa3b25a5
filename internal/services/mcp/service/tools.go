package service

import (
	"github.com/louisbranch/trackmeet/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools adds every meet tool to server.
func registerTools(server *mcp.Server, client domain.MeetClient) {
	mcp.AddTool(server, domain.EventCreateTool(), domain.EventCreateHandler(client))
	mcp.AddTool(server, domain.EventGetTool(), domain.EventGetHandler(client))
	mcp.AddTool(server, domain.EventListTool(), domain.EventListHandler(client))
	mcp.AddTool(server, domain.StageRunTool(), domain.StageRunHandler(client))
	mcp.AddTool(server, domain.ViewGetTool(), domain.ViewGetHandler(client))
}

// registerResources adds the readable meet resources to server.
func registerResources(server *mcp.Server, client domain.MeetClient) {
	server.AddResource(domain.EventListResource(), domain.EventListResourceHandler(client))
	server.AddResourceTemplate(domain.EventViewResourceTemplate(), domain.EventViewResourceHandler(client))
}
