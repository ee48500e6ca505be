package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connect opens an in-memory client session to s.
func connect(t *testing.T, s *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer(t *testing.T) {
	t.Run("nil query service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingQueryService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Query: &mockQueryService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestServer_Initialize(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)

	cs := connect(t, server)
	result := cs.InitializeResult()

	require.NotNil(t, result)
	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "filerag", result.ServerInfo.Name)
	assert.Equal(t, Version, result.ServerInfo.Version)
	assert.Contains(t, result.Instructions, "ask")
	assert.Contains(t, result.Instructions, historyURI)
}

func TestServer_ToolsFollowPorts(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  []string
	}{
		{"query only", &Ports{Query: &mockQueryService{}}, []string{"ask"}},
		{"all ports", &Ports{
			Query:    &mockQueryService{},
			Document: &mockDocumentService{},
			Store:    &mockStoreService{},
			History:  &mockHistoryService{},
		}, []string{"ask", "list_documents", "store_info"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, err := NewServer(tt.ports)
			require.NoError(t, err)

			res, err := connect(t, server).ListTools(context.Background(), nil)
			require.NoError(t, err)

			var names []string
			for _, tool := range res.Tools {
				names = append(names, tool.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestServer_HistoryResources(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}, History: &mockHistoryService{}})
	require.NoError(t, err)

	res, err := connect(t, server).ListResources(context.Background(), nil)
	require.NoError(t, err)

	var uris []string
	for _, r := range res.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{historyURI, historyJSONURI}, uris)
}

func TestServer_HandlerRejectsPlainGet(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.GreaterOrEqual(t, resp.StatusCode, http.StatusBadRequest)
}

func TestServer_RunHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.RunHTTP(ctx, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil query service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingQueryService)
	})

	t.Run("query only is valid", func(t *testing.T) {
		ports := &Ports{
			Query: &mockQueryService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Query:    &mockQueryService{},
			Document: &mockDocumentService{},
			Store:    &mockStoreService{},
			History:  &mockHistoryService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}
