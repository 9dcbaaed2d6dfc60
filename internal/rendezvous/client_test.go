package rendezvous

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientReportPresence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/presence", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"userId":"7","username":"neo","contextId":"ctx"}`, string(body))

		_ = json.NewEncoder(w).Encode(OnlineResponse{
			Status: StatusOK,
			Online: []PresenceEntry{{UserID: "7", Username: "neo", ContextID: OpaqueText("ctx"), Timestamp: 10}},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	online, err := client.ReportPresence(context.Background(), PresenceReport{
		UserID:    lo.ToPtr(Text("7")),
		Username:  lo.ToPtr(Text("neo")),
		ContextID: OpaqueText("ctx"),
	})
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "neo", online[0].Username)
	assert.Equal(t, "ctx", online[0].ContextID.String())
	assert.Nil(t, online[0].LocationID)
}

func TestClientCommandsSince(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commands", r.URL.Path)
		assert.Equal(t, "150", r.URL.Query().Get("since"))
		_ = json.NewEncoder(w).Encode([]CommandEntry{
			{UserID: "1", Username: "a", Command: "jump", Timestamp: 200},
		})
	}))
	defer server.Close()

	cmds, err := NewClient(server.URL).CommandsSince(context.Background(), 150)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "jump", cmds[0].Command)
}

// TestClientAPIError verifies non-2xx answers surface the coordinator's message.
func TestClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(StatusResponse{Status: StatusError, Message: "no command"})
	}))
	defer server.Close()

	err := NewClient(server.URL).SendCommand(context.Background(), CommandRequest{Command: lo.ToPtr(CommandText(" "))})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "no command", apiErr.Message)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "no command")
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewClient(server.URL).CommandsSince(context.Background(), 0)
	assert.True(t, IsNotFound(err))
}

func TestClientHonorsContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).Online(ctx)
	assert.Error(t, err)
}
