package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"arch-market-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, success bool, data interface{}, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"data":    data,
		"message": message,
	})
	require.NoError(t, err)
}

func TestLoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "lin@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		writeEnvelope(t, w, true, map[string]interface{}{
			"accessToken":  "at-1",
			"refreshToken": "rt-1",
			"user": map[string]interface{}{
				"id":       7,
				"fullName": "Lin",
				"email":    "lin@example.com",
				"role":     "Client",
			},
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api/")
	result, err := client.Login(context.Background(), "lin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at-1", result.AccessToken)
	assert.Equal(t, "rt-1", result.RefreshToken)
	assert.Equal(t, uint(7), result.User.ID)
	assert.Equal(t, "Client", result.User.Role)
}

func TestMeSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
		writeEnvelope(t, w, true, map[string]interface{}{
			"id": 3, "fullName": "Wang", "email": "wang@example.com", "role": "Architect",
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	identity, err := client.Me(context.Background(), "tok-abc")
	require.NoError(t, err)
	assert.Equal(t, "Architect", identity.Role)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	_, err := client.Me(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestForbiddenMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	_, err := client.Messages(context.Background(), "tok", ConversationTarget{LobbyID: "admin-lobby"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFailureEnvelopeSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeEnvelope(t, w, false, nil, "邮箱已被注册")
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	_, err := client.Register(context.Background(), "Lin", "lin@example.com", "secret", "Client")
	require.Error(t, err)
	assert.EqualError(t, err, "邮箱已被注册")
}

func TestConversationTargetPaths(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeEnvelope(t, w, true, []model.ChatMessage{}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")

	_, err := client.Messages(context.Background(), "tok", ConversationTarget{ProjectID: 42})
	require.NoError(t, err)
	assert.Equal(t, "/api/projects/42/messages", gotPath)

	_, err = client.Messages(context.Background(), "tok", ConversationTarget{LobbyID: "client-lobby"})
	require.NoError(t, err)
	assert.Equal(t, "/api/chat/client-lobby", gotPath)
}

func TestResourceEndpoints(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/projects":
			writeEnvelope(t, w, true, model.Project{ID: 5, Title: "别墅改造"}, "")
		case r.Method == http.MethodPost && r.URL.Path == "/api/consultations/client/book":
			writeEnvelope(t, w, true, model.Consultation{ID: 9, ArchitectID: 2}, "")
		default:
			writeEnvelope(t, w, true, []struct{}{}, "")
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	ctx := context.Background()

	_, err := client.Projects(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "/api/projects", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)

	project, err := client.CreateProject(ctx, "tok", "别墅改造", "老宅翻新", 2)
	require.NoError(t, err)
	assert.Equal(t, uint(5), project.ID)

	_, err = client.MyConsultations(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "/api/consultations/client", gotPath)

	consultation, err := client.BookConsultation(ctx, "tok", 2, 1, time.Now().Add(48*time.Hour), "初次沟通")
	require.NoError(t, err)
	assert.Equal(t, uint(9), consultation.ID)

	_, err = client.ArchitectConsultations(ctx, "tok", 2)
	require.NoError(t, err)
	assert.Equal(t, "/api/consultations/architect/2", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestSendMessageEchoesClientRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeEnvelope(t, w, true, model.ChatMessage{
			ID:        "srv-1",
			ClientRef: body["clientRef"],
			Text:      body["text"],
		}, "")
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api")
	msg, err := client.SendMessage(context.Background(), "tok", ConversationTarget{ProjectID: 1}, "你好", "ref-123")
	require.NoError(t, err)
	assert.Equal(t, "srv-1", msg.ID)
	assert.Equal(t, "ref-123", msg.ClientRef)
	assert.Equal(t, "你好", msg.Text)
}
