package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/ai/mistral"
	"github.com/writewise/content-engine/internal/conversation"
	"github.com/writewise/content-engine/internal/service/chat"
	"github.com/writewise/content-engine/internal/settings"
	"github.com/writewise/content-engine/internal/types"
	"github.com/writewise/content-engine/internal/voice"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Name() ai.ProviderName { return ai.DefaultProvider }

func (p *stubProvider) Models() []string {
	return []string{mistral.DefaultModel, "mistral-small-latest"}
}

func (p *stubProvider) Generate(_ context.Context, _ ai.GenerationRequest) (ai.GenerationResult, error) {
	return ai.GenerationResult{Text: p.reply}, p.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Name() string { return "stub" }

func (s *stubTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

type testEnv struct {
	server *Server
	store  *conversation.Store
	mgr    *settings.Manager
}

func newTestEnv(t *testing.T, provider ai.Provider, transcriber voice.Transcriber) *testEnv {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := conversation.NewStore(nil, nil)
	require.NoError(t, err)
	mgr, err := settings.NewManager(nil)
	require.NoError(t, err)

	reg := ai.NewRegistry(provider)
	svc := chat.NewService(reg, store, mgr, logger)
	pipeline := voice.NewPipeline(transcriber, reg, mgr, logger)

	return &testEnv{
		server: NewServer(svc, store, pipeline, reg, mgr, logger),
		store:  store,
		mgr:    mgr,
	}
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	require.NoError(t, handler(c))
	return rec
}

func TestGetTranscript(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doJSON(t, env.server.GetTranscript, http.MethodGet, "/chat/transcript", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TranscriptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Turns)

	env.store.Append(types.NewTurn(types.RoleUser, "hi"))
	rec = doJSON(t, env.server.GetTranscript, http.MethodGet, "/chat/transcript", "")

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Turns, 1)
	assert.Equal(t, "hi", resp.Turns[0].PlainText())
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "hello back"}, &stubTranscriber{})

	rec := doJSON(t, env.server.SendMessage, http.MethodPost, "/chat/messages", `{"content":"hello there"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, types.RoleAssistant, resp.Turn.Role)
	assert.Equal(t, "hello back", resp.Turn.PlainText())
	assert.Equal(t, 2, env.store.Len())
}

func TestSendMessage_EmptyContent(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doJSON(t, env.server.SendMessage, http.MethodPost, "/chat/messages", `{"content":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.store.Len())
}

func TestSendMessage_MissingCredential(t *testing.T) {
	env := newTestEnv(t, &stubProvider{err: ai.ErrMissingCredential}, &stubTranscriber{})

	rec := doJSON(t, env.server.SendMessage, http.MethodPost, "/chat/messages", `{"content":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_ProviderFailure(t *testing.T) {
	env := newTestEnv(t, &stubProvider{err: &ai.APIError{Provider: ai.ProviderMistral, StatusCode: 500}}, &stubTranscriber{})

	rec := doJSON(t, env.server.SendMessage, http.MethodPost, "/chat/messages", `{"content":"hello"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSetFeedback(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})
	turn := env.store.Append(types.NewTurn(types.RoleAssistant, "answer"))

	rec := doJSON(t, env.server.SetFeedback, http.MethodPost, "/", `{"feedback":"positive"}`, "id", turn.ID)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.server.SetFeedback, http.MethodPost, "/", `{"feedback":"negative"}`, "id", turn.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, env.server.SetFeedback, http.MethodPost, "/", `{"feedback":"positive"}`, "id", "missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.server.SetFeedback, http.MethodPost, "/", `{"feedback":"great"}`, "id", turn.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateMessage_InvalidTarget(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doJSON(t, env.server.RegenerateMessage, http.MethodPost, "/", "", "id", "missing")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateMessage(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "fresh answer"}, &stubTranscriber{})
	env.store.Append(types.NewTurn(types.RoleUser, "question"))
	target := env.store.Append(types.NewTurn(types.RoleAssistant, "stale answer"))

	rec := doJSON(t, env.server.RegenerateMessage, http.MethodPost, "/", "", "id", target.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fresh answer", resp.Turn.PlainText())
	assert.NotEqual(t, target.ID, resp.Turn.ID)
}

func TestGenerateContent(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: "the article"}, &stubTranscriber{})

	rec := doJSON(t, env.server.GenerateContent, http.MethodPost, "/content/generate", `{"topic":"coffee"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "the article", resp.Text)
	assert.Zero(t, env.store.Len())
}

func TestGenerateContent_MissingTopic(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doJSON(t, env.server.GenerateContent, http.MethodPost, "/content/generate", `{"topic":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func doMultipart(t *testing.T, handler echo.HandlerFunc, fields map[string]string, audio []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if audio != nil {
		part, err := writer.CreateFormFile("audio", "clip.wav")
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/voice/transcriptions", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestTranscribeVoice_TranscriptMode(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{text: "spoken words"})

	rec := doMultipart(t, env.server.TranscribeVoice, nil, []byte("wav"))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "spoken words", resp.Text)
}

func TestTranscribeVoice_CommandMode(t *testing.T) {
	env := newTestEnv(t, &stubProvider{reply: `{"topic":"coffee","contentType":"article","tone":"friendly"}`}, &stubTranscriber{text: "write an article about coffee"})

	rec := doMultipart(t, env.server.TranscribeVoice, map[string]string{"mode": "command"}, []byte("wav"))
	require.Equal(t, http.StatusOK, rec.Code)

	var cmd types.ExtractedVoiceCommand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmd))
	assert.Equal(t, "coffee", cmd.Topic)
	assert.Equal(t, "article", cmd.ContentType)
}

func TestTranscribeVoice_MissingAudio(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doMultipart(t, env.server.TranscribeVoice, map[string]string{"mode": "transcript"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeVoice_InvalidMode(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doMultipart(t, env.server.TranscribeVoice, map[string]string{"mode": "stream"}, []byte("wav"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeVoice_EmptyTranscript(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{text: "  "})

	rec := doMultipart(t, env.server.TranscribeVoice, nil, []byte("wav"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetModelSettings(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	rec := doJSON(t, env.server.GetModelSettings, http.MethodGet, "/settings/model", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ModelSettingsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(ai.DefaultProvider), resp.Provider)
	assert.Equal(t, mistral.DefaultModel, resp.Model)
	assert.False(t, resp.HasAPIKey)
	assert.False(t, resp.UseCustomKey)
}

func TestUpdateModelSettings(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	body := `{"provider":"mistral","model":"mistral-small-latest"}`
	rec := doJSON(t, env.server.UpdateModelSettings, http.MethodPut, "/settings/model", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mistral-small-latest", env.mgr.Current().Model)
}

func TestUpdateModelSettings_Validation(t *testing.T) {
	env := newTestEnv(t, &stubProvider{}, &stubTranscriber{})

	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", `{"provider":"gemini","model":"pro"}`},
		{"model not offered", `{"provider":"mistral","model":"gpt-4o"}`},
		{"custom key without key", `{"provider":"mistral","use_custom_key":true}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, env.server.UpdateModelSettings, http.MethodPut, "/settings/model", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
