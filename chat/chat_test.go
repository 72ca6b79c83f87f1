package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeAI struct {
	poem      string
	err       error
	gotTopic  string
	streamErr error
	chunks    []string
	cutErr    error
}

func (f *fakeAI) GeneratePoem(ctx context.Context, topic string) (string, error) {
	f.gotTopic = topic
	return f.poem, f.err
}

func (f *fakeAI) StreamPoem(ctx context.Context, topic string) (<-chan string, <-chan error, error) {
	f.gotTopic = topic
	if f.streamErr != nil {
		return nil, nil, f.streamErr
	}
	ch := make(chan string, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	errs := make(chan error, 1)
	if f.cutErr != nil {
		errs <- f.cutErr
	}
	close(errs)
	return ch, errs, nil
}

func setupRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_ok(t *testing.T) {
	ai := &fakeAI{poem: "Te quiero 💕"}
	w := post(setupRouter(NewHandler(ai)), "/generar", `{"mensaje":"de amor"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"respuesta":"Te quiero 💕"}`, w.Body.String())
	assert.Equal(t, "de amor", ai.gotTopic)
}

func TestGenerate_missingMensajeIsEmpty(t *testing.T) {
	ai := &fakeAI{poem: "ok"}
	w := post(setupRouter(NewHandler(ai)), "/generar", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", ai.gotTopic)
}

func TestGenerate_upstreamError(t *testing.T) {
	ai := &fakeAI{err: errors.New("rate limit exceeded")}
	w := post(setupRouter(NewHandler(ai)), "/generar", `{"mensaje":"de amor"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestGenerate_badJSON(t *testing.T) {
	w := post(setupRouter(NewHandler(&fakeAI{})), "/generar", `{"mensaje":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestStream_ok(t *testing.T) {
	ai := &fakeAI{chunks: []string{"Mar", " 🌊"}}
	w := post(setupRouter(NewHandler(ai)), "/generar/stream", `{"mensaje":"del mar"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data: Mar\n\ndata:  🌊\n\ndata: [DONE]\n\n", w.Body.String())
	assert.Equal(t, "del mar", ai.gotTopic)
}

func TestStream_error(t *testing.T) {
	ai := &fakeAI{streamErr: errors.New("boom")}
	w := post(setupRouter(NewHandler(ai)), "/generar/stream", `{"mensaje":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestStream_cutPartway(t *testing.T) {
	ai := &fakeAI{chunks: []string{"Mar", " 🌊"}, cutErr: errors.New("openai stream: context deadline exceeded")}
	w := post(setupRouter(NewHandler(ai)), "/generar/stream", `{"mensaje":"del mar"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data: Mar\n\ndata:  🌊\n\nevent: error\ndata: openai stream: context deadline exceeded\n\n", w.Body.String())
	assert.NotContains(t, w.Body.String(), "[DONE]")
}
