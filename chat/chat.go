package chat

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"poemas-backend/sse"
)

type Handler struct {
	AI PoemGenerator
}

func NewHandler(ai PoemGenerator) *Handler {
	return &Handler{AI: ai}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/generar", h.Generate)
	r.POST("/generar/stream", h.Stream)
}

// request body of /generar; a missing mensaje is treated as empty.
type generateRequest struct {
	Mensaje string `json:"mensaje"`
}

// Generate handles POST /generar { mensaje } -> { respuesta }.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo JSON inválido"})
		return
	}
	poem, err := h.AI.GeneratePoem(c.Request.Context(), req.Mensaje)
	if err != nil {
		log.Printf("[CHAT] error generando poema: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"respuesta": poem})
}

// Stream handles POST /generar/stream and answers with SSE.
func (h *Handler) Stream(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo JSON inválido"})
		return
	}
	stream, errs, err := h.AI.StreamPoem(c.Request.Context(), req.Mensaje)
	if err != nil {
		log.Printf("[CHAT][stream] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	sse.Stream(c, stream, errs)
}
