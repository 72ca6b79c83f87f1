package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"poemas-backend/paypal"
)

// CancelReason is sent to PayPal with every cancellation.
const CancelReason = "Usuario solicitó cancelación"

// Billing is the subset of the PayPal client used by the handlers.
type Billing interface {
	Token(ctx context.Context) (string, error)
	CreateProduct(ctx context.Context, p paypal.Product) (*paypal.Resource, error)
	CreatePlan(ctx context.Context, plan paypal.PlanRequest) (*paypal.Resource, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*paypal.SubscriptionDetails, error)
	CancelSubscription(ctx context.Context, subscriptionID, reason string) error
}

type Handler struct {
	billing  Billing
	clientID string // masked, only for diagnostics
}

func NewHandler(billing Billing, maskedClientID string) *Handler {
	return &Handler{billing: billing, clientID: maskedClientID}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	// Provisioning, run by hand once per environment.
	r.GET("/test_credenciales", h.testCredentials)
	r.GET("/crear_producto", h.createProduct)
	r.GET("/crear_plan/:product_id", h.createPlan)

	r.POST("/validar_pago", h.validatePayment)
	r.POST("/cancelar_suscripcion", h.cancelSubscription)
}

func (h *Handler) testCredentials(c *gin.Context) {
	if _, err := h.billing.Token(c.Request.Context()); err != nil {
		var terr *paypal.TokenError
		if errors.As(err, &terr) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success":  false,
				"mensaje":  "❌ No se pudo obtener el token",
				"verifica": "Client ID y Secret en las variables",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"mensaje":         "✅ Credenciales de PayPal válidas",
		"token_obtenido":  "Token válido",
		"client_id_usado": h.clientID,
		"siguiente_paso":  "Accede a /crear_producto para crear tu producto",
	})
}

// createProduct is NOT idempotent: every call creates a new PayPal product.
func (h *Handler) createProduct(c *gin.Context) {
	log.Printf("[PAYPAL][product] /crear_producto invocado; cada llamada crea un producto nuevo en PayPal")
	prod, err := h.billing.CreateProduct(c.Request.Context(), paypal.DefaultProduct())
	if err != nil {
		h.provisioningError(c, err, "Error al crear producto", gin.H{
			"mensaje": "Verifica tus credenciales en /test_credenciales",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"mensaje":            "✅ Producto creado exitosamente",
		"product_id":         prod.ID,
		"nombre":             prod.Name,
		"siguiente_paso":     fmt.Sprintf("Ahora accede a: /crear_plan/%s", prod.ID),
		"respuesta_completa": prod.Raw,
	})
}

// createPlan is NOT idempotent either: each call adds another plan to the product.
func (h *Handler) createPlan(c *gin.Context) {
	productID := c.Param("product_id")
	log.Printf("[PAYPAL][plan] /crear_plan invocado para %s; cada llamada crea un plan nuevo en PayPal", productID)
	plan, err := h.billing.CreatePlan(c.Request.Context(), paypal.MonthlyPlan(productID))
	if err != nil {
		h.provisioningError(c, err, "Error al crear plan", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"mensaje":            "✅ Plan creado exitosamente",
		"plan_id":            plan.ID,
		"status":             plan.Status,
		"instruccion":        fmt.Sprintf("Copia este PLAN_ID en PAYPAL_PLAN_ID para el botón de index.html: %s", plan.ID),
		"respuesta_completa": plan.Raw,
	})
}

// provisioningError maps a failed create call: 401 for token failures, the
// upstream status and body verbatim for PayPal rejections, 500 otherwise.
func (h *Handler) provisioningError(c *gin.Context, err error, what string, tokenExtra gin.H) {
	var terr *paypal.TokenError
	var aerr *paypal.APIError
	switch {
	case errors.As(err, &terr):
		body := gin.H{"success": false, "error": "No se pudo obtener token de PayPal"}
		for k, v := range tokenExtra {
			body[k] = v
		}
		c.JSON(http.StatusUnauthorized, body)
	case errors.As(err, &aerr):
		c.JSON(aerr.StatusCode, gin.H{
			"success":     false,
			"error":       what,
			"status_code": aerr.StatusCode,
			"detalles":    aerr.Body,
		})
	default:
		log.Printf("[PAYPAL] %s: %v", what, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
	}
}

// validatePayment handles POST /validar_pago { subscriptionID }.
func (h *Handler) validatePayment(c *gin.Context) {
	var body struct {
		SubscriptionID string `json:"subscriptionID"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscriptionID requerido"})
		return
	}
	sub, err := h.billing.GetSubscription(c.Request.Context(), body.SubscriptionID)
	if err != nil {
		h.lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           sub.Status,
		"subscription_id":  body.SubscriptionID,
		"subscriber_email": sub.SubscriberEmail,
	})
}

// cancelSubscription handles POST /cancelar_suscripcion { subscription_id }.
func (h *Handler) cancelSubscription(c *gin.Context) {
	var body struct {
		SubscriptionID string `json:"subscription_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SubscriptionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription_id requerido"})
		return
	}
	err := h.billing.CancelSubscription(c.Request.Context(), body.SubscriptionID, CancelReason)
	if err != nil {
		var aerr *paypal.APIError
		if errors.As(err, &aerr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo cancelar la suscripción"})
			return
		}
		h.lifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Suscripción cancelada exitosamente"})
}

func (h *Handler) lifecycleError(c *gin.Context, err error) {
	var terr *paypal.TokenError
	if errors.As(err, &terr) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No se pudo obtener token de PayPal"})
		return
	}
	log.Printf("[PAYPAL] error en suscripción: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
