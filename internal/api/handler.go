package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/models"
	"storefront-service/internal/profile"
	"storefront-service/internal/search"
	"storefront-service/internal/store"
	"storefront-service/internal/theme"
	"storefront-service/internal/toast"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const sessionHeader = "X-Session-ID"

// Handler contains HTTP handlers
type Handler struct {
	catalog  *catalog.Service
	carts    *cart.Manager
	flow     *checkout.Flow
	toasts   *toast.Hub
	profiles *profile.Service
	themes   *theme.Store
	orders   *store.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogSvc *catalog.Service,
	carts *cart.Manager,
	flow *checkout.Flow,
	toasts *toast.Hub,
	profiles *profile.Service,
	themes *theme.Store,
	orders *store.Store,
) *Handler {
	return &Handler{
		catalog:  catalogSvc,
		carts:    carts,
		flow:     flow,
		toasts:   toasts,
		profiles: profiles,
		themes:   themes,
		orders:   orders,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(sessionMiddleware())
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PUT("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)
		v1.PUT("/cart/shipping", h.setShipping)

		v1.POST("/checkout", h.beginCheckout)
		v1.GET("/checkout", h.checkoutState)
		v1.DELETE("/checkout", h.resetCheckout)

		v1.GET("/orders", h.listOrders)

		v1.GET("/toasts", h.listToasts)
		v1.POST("/toasts", h.addToast)
		v1.DELETE("/toasts/:id", h.removeToast)
		v1.DELETE("/toasts", h.clearToasts)
		v1.POST("/toasts/:id/pause", h.pauseToast)
		v1.POST("/toasts/:id/resume", h.resumeToast)

		v1.GET("/profile", h.getProfile)
		v1.PUT("/profile", h.saveProfile)

		v1.GET("/theme", h.getTheme)
		v1.POST("/theme/toggle", h.toggleTheme)
	}
}

// sessionMiddleware requires a session id, minting one for new clients. The
// minted id is echoed back in the response header.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(sessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set("session_id", sessionID)
		c.Header(sessionHeader, sessionID)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString("session_id")
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// listProducts handles catalog browsing with filter state in the query
func (h *Handler) listProducts(c *gin.Context) {
	filter := search.ParseFilter(c.Request.URL.Query())

	products, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list products",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"filter":   filter.Encode(),
	})
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// listCategories returns the distinct catalog categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list categories",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// getCart returns the session's cart snapshot
func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.carts.Snapshot(c.Request.Context(), sessionID(c)))
}

// AddCartItemRequest adds one unit of a product
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

// addCartItem handles adding a product to the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}

	session := sessionID(c)
	before := h.carts.ItemQuantity(c.Request.Context(), session, product.ID)
	quantity := h.carts.AddItem(c.Request.Context(), session, product)

	// A clamped add shows no quantity change; surface it as a toast the
	// way the storefront UI reports it.
	if quantity == before {
		h.toasts.ForSession(session).Warning("Only " + strconv.Itoa(quantity) + " of " + product.Name + " available")
	}

	c.JSON(http.StatusOK, gin.H{
		"quantity": quantity,
		"cart":     h.carts.Snapshot(c.Request.Context(), session),
	})
}

// UpdateCartItemRequest sets a line quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItem handles setting a line quantity
func (h *Handler) updateCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session := sessionID(c)
	h.carts.UpdateQuantity(c.Request.Context(), session, productID, req.Quantity)
	c.JSON(http.StatusOK, h.carts.Snapshot(c.Request.Context(), session))
}

// removeCartItem handles deleting a cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	session := sessionID(c)
	h.carts.RemoveItem(c.Request.Context(), session, productID)
	c.JSON(http.StatusOK, h.carts.Snapshot(c.Request.Context(), session))
}

// clearCart empties the session's cart
func (h *Handler) clearCart(c *gin.Context) {
	session := sessionID(c)
	h.carts.Clear(c.Request.Context(), session)
	c.JSON(http.StatusOK, h.carts.Snapshot(c.Request.Context(), session))
}

// SetShippingRequest selects a shipping option
type SetShippingRequest struct {
	Option string `json:"option" binding:"required"`
}

// setShipping handles shipping option selection
func (h *Handler) setShipping(c *gin.Context) {
	var req SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session := sessionID(c)
	if err := h.carts.SetShipping(c.Request.Context(), session, req.Option); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.carts.Snapshot(c.Request.Context(), session))
}

// beginCheckout starts the checkout flow
func (h *Handler) beginCheckout(c *gin.Context) {
	session := sessionID(c)

	err := h.flow.Begin(c.Request.Context(), session)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		h.toasts.ForSession(session).Error(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	case errors.Is(err, checkout.ErrItemsUnavailable):
		h.toasts.ForSession(session).Error(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"state":   h.flow.State(session),
	})
}

// checkoutState returns the session's checkout state
func (h *Handler) checkoutState(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow.State(sessionID(c)))
}

// resetCheckout returns the session to Idle
func (h *Handler) resetCheckout(c *gin.Context) {
	if err := h.flow.Reset(sessionID(c)); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// listOrders returns the session's archived orders
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.GetOrdersBySessionID(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list orders",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// listToasts returns the session's visible toasts
func (h *Handler) listToasts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"toasts": h.toasts.ForSession(sessionID(c)).List(),
	})
}

// AddToastRequest shows a toast
type AddToastRequest struct {
	Message    string `json:"message" binding:"required"`
	Type       string `json:"type"`
	DurationMS int    `json:"duration_ms"`
	Persistent bool   `json:"persistent"`
}

// addToast handles showing a toast
func (h *Handler) addToast(c *gin.Context) {
	var req AddToastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	toastType := req.Type
	switch toastType {
	case models.ToastSuccess, models.ToastError, models.ToastWarning:
	default:
		toastType = models.ToastInfo
	}

	id := h.toasts.ForSession(sessionID(c)).Add(req.Message, toastType, &toast.Options{
		Duration:   time.Duration(req.DurationMS) * time.Millisecond,
		Persistent: req.Persistent,
	})

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// removeToast dismisses one toast
func (h *Handler) removeToast(c *gin.Context) {
	h.toasts.ForSession(sessionID(c)).Remove(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// clearToasts dismisses all of the session's toasts
func (h *Handler) clearToasts(c *gin.Context) {
	h.toasts.ForSession(sessionID(c)).Clear()
	c.Status(http.StatusNoContent)
}

// pauseToast suspends a toast's expiry, for hover-to-pause
func (h *Handler) pauseToast(c *gin.Context) {
	h.toasts.ForSession(sessionID(c)).Pause(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// ResumeToastRequest resumes a paused toast
type ResumeToastRequest struct {
	DurationMS int `json:"duration_ms"`
}

// resumeToast reschedules a paused toast's expiry
func (h *Handler) resumeToast(c *gin.Context) {
	var req ResumeToastRequest
	_ = c.ShouldBindJSON(&req)

	h.toasts.ForSession(sessionID(c)).Resume(c.Param("id"),
		time.Duration(req.DurationMS)*time.Millisecond)
	c.Status(http.StatusNoContent)
}

// getProfile returns the session's saved profile
func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load profile",
			"details": err.Error(),
		})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No profile saved"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// saveProfile validates and saves the session's profile
func (h *Handler) saveProfile(c *gin.Context) {
	var p models.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session := sessionID(c)
	fieldErrors, err := h.profiles.Save(c.Request.Context(), session, &p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save profile",
			"details": err.Error(),
		})
		return
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Validation failed",
			"fields": fieldErrors,
		})
		return
	}

	h.toasts.ForSession(session).Success("Profile updated")
	c.JSON(http.StatusOK, p)
}

// getTheme returns the session's theme state and color tokens
func (h *Handler) getTheme(c *gin.Context) {
	prefersDark := c.Query("prefers_dark") == "true"

	dark, err := h.themes.DarkMode(c.Request.Context(), sessionID(c), prefersDark)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load theme",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dark_mode": dark,
		"colors":    theme.ColorsFor(dark),
	})
}

// toggleTheme flips and persists the session's dark-mode flag
func (h *Handler) toggleTheme(c *gin.Context) {
	prefersDark := c.Query("prefers_dark") == "true"

	dark, err := h.themes.Toggle(c.Request.Context(), sessionID(c), prefersDark)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to toggle theme",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dark_mode": dark,
		"colors":    theme.ColorsFor(dark),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
