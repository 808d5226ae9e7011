package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"raffle/internal/models"
	"raffle/internal/services"
)

const (
	sessionCookie = "raffle_session"
	sessionHeader = "X-Session-ID"
	tenantKey     = "tenantID"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the raffle service.
type HTTPHandler struct {
	service   *services.RaffleService
	templates *template.Template
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.RaffleService, templates *template.Template) *HTTPHandler {
	return &HTTPHandler{
		service:   service,
		templates: templates,
	}
}

// TemplateFuncs are the helpers available to the page templates.
var TemplateFuncs = template.FuncMap{
	"brl": models.FormatBRL,
	"ticketLabel": func(n int) string {
		return fmt.Sprintf("%04d", n)
	},
	"date": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
}

// renderPage is a helper to perform a two-step template rendering.
// It first executes the content template into a buffer, then executes the main
// layout template, passing the rendered content as a variable.
func (h *HTTPHandler) renderPage(c *gin.Context, pageData gin.H, contentTmpl string) {
	buf := new(bytes.Buffer)
	err := h.templates.ExecuteTemplate(buf, contentTmpl, pageData)
	if err != nil {
		logger.Errorf("Error executing content template %s: %v", contentTmpl, err)
		c.String(http.StatusInternalServerError, "Template rendering error")
		return
	}

	pageData["PageContent"] = template.HTML(buf.String())

	c.Header("Content-Type", "text/html; charset=utf-8")
	err = h.templates.ExecuteTemplate(c.Writer, "layout.html", pageData)
	if err != nil {
		logger.Errorf("Error executing layout template: %v", err)
		c.String(http.StatusInternalServerError, "Template rendering error")
	}
}

// RegisterPublicRoutes registers routes that need no session.
func (h *HTTPHandler) RegisterPublicRoutes(router gin.IRoutes) {
	router.GET("/health", h.Health)
	router.GET("/api/categories", h.ListCategories)
}

// RegisterTenantRoutes registers routes that operate on the caller's session.
func (h *HTTPHandler) RegisterTenantRoutes(router gin.IRoutes) {
	router.GET("/", h.ShowIndex)
	router.GET("/raffles/:id", h.ShowRafflePage)
	router.GET("/dashboard", h.ShowDashboardPage)

	router.POST("/api/descriptions", h.GenerateDescription)
	router.GET("/api/raffles", h.ListRaffles)
	router.POST("/api/raffles", h.CreateRaffle)
	router.GET("/api/raffles/:id", h.GetRaffle)
	router.POST("/api/raffles/:id/tickets/:number/toggle", h.ToggleTicket)
	router.POST("/api/raffles/:id/purchase", h.Purchase)
	router.GET("/api/raffles/:id/buyers.csv", h.ExportBuyersCSV)
	router.GET("/api/dashboard", h.GetDashboard)
	router.DELETE("/api/session", h.ClearSession)
}

// TenantMiddleware identifies the session from the X-Session-ID header or the session
// cookie, issuing a new cookie when neither is present.
func (h *HTTPHandler) TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(sessionHeader))
		if tenantID == "" {
			if v, err := c.Cookie(sessionCookie); err == nil {
				tenantID = v
			}
		}
		if tenantID == "" {
			tenantID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, tenantID, 0, "/", "", false, true)
		}
		c.Set(tenantKey, tenantID)
		c.Next()
	}
}

func tenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// abortWithError maps service errors to HTTP status codes.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrRaffleNotFound), errors.Is(err, services.ErrTicketNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrImmutablePrice), errors.Is(err, services.ErrImmutableTickets):
		status = http.StatusConflict
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCategories returns the choices offered by the creation form.
func (h *HTTPHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories":     models.Categories,
		"payoutKeyTypes": models.PayoutKeyTypes,
		"ticketSizes":    models.TicketSizes,
		"maxTickets":     models.MaxTicketCount,
	})
}

type describeRequest struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
}

// GenerateDescription returns a short description for a prize.
func (h *HTTPHandler) GenerateDescription(c *gin.Context) {
	var req describeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	text, err := h.service.GenerateDescription(c.Request.Context(), req.Name, req.Category)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": text})
}

type raffleListItem struct {
	models.PublicRaffle
	Metrics models.Metrics `json:"metrics"`
}

func listItems(raffles []models.Raffle) []raffleListItem {
	items := make([]raffleListItem, 0, len(raffles))
	for _, r := range raffles {
		items = append(items, raffleListItem{PublicRaffle: r.Public(false), Metrics: services.DeriveMetrics(r)})
	}
	return items
}

// ListRaffles returns the session's raffles without their tickets.
func (h *HTTPHandler) ListRaffles(c *gin.Context) {
	items := listItems(h.service.Raffles(tenantID(c)))
	c.JSON(http.StatusOK, gin.H{"raffles": items})
}

type createRaffleRequest struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Category      models.Category      `json:"category"`
	Image         string               `json:"image"`
	Seller        string               `json:"seller"`
	DrawDate      string               `json:"drawDate"`
	TicketPrice   decimal.Decimal      `json:"ticketPrice"`
	TicketCount   int                  `json:"ticketCount"`
	PayoutKeyType models.PayoutKeyType `json:"payoutKeyType"`
	PayoutKey     string               `json:"payoutKey"`
}

// drawDateLayouts accepts full timestamps and the browser's datetime-local format.
var drawDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

func parseDrawDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range drawDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid draw date %q", value)
}

// CreateRaffle creates a raffle from the seller's form.
func (h *HTTPHandler) CreateRaffle(c *gin.Context) {
	var req createRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	drawDate, err := parseDrawDate(req.DrawDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.service.CreateRaffle(tenantID(c), models.RaffleDraft{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Image:         req.Image,
		Seller:        req.Seller,
		DrawDate:      drawDate,
		TicketPrice:   req.TicketPrice,
		TicketCount:   req.TicketCount,
		PayoutKeyType: req.PayoutKeyType,
		PayoutKey:     req.PayoutKey,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffleDetail(r))
}

func raffleDetail(r models.Raffle) gin.H {
	return gin.H{
		"raffle":   r.Public(true),
		"metrics":  services.DeriveMetrics(r),
		"selected": services.SelectedNumbers(r),
	}
}

// GetRaffle returns a raffle with its tickets, metrics and current selection.
func (h *HTTPHandler) GetRaffle(c *gin.Context) {
	r, err := h.service.Raffle(tenantID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffleDetail(r))
}

// ToggleTicket flips the selection of one ticket.
func (h *HTTPHandler) ToggleTicket(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid ticket number"})
		return
	}
	r, err := h.service.ToggleSelection(tenantID(c), c.Param("id"), number)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffleDetail(r))
}

type purchaseRequest struct {
	Numbers      []int  `json:"numbers"`
	BuyerName    string `json:"buyerName"`
	BuyerContact string `json:"buyerContact"`
}

// Purchase sells the selected tickets to the buyer.
func (h *HTTPHandler) Purchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	r, err := h.service.Purchase(tenantID(c), c.Param("id"), req.Numbers, req.BuyerName, req.BuyerContact)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffleDetail(r))
}

// GetDashboard returns the seller's aggregate view.
func (h *HTTPHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Dashboard(tenantID(c)))
}

// ClearSession drops every raffle of the caller's session.
func (h *HTTPHandler) ClearSession(c *gin.Context) {
	h.service.ClearSession(tenantID(c))
	c.Status(http.StatusNoContent)
}

// ExportBuyersCSV handles the request to download the sold tickets of a raffle as a CSV file.
func (h *HTTPHandler) ExportBuyersCSV(c *gin.Context) {
	r, err := h.service.Raffle(tenantID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename="+r.ID+"-buyers.csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"Número", "Comprador", "Contato", "Valor"}); err != nil {
		logger.Errorf("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	price := models.FormatBRL(r.TicketPrice)
	for _, t := range r.Tickets {
		if t.Status != models.TicketSold {
			continue
		}
		row := []string{strconv.Itoa(t.Number), t.BuyerName, t.BuyerContact, price}
		if err := w.Write(row); err != nil {
			logger.Errorf("Error writing CSV row: %v", err)
			c.String(http.StatusInternalServerError, "Error writing CSV")
			return
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}

// ShowIndex handles the request for the raffle list page.
func (h *HTTPHandler) ShowIndex(c *gin.Context) {
	items := listItems(h.service.Raffles(tenantID(c)))
	h.renderPage(c, gin.H{"title": "Rifas", "Raffles": items}, "index.html")
}

// ShowRafflePage handles the request for a raffle's ticket grid.
func (h *HTTPHandler) ShowRafflePage(c *gin.Context) {
	r, err := h.service.Raffle(tenantID(c), c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	data := gin.H{
		"title":    r.Name,
		"Raffle":   r.Public(true),
		"Metrics":  services.DeriveMetrics(r),
		"Selected": services.SelectedNumbers(r),
	}
	h.renderPage(c, data, "raffle.html")
}

// ShowDashboardPage handles the request for the seller dashboard.
func (h *HTTPHandler) ShowDashboardPage(c *gin.Context) {
	data := gin.H{
		"title":     "Painel",
		"Dashboard": h.service.Dashboard(tenantID(c)),
	}
	h.renderPage(c, data, "dashboard.html")
}
