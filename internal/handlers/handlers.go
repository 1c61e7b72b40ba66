package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"auctionpricer/internal/correlator"
	"auctionpricer/internal/extract"
	"auctionpricer/internal/models"
	"auctionpricer/internal/pricing"
	"auctionpricer/internal/util"
	"auctionpricer/internal/validation"
)

// Handler exposes the coordination API: record extraction, price resolution
// and the shared current-record/estimate views.
type Handler struct {
	coordinator *correlator.Coordinator
	resolver    *pricing.Resolver
}

// New creates the API handler.
func New(coordinator *correlator.Coordinator, resolver *pricing.Resolver) *Handler {
	return &Handler{coordinator: coordinator, resolver: resolver}
}

// Extract godoc
// @Summary Extract a vehicle record from page content
// @Description Parses auction page text plus optional embedded page state into a normalized vehicle record. Structured fields win over text-derived ones.
// @Tags extraction
// @Accept json
// @Produce json
// @Param request body models.ExtractRequest true "Page content"
// @Success 200 {object} models.VehicleRecord
// @Failure 400 {object} map[string]interface{} "error: invalid request"
// @Router /api/extract [post]
func (h *Handler) Extract(c *gin.Context) {
	var req models.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid extract request", err)
		return
	}

	record := h.extractRecord(&req)
	if err := validation.ValidateRecord(record); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Extracted record failed validation", err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// VehicleExtracted godoc
// @Summary Report an extracted vehicle record
// @Description Accepts a record (or raw page content to extract one), persists it as the current record and starts background price resolution. Repeated reports of the same vehicle inside the cooldown window are acknowledged without reprocessing.
// @Tags coordination
// @Accept json
// @Produce json
// @Param request body models.ExtractRequest true "Record or page content"
// @Success 202 {object} map[string]interface{} "accepted: true"
// @Failure 400 {object} map[string]interface{} "error: invalid request"
// @Router /api/vehicle-extracted [post]
func (h *Handler) VehicleExtracted(c *gin.Context) {
	var req models.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid vehicle report", err)
		return
	}

	record := req.Record
	if record == nil {
		record = h.extractRecord(&req)
	}
	if err := validation.ValidateRecord(record); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Record failed validation", err)
		return
	}

	err := h.coordinator.HandleVehicleExtracted(record)
	if errors.Is(err, correlator.ErrDuplicate) {
		c.JSON(http.StatusAccepted, gin.H{"accepted": true, "duplicate": true})
		return
	}
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to process record", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "duplicate": false})
}

// ResolvePrice godoc
// @Summary Resolve a price estimate
// @Description Walks the resolution chain (cache, direct lookup, details lookup, calculator delegation, market estimation) for the given record, or for the current record when the body is empty.
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body models.PriceRequest false "Record to price"
// @Success 200 {object} models.PriceEstimate
// @Failure 400 {object} map[string]interface{} "error: invalid request"
// @Failure 404 {object} map[string]interface{} "error: price unavailable"
// @Router /api/price [post]
func (h *Handler) ResolvePrice(c *gin.Context) {
	var req models.PriceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid price request", err)
			return
		}
	}

	estimate, err := h.coordinator.ResolvePrice(c.Request.Context(), req.Record)
	if err != nil {
		var unavailable *pricing.PriceUnavailableError
		if errors.As(err, &unavailable) {
			util.SafeErrorResponse(c, http.StatusNotFound, "No price could be resolved for this vehicle", err)
			return
		}
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Price resolution failed", err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// PricePageResult godoc
// @Summary Report prices observed on the price-list page
// @Description Stores a price fragment reported by the driven calculator page, overriding any earlier estimate for display.
// @Tags coordination
// @Accept json
// @Produce json
// @Param request body models.PricePageResult true "Observed prices"
// @Success 200 {object} map[string]interface{} "stored: true"
// @Failure 400 {object} map[string]interface{} "error: invalid result"
// @Router /api/price-page-result [post]
func (h *Handler) PricePageResult(c *gin.Context) {
	var result models.PricePageResult
	if err := c.ShouldBindJSON(&result); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid price result", err)
		return
	}

	if err := h.coordinator.HandlePriceResult(&result); err != nil {
		util.SafeErrorResponse(c, http.StatusBadRequest, "Could not store price result", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": true})
}

// OpenCalculator godoc
// @Summary Open the price-list calculator for a record
// @Description Starts a headless calculator sequence for the record, or for the current record when the body is empty. Inside the cooldown window the open page is reused and re-filled instead of opening a second one.
// @Tags coordination
// @Accept json
// @Produce json
// @Param request body models.PriceRequest false "Record to calculate"
// @Success 202 {object} map[string]interface{} "opened or reused"
// @Failure 400 {object} map[string]interface{} "error: no record"
// @Failure 409 {object} map[string]interface{} "error: open already in progress"
// @Router /api/open-calculator [post]
func (h *Handler) OpenCalculator(c *gin.Context) {
	var req models.PriceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.SafeErrorResponse(c, http.StatusBadRequest, "Invalid calculator request", err)
			return
		}
	}

	record := req.Record
	if record == nil {
		current, err := h.coordinator.CurrentRecord()
		if err != nil {
			util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to load current record", err)
			return
		}
		if current == nil {
			util.SafeErrorResponse(c, http.StatusBadRequest, "No current vehicle record to calculate", nil)
			return
		}
		record = current
	}

	handle, reused, err := h.coordinator.OpenCalculator(c.Request.Context(), record)
	if errors.Is(err, correlator.ErrOpenInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": "Calculator open already in progress"})
		return
	}
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to open calculator", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"handle": handle, "reused": reused})
}

// CurrentRecord godoc
// @Summary Get the current vehicle record
// @Description Returns the most recently stored record while it is still fresh; 404 once stale or absent.
// @Tags coordination
// @Produce json
// @Success 200 {object} models.VehicleRecord
// @Failure 404 {object} map[string]string "error: no current record"
// @Router /api/current-record [get]
func (h *Handler) CurrentRecord(c *gin.Context) {
	record, err := h.coordinator.CurrentRecord()
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to load current record", err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No current vehicle record"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// CurrentEstimate godoc
// @Summary Get the current price estimate
// @Description Returns the most recently stored estimate, or the last resolution error when no estimate exists.
// @Tags pricing
// @Produce json
// @Success 200 {object} models.PriceEstimate
// @Failure 404 {object} map[string]string "error: no estimate"
// @Router /api/current-estimate [get]
func (h *Handler) CurrentEstimate(c *gin.Context) {
	estimate, priceError, err := h.coordinator.CurrentEstimate()
	if err != nil {
		util.SafeErrorResponse(c, http.StatusInternalServerError, "Failed to load current estimate", err)
		return
	}
	if estimate == nil {
		if priceError != "" {
			c.JSON(http.StatusNotFound, gin.H{"error": priceError})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "No current price estimate"})
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// CacheStatus godoc
// @Summary Inspect the estimate cache
// @Tags diagnostics
// @Produce json
// @Success 200 {object} pricing.CacheStatus
// @Router /api/cache-status [get]
func (h *Handler) CacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.resolver.Status())
}

// Health godoc
// @Summary Health check
// @Tags diagnostics
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) extractRecord(req *models.ExtractRequest) *models.VehicleRecord {
	now := time.Now()
	textRecord := extract.FromText(req.PageText, req.SourceURL, now)

	var structured *models.VehicleRecord
	if len(req.EmbeddedState) > 0 {
		if rec, err := extract.FromEmbeddedState(req.EmbeddedState, req.SourceURL); err == nil {
			structured = rec
		}
	}
	return extract.Normalize(structured, textRecord)
}
