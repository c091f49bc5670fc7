package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rahulshendre/blockchain-based-supply-chain/internal/api/middleware"
	apierrors "github.com/rahulshendre/blockchain-based-supply-chain/internal/api/shared/errors"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/domain"
	"github.com/rahulshendre/blockchain-based-supply-chain/internal/supplychain"
)

const (
	// STEPS_CUSTODY is the history filter value that keeps custody steps only
	STEPS_CUSTODY = "custody"
	// MAX_BATCH_ID_LENGTH bounds caller-supplied batch ids
	MAX_BATCH_ID_LENGTH = 128
)

// Pinger checks a dependency for the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreateBatchRequest is the body of POST /api/v1/batches
type CreateBatchRequest struct {
	BatchID  string `json:"batchId"`
	Product  string `json:"product"`
	Quantity uint64 `json:"quantity"`
}

// HopRequest is the body of POST /api/v1/batches/:id/hops
type HopRequest struct {
	Role     string `json:"role"`
	Quantity uint64 `json:"quantity"`
	Status   string `json:"status"`
}

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// CreateBatch creates a batch as the Farmer
	// POST /api/v1/batches
	CreateBatch(c *gin.Context)

	// ListBatches lists every batch id on the ledger
	// GET /api/v1/batches
	ListBatches(c *gin.Context)

	// GetBatch returns the ledger record and journey of a batch
	// GET /api/v1/batches/:id
	GetBatch(c *gin.Context)

	// PerformHop lets a role take custody of a batch
	// POST /api/v1/batches/:id/hops
	PerformHop(c *gin.Context)

	// GetHistory returns the reconstructed event trail of a batch
	// GET /api/v1/batches/:id/history?steps=custody
	GetHistory(c *gin.Context)

	// GetProgress returns completed roles and the next eligible role
	// GET /api/v1/batches/:id/progress
	GetProgress(c *gin.Context)

	// GetQuantities returns the declared quantities of a batch
	// GET /api/v1/batches/:id/quantities
	GetQuantities(c *gin.Context)

	// GetNetwork returns chain id, head block and signer balances
	// GET /api/v1/network
	GetNetwork(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	service supplychain.Service
	db      Pinger
}

// NewHandler creates a new REST API handler
func NewHandler(service supplychain.Service, db Pinger) Handler {
	return &handler{
		service: service,
		db:      db,
	}
}

func batchID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondBadRequest(c, "Batch ID is required")
		return "", false
	}
	if len(id) > MAX_BATCH_ID_LENGTH {
		respondBadRequest(c, "Batch ID is too long")
		return "", false
	}
	return id, true
}

func (h *handler) CreateBatch(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if !middleware.AllowsRole(c, domain.RoleFarmer) {
		respondForbidden(c, "Credential may not create batches", "only the Farmer creates batches")
		return
	}

	req.Product = strings.TrimSpace(req.Product)
	req.BatchID = strings.TrimSpace(req.BatchID)
	if req.Product == "" {
		respondValidationError(c, "product is required")
		return
	}
	if req.Quantity == 0 {
		respondValidationError(c, domain.ErrInvalidQuantity.Error())
		return
	}
	if len(req.BatchID) > MAX_BATCH_ID_LENGTH {
		respondValidationError(c, "batchId is too long")
		return
	}

	result := h.service.CreateBatch(c.Request.Context(), req.Product, req.Quantity, req.BatchID)
	status := apierrors.StatusForHop(result)
	if result.Success {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (h *handler) ListBatches(c *gin.Context) {
	list, err := h.service.ListBatches(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) GetBatch(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}

	view, err := h.service.GetBatch(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, zap.String("batch_id", id))
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) PerformHop(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}

	var req HopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if role == domain.RoleFarmer {
		respondValidationError(c, "the Farmer acts by creating a batch")
		return
	}
	if !middleware.AllowsRole(c, role) {
		bound, _ := middleware.RoleFromContext(c)
		respondForbidden(c, "Credential may not act as "+string(role), "credential is bound to "+string(bound))
		return
	}
	if req.Quantity == 0 {
		respondValidationError(c, domain.ErrInvalidQuantity.Error())
		return
	}

	result := h.service.PerformHop(c.Request.Context(), id, role, domain.HopPayload{
		Quantity: req.Quantity,
		Status:   strings.TrimSpace(req.Status),
	})
	c.JSON(apierrors.StatusForHop(result), result)
}

func (h *handler) GetHistory(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}

	steps := c.Query("steps")
	if steps != "" && steps != STEPS_CUSTODY {
		respondValidationError(c, "steps must be empty or 'custody'")
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), id, steps == STEPS_CUSTODY)
	if err != nil {
		respondServiceError(c, err, zap.String("batch_id", id))
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *handler) GetProgress(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}

	progress, err := h.service.GetProgress(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, zap.String("batch_id", id))
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *handler) GetQuantities(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}

	records, err := h.service.GetQuantities(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, zap.String("batch_id", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"batchId":    id,
		"quantities": records,
	})
}

func (h *handler) GetNetwork(c *gin.Context) {
	info, err := h.service.GetNetwork(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	status := http.StatusOK
	database := "ok"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			database = err.Error()
		}
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"service":  "supply-chain-api",
		"database": database,
	})
}
