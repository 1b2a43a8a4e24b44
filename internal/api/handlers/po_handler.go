package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/service"
)

type POHandler struct {
	service *service.POService
}

func NewPOHandler(service *service.POService) *POHandler {
	return &POHandler{service: service}
}

// CreateDraft generates, persists and returns one purchase-order draft.
func (h *POHandler) CreateDraft(c *gin.Context) {
	var req service.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	draft, err := h.service.CreateDraft(c.Request.Context(), req)
	if errors.Is(err, engine.ErrNothingToOrder) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no items need reordering"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draft)
}

// GetStoreDrafts lists a store's saved drafts, newest first.
func (h *POHandler) GetStoreDrafts(c *gin.Context) {
	storeID, err := strconv.ParseInt(c.Param("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store id"})
		return
	}

	drafts, err := h.service.GetDraftsByStore(c.Request.Context(), storeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "total": len(drafts)})
}

// GetSuppliers lists the supplier directory.
func (h *POHandler) GetSuppliers(c *gin.Context) {
	suppliers, err := h.service.GetSuppliers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

// GetStores lists all stores.
func (h *POHandler) GetStores(c *gin.Context) {
	stores, err := h.service.GetStores(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}
