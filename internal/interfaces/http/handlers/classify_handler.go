package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	apperrors "github.com/quantnexusai/faves-v3-benchmark/pkg/errors"
)

const maxBatchSize = 100

// ClassifyHandler serves the classification endpoints.
type ClassifyHandler struct {
	svc    appcompliance.Service
	logger logging.Logger
}

// NewClassifyHandler builds a ClassifyHandler.
func NewClassifyHandler(svc appcompliance.Service, logger logging.Logger) *ClassifyHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ClassifyHandler{svc: svc, logger: logger}
}

// ClassifyRequest is the POST /classify body.
type ClassifyRequest struct {
	QueryID   string `json:"query_id"`
	SMILES    string `json:"smiles" binding:"required"`
	SkipCache bool   `json:"skip_cache"`
}

// BatchRequest is the POST /classify/batch body.
type BatchRequest struct {
	Items []ClassifyRequest `json:"items" binding:"required"`
}

// Classify handles POST /api/v1/classify.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.svc.Classify(c.Request.Context(), &appcompliance.ClassifyInput{
		QueryID:   req.QueryID,
		SMILES:    req.SMILES,
		SkipCache: req.SkipCache,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClassifyBatch handles POST /api/v1/classify/batch.
func (h *ClassifyHandler) ClassifyBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Items) == 0 {
		respondError(c, apperrors.New(apperrors.ErrCodeBadRequest, "batch is empty"))
		return
	}
	if len(req.Items) > maxBatchSize {
		respondError(c, apperrors.Newf(apperrors.ErrCodeBadRequest,
			"batch of %d exceeds the limit of %d", len(req.Items), maxBatchSize))
		return
	}

	inputs := make([]*appcompliance.ClassifyInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, &appcompliance.ClassifyInput{
			QueryID:   item.QueryID,
			SMILES:    item.SMILES,
			SkipCache: item.SkipCache,
		})
	}
	results, err := h.svc.ClassifyBatch(c.Request.Context(), inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Reload handles POST /api/v1/admin/snapshot/reload.
func (h *ClassifyHandler) Reload(c *gin.Context) {
	stats, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("snapshot reloaded via api",
		logging.String("version", stats.Version))
	c.JSON(http.StatusOK, stats)
}
