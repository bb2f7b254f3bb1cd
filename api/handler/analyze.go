package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sitelens/sitelens/models"
)

// Analyzer runs one site analysis. Implemented by analyzer.Service;
// declared here so handlers can be tested against a stub.
type Analyzer interface {
	Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error)
}

// Analyze returns a handler for POST /api/v1/analyze.
//
// Response contract:
//   - 200 with the (possibly partial) analysis result
//   - 422 {error:"unacceptable", message:"Url is invalid"} for rejected input,
//     signaling the caller not to retry without changing it
//   - 500 {error:<cause>} for catastrophic faults (rendering subsystem down)
func Analyze(svc Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "unacceptable",
				Message: "Url is invalid",
			})
			return
		}
		req.Defaults()

		resp, err := svc.Analyze(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps an AnalysisError to the wire contract.
func respondError(c *gin.Context, err error) {
	var ae *models.AnalysisError
	if errors.As(err, &ae) && ae.Code == models.ErrCodeInvalidInput {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "unacceptable",
			Message: "Url is invalid",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: err.Error(),
	})
}
