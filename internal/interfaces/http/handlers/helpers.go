package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/shared/errors"
)

// bindJSON decodes and validates the body, turning binding failures into a
// validation error the client can read.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return nil
}

func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid "+name, raw)
	}
	return uint(id), nil
}

func parseOptionalIDQuery(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, errors.NewValidationError("invalid "+name, raw)
	}
	v := uint(id)
	return &v, nil
}
