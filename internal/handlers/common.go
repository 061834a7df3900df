package handlers

import (
	"net/http"
	"strconv"

	"notekit/internal/dto"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.Error("invalid id"))
		return 0, false
	}
	return id, true
}

// boolQuery parses an optional bool query param; absent = nil. A malformed
// value responds 400 and reports ok=false.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(name+" must be a boolean"))
		return nil, false
	}
	return &v, true
}
