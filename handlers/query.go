package handlers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"OdontoSystem/apperrors"
	"OdontoSystem/middlewares"
	"OdontoSystem/models"

	"github.com/gin-gonic/gin"
)

// allowQuery rejects requests carrying query parameters outside allowed.
func allowQuery(c *gin.Context, allowed ...string) bool {
	known := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		known[name] = true
	}
	var unknown []string
	for name := range c.Request.URL.Query() {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		middlewares.HttpError(c, apperrors.Validation("unknown query parameter: "+strings.Join(unknown, ", ")))
		return false
	}
	return true
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("%s must be true or false", name))
	}
	return &v, nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name))
	}
	return &t, nil
}

// monthQuery reads the optional month and year parameters.
func monthQuery(c *gin.Context) (int, int, error) {
	month, err := queryInt(c, "month")
	if err != nil {
		return 0, 0, err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return 0, 0, err
	}
	return month, year, nil
}
