package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"OdontoSystem/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// formError is a form value the dashboard could not convert.
type formError string

func (e formError) Error() string { return string(e) }

// formString returns nil for blank fields so they are left out of the payload.
func formString(c *gin.Context, name string) *string {
	v := strings.TrimSpace(c.PostForm(name))
	if v == "" {
		return nil
	}
	return &v
}

func formInt(c *gin.Context, name string) (*int, error) {
	raw := formString(c, name)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return nil, formError(fmt.Sprintf("%s must be a whole number", name))
	}
	return &v, nil
}

// formDecimal accepts both 1234.56 and 1234,56.
func formDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := formString(c, name)
	if raw == nil {
		return nil, nil
	}
	v, err := decimal.NewFromString(strings.Replace(*raw, ",", ".", 1))
	if err != nil {
		return nil, formError(fmt.Sprintf("%s must be a number", name))
	}
	return &v, nil
}

func formDate(c *gin.Context, name string) *models.Date {
	raw := formString(c, name)
	if raw == nil {
		return nil
	}
	d := models.Date(*raw)
	return &d
}

// formDateTime reads an <input type="datetime-local"> value.
func formDateTime(c *gin.Context, name string) *models.DateTime {
	raw := formString(c, name)
	if raw == nil {
		return nil
	}
	d := models.DateTime(*raw)
	return &d
}

// period reads the month selector, defaulting to the current month.
func period(c *gin.Context, now time.Time) (int, int) {
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		month = int(now.Month())
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1900 || year > 9999 {
		year = now.Year()
	}
	return month, year
}
