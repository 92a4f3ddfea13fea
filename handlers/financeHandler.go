package handlers

import (
	"net/http"

	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

// LedgerHandler serves one ledger; the clinic and personal ledgers each get an instance.
type LedgerHandler struct {
	service *services.LedgerService
}

func NewLedgerHandler(service *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) GetCategories(c *gin.Context) {
	middlewares.RespondJSON(c, h.service.Categories(), http.StatusOK)
}

func (h *LedgerHandler) GetSummary(c *gin.Context) {
	if !allowQuery(c, "month", "year") {
		return
	}
	month, year, err := monthQuery(c)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	var summary any
	if h.service.Kind() == models.LedgerPersonal {
		summary, err = h.service.PersonalSummary(c.Request.Context(), month, year)
	} else {
		summary, err = h.service.Summary(c.Request.Context(), month, year)
	}
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, summary, http.StatusOK)
}

func (h *LedgerHandler) GetEntries(c *gin.Context) {
	if !allowQuery(c, "type", "month", "year") {
		return
	}
	month, year, err := monthQuery(c)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	entries, err := h.service.ListEntries(c.Request.Context(), services.EntryQuery{
		Type:  c.Query("type"),
		Month: month,
		Year:  year,
	})
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, entries, http.StatusOK)
}

func (h *LedgerHandler) GetEntry(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, http.StatusOK)
}

func (h *LedgerHandler) CreateEntry(c *gin.Context) {
	var input models.LedgerEntryInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	entry, err := h.service.CreateEntry(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, http.StatusCreated)
}

func (h *LedgerHandler) UpdateEntry(c *gin.Context) {
	var input models.LedgerEntryInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	entry, err := h.service.UpdateEntry(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, entry, http.StatusOK)
}

func (h *LedgerHandler) DeleteEntry(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LedgerHandler) GetGoals(c *gin.Context) {
	if !allowQuery(c, "month", "year") {
		return
	}
	month, year, err := monthQuery(c)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	goals, err := h.service.ListGoals(c.Request.Context(), month, year)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, goals, http.StatusOK)
}

func (h *LedgerHandler) UpsertGoal(c *gin.Context) {
	var input models.BudgetGoalInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	goal, err := h.service.UpsertGoal(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, goal, http.StatusCreated)
}
