package handlers

import (
	"net/http"

	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

type DentistHandler struct {
	service *services.DentistService
}

func NewDentistHandler(service *services.DentistService) *DentistHandler {
	return &DentistHandler{service: service}
}

func (h *DentistHandler) CreateDentist(c *gin.Context) {
	var input models.DentistInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	dentist, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, dentist, http.StatusCreated)
}

func (h *DentistHandler) GetDentistByID(c *gin.Context) {
	dentist, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, dentist, http.StatusOK)
}

func (h *DentistHandler) GetAllDentists(c *gin.Context) {
	if !allowQuery(c, "active") {
		return
	}
	active, err := queryBool(c, "active")
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	dentists, err := h.service.GetAll(c.Request.Context(), repositories.ActiveFilter{Active: active})
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, dentists, http.StatusOK)
}

func (h *DentistHandler) UpdateDentist(c *gin.Context) {
	var input models.DentistInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	dentist, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, dentist, http.StatusOK)
}

// DeleteDentist deactivates the dentist.
func (h *DentistHandler) DeleteDentist(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
