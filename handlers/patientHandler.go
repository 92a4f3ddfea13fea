package handlers

import (
	"net/http"

	"OdontoSystem/middlewares"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var input models.PatientInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	patient, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusCreated)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	patient, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	if !allowQuery(c, "active") {
		return
	}
	active, err := queryBool(c, "active")
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	patients, err := h.service.GetAll(c.Request.Context(), repositories.ActiveFilter{Active: active})
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, patients, http.StatusOK)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var input models.PatientInput
	if !middlewares.BindJSON(c, &input) {
		return
	}
	patient, err := h.service.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.HttpError(c, err)
		return
	}
	middlewares.RespondJSON(c, patient, http.StatusOK)
}

// DeletePatient deactivates the patient.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
