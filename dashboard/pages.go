package dashboard

import (
	"net/http"
	"time"

	"OdontoSystem/models"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
)

// defaultSessionTTL is used when the API answer carries no usable expiry.
const defaultSessionTTL = 8 * time.Hour

func (s *Server) loginPage(c *gin.Context) {
	if utils.SessionToken(c) != "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	s.render(c, http.StatusOK, "login", page{Title: "Sign in"})
}

func (s *Server) login(c *gin.Context) {
	result, err := s.api.Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		s.render(c, http.StatusOK, "login", page{Title: "Sign in", Error: s.message(c, err)})
		return
	}
	ttl := defaultSessionTTL
	if expires, err := result.ExpiresAt.Time(); err == nil {
		ttl = expires.Sub(s.now())
	}
	utils.SetSessionCookie(c, result.AccessToken, ttl)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) logout(c *gin.Context) {
	if err := s.api.Logout(c.Request.Context(), currentSession(c).Token); err != nil && !IsUnauthorized(err) {
		s.log.Warn(c.Request.Context(), "logout call failed", err)
	}
	utils.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

type overviewData struct {
	Patients int
	Dentists int
	Today    []models.Appointment
	Clinic   *models.PersonalSummary
	Personal *models.PersonalSummary
	Month    int
	Year     int
}

func (s *Server) overview(c *gin.Context) {
	ctx, token := c.Request.Context(), currentSession(c).Token
	now := s.now()
	data := overviewData{Month: int(now.Month()), Year: now.Year()}

	patients, err := s.api.Patients(ctx, token)
	if err == nil {
		data.Patients = len(patients)
		var dentists []models.Dentist
		dentists, err = s.api.Dentists(ctx, token)
		data.Dentists = len(dentists)
	}
	if err == nil {
		data.Today, err = s.api.Appointments(ctx, token, "", now.Format(models.DateLayout))
	}
	if err == nil {
		data.Clinic, err = s.api.Summary(ctx, token, models.LedgerClinic, data.Month, data.Year)
	}
	if err == nil {
		data.Personal, err = s.api.Summary(ctx, token, models.LedgerPersonal, data.Month, data.Year)
	}
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "overview", page{Title: "Overview", Active: "overview", Error: msg, Data: data})
}

func (s *Server) patients(c *gin.Context) {
	rows, err := s.api.Patients(c.Request.Context(), currentSession(c).Token)
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "patients", page{Title: "Patients", Active: "patients", Error: msg, Data: rows})
}

func (s *Server) createPatient(c *gin.Context) {
	input := models.PatientInput{
		Name:                  formString(c, "name"),
		NationalID:            formString(c, "national_id"),
		BirthDate:             formDate(c, "birth_date"),
		Phone:                 formString(c, "phone"),
		Mobile:                formString(c, "mobile"),
		Email:                 formString(c, "email"),
		Address:               formString(c, "address"),
		City:                  formString(c, "city"),
		State:                 formString(c, "state"),
		ZipCode:               formString(c, "zip_code"),
		Occupation:            formString(c, "occupation"),
		EmergencyContactName:  formString(c, "emergency_contact_name"),
		EmergencyContactPhone: formString(c, "emergency_contact_phone"),
		BloodType:             formString(c, "blood_type"),
		Notes:                 formString(c, "notes"),
	}
	err := s.api.CreatePatient(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, "/patients", err, "Patient registered")
}

func (s *Server) deactivatePatient(c *gin.Context) {
	err := s.api.DeactivatePatient(c.Request.Context(), currentSession(c).Token, c.Param("id"))
	s.done(c, "/patients", err, "Patient deactivated")
}

func (s *Server) dentists(c *gin.Context) {
	rows, err := s.api.Dentists(c.Request.Context(), currentSession(c).Token)
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "dentists", page{Title: "Dentists", Active: "dentists", Error: msg, Data: rows})
}

func (s *Server) createDentist(c *gin.Context) {
	input := models.DentistInput{
		Name:          formString(c, "name"),
		LicenseNumber: formString(c, "license_number"),
		Specialty:     formString(c, "specialty"),
		Phone:         formString(c, "phone"),
		Email:         formString(c, "email"),
	}
	err := s.api.CreateDentist(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, "/dentists", err, "Dentist registered")
}

func (s *Server) procedures(c *gin.Context) {
	rows, err := s.api.Procedures(c.Request.Context(), currentSession(c).Token)
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "procedures", page{Title: "Procedures", Active: "procedures", Error: msg, Data: rows})
}

func (s *Server) createProcedure(c *gin.Context) {
	price, err := formDecimal(c, "default_price")
	if err != nil {
		s.done(c, "/procedures", err, "")
		return
	}
	duration, err := formInt(c, "duration_minutes")
	if err != nil {
		s.done(c, "/procedures", err, "")
		return
	}
	input := models.ProcedureInput{
		Name:            formString(c, "name"),
		Description:     formString(c, "description"),
		DefaultPrice:    price,
		DurationMinutes: duration,
	}
	err = s.api.CreateProcedure(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, "/procedures", err, "Procedure added")
}

func (s *Server) deleteProcedure(c *gin.Context) {
	err := s.api.DeleteProcedure(c.Request.Context(), currentSession(c).Token, c.Param("id"))
	s.done(c, "/procedures", err, "Procedure removed")
}

type appointmentsData struct {
	Rows     []models.Appointment
	Status   string
	Day      string
	Statuses []any
	Patients map[string]string
	Dentists map[string]string
}

func (s *Server) appointments(c *gin.Context) {
	ctx, token := c.Request.Context(), currentSession(c).Token
	data := appointmentsData{
		Status:   c.Query("status"),
		Day:      c.Query("date"),
		Statuses: models.AppointmentStatuses,
		Patients: map[string]string{},
		Dentists: map[string]string{},
	}

	rows, err := s.api.Appointments(ctx, token, data.Status, data.Day)
	data.Rows = rows
	if err == nil {
		var patients []models.Patient
		if patients, err = s.api.Patients(ctx, token); err == nil {
			for _, p := range patients {
				data.Patients[p.ID] = p.Name
			}
		}
	}
	if err == nil {
		var dentists []models.Dentist
		if dentists, err = s.api.Dentists(ctx, token); err == nil {
			for _, d := range dentists {
				data.Dentists[d.ID] = d.Name
			}
		}
	}
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "appointments", page{Title: "Appointments", Active: "appointments", Error: msg, Data: data})
}

func (s *Server) createAppointment(c *gin.Context) {
	duration, err := formInt(c, "duration_minutes")
	if err != nil {
		s.done(c, "/appointments", err, "")
		return
	}
	input := models.AppointmentInput{
		PatientID:       formString(c, "patient_id"),
		DentistID:       formString(c, "dentist_id"),
		StartsAt:        formDateTime(c, "starts_at"),
		DurationMinutes: duration,
		Notes:           formString(c, "notes"),
	}
	err = s.api.CreateAppointment(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, "/appointments", err, "Appointment scheduled")
}

func (s *Server) setAppointmentStatus(c *gin.Context) {
	input := models.AppointmentInput{Status: formString(c, "status")}
	err := s.api.UpdateAppointment(c.Request.Context(), currentSession(c).Token, c.Param("id"), input)
	s.done(c, "/appointments", err, "Appointment updated")
}

func (s *Server) cancelAppointment(c *gin.Context) {
	err := s.api.CancelAppointment(c.Request.Context(), currentSession(c).Token, c.Param("id"))
	s.done(c, "/appointments", err, "Appointment canceled")
}

type financeData struct {
	Ledger     string
	Personal   bool
	Month      int
	Year       int
	Months     []int
	Entries    []models.LedgerEntry
	Summary    *models.PersonalSummary
	Categories models.Categories
}

func validLedger(ledger string) bool {
	return ledger == models.LedgerClinic || ledger == models.LedgerPersonal
}

func (s *Server) finance(c *gin.Context) {
	ledger := c.Param("ledger")
	if !validLedger(ledger) {
		c.Redirect(http.StatusSeeOther, "/finance/"+models.LedgerClinic)
		return
	}
	ctx, token := c.Request.Context(), currentSession(c).Token
	month, year := period(c, s.now())
	data := financeData{
		Ledger:   ledger,
		Personal: ledger == models.LedgerPersonal,
		Month:    month,
		Year:     year,
		Months:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	}

	var err error
	data.Entries, err = s.api.Entries(ctx, token, ledger, month, year)
	if err == nil {
		data.Summary, err = s.api.Summary(ctx, token, ledger, month, year)
	}
	if err == nil {
		data.Categories, err = s.api.Categories(ctx, token, ledger)
	}
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	title := "Clinic finance"
	if data.Personal {
		title = "Personal finance"
	}
	s.render(c, http.StatusOK, "finance", page{Title: title, Active: ledger, Error: msg, Data: data})
}

func (s *Server) createEntry(c *gin.Context) {
	ledger := c.Param("ledger")
	target := "/finance/" + ledger
	if !validLedger(ledger) {
		c.Redirect(http.StatusSeeOther, "/finance/"+models.LedgerClinic)
		return
	}
	amount, err := formDecimal(c, "amount")
	if err != nil {
		s.done(c, target, err, "")
		return
	}
	input := models.LedgerEntryInput{
		Type:        formString(c, "type"),
		Description: formString(c, "description"),
		Amount:      amount,
		EntryDate:   formDate(c, "entry_date"),
		Category:    formString(c, "category"),
		Notes:       formString(c, "notes"),
	}
	if ledger == models.LedgerClinic {
		input.AppointmentID = formString(c, "appointment_id")
	}
	err = s.api.CreateEntry(c.Request.Context(), currentSession(c).Token, ledger, input)
	s.done(c, target, err, "Entry recorded")
}

func (s *Server) deleteEntry(c *gin.Context) {
	ledger := c.Param("ledger")
	if !validLedger(ledger) {
		c.Redirect(http.StatusSeeOther, "/finance/"+models.LedgerClinic)
		return
	}
	err := s.api.DeleteEntry(c.Request.Context(), currentSession(c).Token, ledger, c.Param("id"))
	s.done(c, "/finance/"+ledger, err, "Entry deleted")
}

func (s *Server) upsertGoal(c *gin.Context) {
	target := "/finance/" + models.LedgerPersonal
	amount, err := formDecimal(c, "target_amount")
	if err != nil {
		s.done(c, target, err, "")
		return
	}
	month, year := period(c, s.now())
	if m, err := formInt(c, "month"); err == nil && m != nil {
		month = *m
	}
	if y, err := formInt(c, "year"); err == nil && y != nil {
		year = *y
	}
	input := models.BudgetGoalInput{
		Category:     c.PostForm("category"),
		TargetAmount: amount,
		Month:        month,
		Year:         year,
	}
	err = s.api.UpsertGoal(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, target, err, "Goal saved")
}

type usersData struct {
	Rows  []models.UserProfile
	Roles []any
}

func (s *Server) users(c *gin.Context) {
	rows, err := s.api.Users(c.Request.Context(), currentSession(c).Token)
	msg, handled := s.failed(c, err)
	if handled {
		return
	}
	s.render(c, http.StatusOK, "users", page{
		Title: "Users", Active: "users", Error: msg,
		Data: usersData{Rows: rows, Roles: models.Roles},
	})
}

func (s *Server) createUser(c *gin.Context) {
	input := models.NewUserInput{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Role:     c.PostForm("role"),
	}
	err := s.api.CreateUser(c.Request.Context(), currentSession(c).Token, input)
	s.done(c, "/users", err, "User created")
}

func (s *Server) deactivateUser(c *gin.Context) {
	err := s.api.DeactivateUser(c.Request.Context(), currentSession(c).Token, c.Param("id"))
	s.done(c, "/users", err, "User deactivated")
}
