package database

const (
	TableUsers           = "users"
	TablePatients        = "patients"
	TableDentists        = "dentists"
	TableProcedures      = "procedures"
	TableAppointments    = "appointments"
	TableClinicEntries   = "clinic_entries"
	TablePersonalEntries = "personal_entries"
	TablePersonalGoals   = "personal_goals"
)
