package domain

// Consultation statuses as reported by the API.
const (
	ConsultationUpcoming  = "upcoming"
	ConsultationScheduled = "scheduled"
	ConsultationActive    = "active"
	ConsultationCompleted = "completed"
	ConsultationCancelled = "cancelled"
)

// Consultation is a single doctor/patient encounter.
type Consultation struct {
	ID          ID     `json:"id"`
	PatientID   ID     `json:"patient_id,omitempty"`
	DoctorID    ID     `json:"doctor_id,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	StartedAt   string `json:"started_at,omitempty"`
	EndedAt     string `json:"ended_at,omitempty"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Diagnosis   string `json:"diagnosis,omitempty"`
}

// DoctorProfile pairs a doctor's account with their practice details.
type DoctorProfile struct {
	ID        ID     `json:"id"`
	User      User   `json:"user"`
	Specialty string `json:"specialty,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// PatientProfile pairs a patient's account with their demographics.
type PatientProfile struct {
	ID   ID     `json:"id"`
	User User   `json:"user"`
	Age  int    `json:"age,omitempty"`
	Sex  string `json:"sex,omitempty"`
}

// MedicalRecord is a single entry in a patient's history.
type MedicalRecord struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	Summary   string `json:"summary,omitempty"`
}

// PatientSummary is the listing row returned by GET /patients.
type PatientSummary struct {
	User
	ConsultationCount int    `json:"consultation_count,omitempty"`
	LastConsultation  string `json:"last_consultation,omitempty"`
}

// AdminStats is the aggregate block on the admin dashboard.
type AdminStats struct {
	TotalDoctors        int `json:"total_doctors"`
	TotalPatients       int `json:"total_patients"`
	TotalConsultations  int `json:"total_consultations"`
	ActiveConsultations int `json:"active_consultations"`
}

// AdminDashboard is the payload of GET /dashboard/admin.
type AdminDashboard struct {
	Stats               AdminStats     `json:"stats"`
	RecentConsultations []Consultation `json:"recent_consultations"`
}

// DoctorDashboard is the payload of GET /dashboard/doctor.
type DoctorDashboard struct {
	UpcomingConsultations []Consultation `json:"upcoming_consultations"`
	RecentConsultations   []Consultation `json:"recent_consultations"`
	DoctorInfo            DoctorProfile  `json:"doctor_info"`
}

// PatientDashboard is the payload of GET /dashboard/patient.
type PatientDashboard struct {
	UpcomingConsultations []Consultation `json:"upcoming_consultations"`
	PastConsultations     []Consultation `json:"past_consultations"`
	PatientInfo           PatientProfile `json:"patient_info"`
}

// Health is the payload of GET /health.
type Health struct {
	Status string `json:"status"`
	TS     string `json:"ts,omitempty"`
}

// AuthResult is what a successful login or registration yields once the
// token has been extracted from whichever field the API used.
type AuthResult struct {
	User  User
	Token string
}

// Registration is the input to account creation.
type Registration struct {
	Email     string
	Password  string
	Role      Role
	FirstName string
	LastName  string
}
