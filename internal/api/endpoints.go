package api

import (
	"context"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

// Health checks API liveness. Unauthenticated.
func (c *Client) Health(ctx context.Context) (domain.Health, error) {
	var h domain.Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return domain.Health{}, err
	}
	return h, nil
}

// AdminDashboard fetches the admin aggregate: platform stats plus recent
// consultations.
func (c *Client) AdminDashboard(ctx context.Context) (domain.AdminDashboard, error) {
	var d domain.AdminDashboard
	if err := c.get(ctx, "/dashboard/admin", &d); err != nil {
		return domain.AdminDashboard{}, err
	}
	return d, nil
}

// DoctorDashboard fetches the doctor's consultations and profile.
func (c *Client) DoctorDashboard(ctx context.Context) (domain.DoctorDashboard, error) {
	var d domain.DoctorDashboard
	if err := c.get(ctx, "/dashboard/doctor", &d); err != nil {
		return domain.DoctorDashboard{}, err
	}
	return d, nil
}

// PatientDashboard fetches the patient's consultations and profile.
func (c *Client) PatientDashboard(ctx context.Context) (domain.PatientDashboard, error) {
	var d domain.PatientDashboard
	if err := c.get(ctx, "/dashboard/patient", &d); err != nil {
		return domain.PatientDashboard{}, err
	}
	return d, nil
}

// Users lists every account. Admin only, enforced server-side.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var res struct {
		Users []domain.User `json:"users"`
	}
	if err := c.get(ctx, "/users", &res); err != nil {
		return nil, err
	}
	return res.Users, nil
}

// Patients lists patient summaries, unwrapped from the paging envelope.
func (c *Client) Patients(ctx context.Context) ([]domain.PatientSummary, error) {
	var res struct {
		Patients   []domain.PatientSummary `json:"patients"`
		TotalCount int                     `json:"total_count"`
	}
	if err := c.get(ctx, "/patients", &res); err != nil {
		return nil, err
	}
	return res.Patients, nil
}
