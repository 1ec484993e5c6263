package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
)

const demoPassword = "demo123"

var demoUsers = []models.RegisterRequest{
	{Name: "Demo User", Email: "demo@healthtrack.com", Role: string(models.RolePatient), AbhaID: "12-3456-7890-1234"},
	{Name: "Dr. Sarah Smith", Email: "doctor@healthtrack.com", Role: string(models.RoleDoctor)},
	{Name: "General Hospital", Email: "hospital@healthtrack.com", Role: string(models.RoleProvider)},
}

// seedDemoData inserts the demo accounts. Records and the emergency
// profile are only written when the demo patient is created by this run.
func seedDemoData(ctx context.Context, db *database.DB, logger *logrus.Logger) error {
	userDAO := dao.NewUserDAO(db)
	users := service.NewUserService(userDAO, logger)
	records := service.NewRecordService(dao.NewRecordDAO(db), nil, logger)
	emergency := service.NewEmergencyService(dao.NewEmergencyProfileDAO(db), logger)

	var patient *models.User
	patientCreated := false
	for _, req := range demoUsers {
		req.Password = demoPassword
		user, err := users.Register(ctx, &req)
		switch {
		case err == nil:
			if user.Role == models.RolePatient {
				patientCreated = true
			}
		case errors.Is(err, serviceerror.Conflict):
			user, err = userDAO.GetByEmail(ctx, req.Email)
			if err != nil {
				return fmt.Errorf("load %s: %w", req.Email, err)
			}
			logger.WithField("email", req.Email).Info("Demo user already exists")
		default:
			return fmt.Errorf("register %s: %w", req.Email, err)
		}
		if user.Role == models.RolePatient {
			patient = user
		}
	}

	if !patientCreated {
		return nil
	}

	if _, err := records.CreateRecord(ctx, patient, patient.ID, &models.RecordCreateRequest{
		Title:        "Complete Blood Count (CBC)",
		Type:         string(models.RecordTypeLabReport),
		ProviderName: "General Hospital",
		Tags:         []string{"blood", "routine"},
	}); err != nil {
		return fmt.Errorf("seed record: %w", err)
	}

	if _, err := emergency.Upsert(ctx, patient, patient.ID, &models.EmergencyProfileRequest{
		Name:              patient.Name,
		BloodGroup:        "B+",
		Allergies:         []string{"Penicillin"},
		ChronicConditions: []string{"Asthma"},
		Medications:       []string{"Inhaler (Salbutamol)"},
		EmergencyContacts: []models.EmergencyContact{
			{Name: "Mother", Relation: "Parent", Phone: "+91-98XXXXXX01"},
		},
	}); err != nil {
		return fmt.Errorf("seed emergency profile: %w", err)
	}

	logger.WithField("patient_id", patient.ID).Info("Demo data seeded")
	return nil
}
