package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-api/internal/config"
	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service"
	"github.com/healthtrack/healthtrack-api/internal/service/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDB struct{ err error }

func (f fakeDB) HealthCheck(context.Context) error { return f.err }

type testEnv struct {
	router   *gin.Engine
	auth     *service.AuthService
	consents *mocks.MockConsentDAO
	users    *mocks.MockUserDAO
	records  *mocks.MockRecordDAO
	profiles *mocks.MockEmergencyProfileDAO
	family   *mocks.MockFamilyMemberDAO
	audit    *mocks.MockAuditRecorder

	doctor  *models.User
	patient *models.User
}

func newTestEnv(t *testing.T, db fakeDB) *testEnv {
	t.Helper()
	logger, _ := test.NewNullLogger()
	env := &testEnv{
		consents: &mocks.MockConsentDAO{},
		users:    &mocks.MockUserDAO{},
		records:  &mocks.MockRecordDAO{},
		profiles: &mocks.MockEmergencyProfileDAO{},
		family:   &mocks.MockFamilyMemberDAO{},
		audit:    &mocks.MockAuditRecorder{},
		doctor:   &models.User{ID: "USER-doctor", Name: "Dr. Sarah Smith", Role: models.RoleDoctor},
		patient:  &models.User{ID: "USER-patient", Name: "Demo User", Role: models.RolePatient},
	}
	env.users.On("GetByID", mock.Anything, env.doctor.ID).Return(env.doctor, nil)
	env.users.On("GetByID", mock.Anything, env.patient.ID).Return(env.patient, nil)

	statusAudits := &mocks.MockStatusAuditDAO{}
	statusAudits.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	tx := &mocks.TxRunner{}

	env.auth = service.NewAuthService(env.users, config.JWTConfig{Secret: "s3cret", Issuer: "test", TTL: time.Hour}, logger)
	consentService := service.NewConsentService(env.consents, statusAudits, env.users, tx, logger)
	guard := service.NewAccessGuard(env.consents, logger)

	env.router = SetupRouter(Services{
		DB:        db,
		Users:     service.NewUserService(env.users, logger),
		Auth:      env.auth,
		Consents:  consentService,
		Doctors:   service.NewDoctorService(env.consents, env.users, env.records, guard, env.audit, logger),
		Records:   service.NewRecordService(env.records, env.audit, logger),
		Emergency: service.NewEmergencyService(env.profiles, logger),
		Family:    service.NewFamilyService(env.family, logger),
		Audit:     env.audit,
	}, config.CORSConfig{}, logger)
	return env
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := e.auth.IssueToken(user)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path string, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, user))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func TestHealth(t *testing.T) {
	w := newTestEnv(t, fakeDB{}).do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	w = newTestEnv(t, fakeDB{err: errors.New("down")}).do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	for _, route := range [][2]string{
		{http.MethodGet, "/api/doctor/stats"},
		{http.MethodGet, "/api/consent/pending"},
		{http.MethodGet, "/api/users/USER-patient/records"},
		{http.MethodGet, "/api/audit/RECORD-1"},
	} {
		w := env.do(t, route[0], route[1], nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route[1])
	}
}

func TestRoleGates(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	w := env.do(t, http.MethodGet, "/api/doctor/stats", env.patient, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/consent/CONSENT-1", env.doctor, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDoctorRecordsDeniedWithoutConsent(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("GetByPair", mock.Anything, env.doctor.ID, env.patient.ID).Return(nil, dao.ErrNotFound)

	w := env.do(t, http.MethodGet, "/api/doctor/patients/USER-patient/records", env.doctor, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body models.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "HT-4030", body.Code)
	assert.Equal(t, service.AccessDeniedMessage, body.Details)
	env.records.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestDoctorRecordsWithApprovedConsent(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("GetByPair", mock.Anything, env.doctor.ID, env.patient.ID).
		Return(&models.Consent{Status: models.ConsentStatusApproved}, nil)
	env.records.On("ListByUser", mock.Anything, env.patient.ID).Return([]models.Record{{ID: "RECORD-1"}}, nil)
	env.audit.On("Record", mock.Anything).Return()

	w := env.do(t, http.MethodGet, "/api/doctor/patients/USER-patient/records", env.doctor, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool            `json:"success"`
		Data    []models.Record `json:"data"`
	}
	decode(t, w, &body)
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	env.audit.AssertNumberOfCalls(t, "Record", 1)
}

func TestConsentRequestFlow(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("GetByPairWithTx", mock.Anything, mock.Anything, env.doctor.ID, env.patient.ID).Return(nil, dao.ErrNotFound).Once()
	env.consents.On("CreateWithTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	w := env.do(t, http.MethodPost, "/api/consent/request", env.doctor, map[string]string{"patientId": env.patient.ID})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message string                     `json:"message"`
		Data    models.RequestAccessResult `json:"data"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Access request sent successfully", body.Message)
	assert.Equal(t, models.ConsentStatusPending, body.Data.Status)
	assert.False(t, body.Data.ReRequested)

	env.consents.On("GetByPairWithTx", mock.Anything, mock.Anything, env.doctor.ID, env.patient.ID).
		Return(&models.Consent{ID: "CONSENT-1", Status: models.ConsentStatusPending}, nil)

	w = env.do(t, http.MethodPost, "/api/doctor/patients/USER-patient/request-access", env.doctor, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errBody models.ErrorResponse
	decode(t, w, &errBody)
	assert.Equal(t, "HT-4001", errBody.Code)
	assert.Equal(t, "Request already exists with status: PENDING", errBody.Details)
}

func TestConsentRequestForAnotherDoctor(t *testing.T) {
	env := newTestEnv(t, fakeDB{})

	w := env.do(t, http.MethodPost, "/api/consent/request", env.doctor,
		map[string]string{"doctorId": "USER-someone-else", "patientId": env.patient.ID})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConsentDecisionErrors(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("GetByID", mock.Anything, "CONSENT-missing").Return(nil, dao.ErrNotFound)

	w := env.do(t, http.MethodPut, "/api/consent/CONSENT-1", env.patient, map[string]string{"status": "MAYBE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body models.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, "HT-4002", body.Code)

	w = env.do(t, http.MethodPut, "/api/consent/CONSENT-missing", env.patient, map[string]string{"status": "APPROVED"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	decode(t, w, &body)
	assert.Equal(t, "Request not found", body.Details)
}

func TestConsentDecisionSuccess(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("GetByID", mock.Anything, "CONSENT-1").Return(&models.Consent{
		ID: "CONSENT-1", DoctorID: env.doctor.ID, PatientID: env.patient.ID, Status: models.ConsentStatusPending,
	}, nil)
	env.consents.On("UpdateStatusWithTx", mock.Anything, mock.Anything, "CONSENT-1", env.patient.ID, models.ConsentStatusApproved, mock.Anything).Return(nil)

	w := env.do(t, http.MethodPut, "/api/consent/CONSENT-1", env.patient, map[string]string{"status": "APPROVED"})

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Message string         `json:"message"`
		Data    models.Consent `json:"data"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Request APPROVED", body.Message)
	assert.Equal(t, models.ConsentStatusApproved, body.Data.Status)
}

func TestPendingListIsScopedToCaller(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.consents.On("ListByPatientAndStatus", mock.Anything, env.patient.ID, models.ConsentStatusPending).Return([]models.Consent{}, nil)
	env.users.On("GetByIDs", mock.Anything, []string{}).Return(map[string]models.User{}, nil)

	w := env.do(t, http.MethodGet, "/api/consent/pending", env.patient, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/consent/pending?patientId=USER-other", env.patient, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOwnRecordsRoutes(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.records.On("Create", mock.Anything, mock.Anything).Return(nil)
	env.records.On("GetByID", mock.Anything, env.patient.ID, "RECORD-x").Return(nil, dao.ErrNotFound)

	w := env.do(t, http.MethodPost, "/api/users/USER-patient/records", env.patient, map[string]string{
		"title": "Complete Blood Count", "type": "LAB_REPORT", "providerName": "City Lab",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/USER-patient/records", env.patient, map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/USER-patient/records/RECORD-x", env.patient, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/USER-patient/records", env.doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFamilyRoutes(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.family.On("Create", mock.Anything, mock.Anything).Return(nil)
	env.family.On("GetByID", mock.Anything, env.patient.ID, "FAMILY-1").Return(&models.FamilyMember{ID: "FAMILY-1"}, nil)
	env.family.On("SetEmergencyProfile", mock.Anything, env.patient.ID, "FAMILY-1", true).Return(nil)

	w := env.do(t, http.MethodPost, "/api/users/USER-patient/family", env.patient, map[string]interface{}{
		"name": "Jane", "relation": "Mother", "age": 58,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/users/USER-patient/family", env.patient, map[string]interface{}{"name": "Jane"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/users/USER-patient/family/FAMILY-1/toggle-emergency", env.patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.FamilyMember `json:"data"`
	}
	decode(t, w, &body)
	assert.True(t, body.Data.HasEmergencyProfile)
}

func TestEmergencyRoutes(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.profiles.On("Get", mock.Anything, "USER-nobody").Return(nil, dao.ErrNotFound)
	env.profiles.On("Get", mock.Anything, env.patient.ID).Return(&models.EmergencyProfile{
		UserID: env.patient.ID, Name: "Demo User", BloodGroup: "B+",
		Visibility: models.Visibility{BloodGroup: false},
	}, nil)
	env.profiles.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	w := env.do(t, http.MethodGet, "/api/emergency/USER-nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/emergency/USER-patient", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	decode(t, w, &body)
	assert.NotContains(t, body.Data, "bloodGroup")
	assert.Equal(t, "Demo User", body.Data["name"])

	w = env.do(t, http.MethodPost, "/api/emergency/USER-patient", nil, map[string]string{"bloodGroup": "B+"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/emergency/USER-patient", env.patient, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/emergency/USER-patient", env.patient, map[string]string{"bloodGroup": "B+"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmergencyOwnerRoute(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.profiles.On("Get", mock.Anything, env.patient.ID).Return(&models.EmergencyProfile{
		UserID: env.patient.ID, Name: "Demo User", BloodGroup: "B+",
		Visibility: models.Visibility{BloodGroup: false, Allergies: true},
	}, nil)

	w := env.do(t, http.MethodGet, "/api/users/USER-patient/emergency", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/USER-patient/emergency", env.doctor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/USER-patient/emergency", env.patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.EmergencyProfile `json:"data"`
	}
	decode(t, w, &body)
	assert.Equal(t, "B+", body.Data.BloodGroup)
	assert.False(t, body.Data.Visibility.BloodGroup)
	assert.True(t, body.Data.Visibility.Allergies)
}

func TestAuditRoutes(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.audit.On("Record", models.AuditEntry{RecordID: "RECORD-1", ViewerID: "USER-x", Action: "DOWNLOADED"}).Return()
	env.audit.On("Record", models.AuditEntry{RecordID: "RECORD-2"}).Return()
	env.audit.On("Query", mock.Anything, "RECORD-1").Return([]models.AuditEntry{{ID: "a", RecordID: "RECORD-1"}}, nil)

	w := env.do(t, http.MethodPost, "/api/audit/RECORD-1", nil, map[string]string{"viewerId": "USER-x", "action": "DOWNLOADED"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/audit/RECORD-2", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	env.records.On("GetByID", mock.Anything, env.doctor.ID, "RECORD-1").Return(nil, dao.ErrNotFound)
	w = env.do(t, http.MethodGet, "/api/audit/RECORD-1", env.doctor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/audit/RECORD-1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.records.On("GetByID", mock.Anything, env.patient.ID, "RECORD-1").
		Return(&models.Record{ID: "RECORD-1", UserID: env.patient.ID}, nil)
	w = env.do(t, http.MethodGet, "/api/audit/RECORD-1", env.patient, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.AuditEntry `json:"data"`
	}
	decode(t, w, &body)
	assert.Len(t, body.Data, 1)
	env.audit.AssertExpectations(t)
}

func TestLoginRoute(t *testing.T) {
	env := newTestEnv(t, fakeDB{})
	env.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, dao.ErrNotFound)

	w := env.do(t, http.MethodPost, "/api/login", nil, map[string]string{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/login", nil, map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
