package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/seat-planner-go/pkg/auth"
	"github.com/arnavshah/seat-planner-go/pkg/config"
	"github.com/arnavshah/seat-planner-go/pkg/database"
	"github.com/arnavshah/seat-planner-go/pkg/metrics"
	"github.com/arnavshah/seat-planner-go/pkg/models"
	"github.com/arnavshah/seat-planner-go/pkg/service"
)

type testServer struct {
	router *gin.Engine
	h      *Handler
	token  string
	apiKey string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	a := auth.New(config.AuthConfig{
		JWTSecret:    "test-jwt",
		MasterSecret: "test-master",
		BcryptCost:   bcrypt.MinCost,
		TokenTTL:     time.Hour,
	})
	require.NoError(t, a.EnsureAdminExists(db, "admin", "admin123", nil))

	directory := database.NewDirectoryStore(db)
	plans := database.NewPlanStore(db)
	presets := database.NewPresetStore(db)
	rec := metrics.New()
	h := &Handler{
		DB:            db,
		Auth:          a,
		Directory:     directory,
		Plans:         plans,
		Presets:       presets,
		Notifications: database.NewNotificationStore(db),
		Metrics:       rec,
		Logger:        zap.NewNop(),
		Service: service.New(service.Deps{
			Directory: directory,
			Plans:     plans,
			Presets:   presets,
			Metrics:   rec,
		}),
	}
	r := gin.New()
	h.Register(r)

	token, err := a.CreateToken("admin")
	require.NoError(t, err)
	return &testServer{router: r, h: h, token: token, apiKey: a.GenerateHMACKey("facilities")}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func directory() models.Snapshot {
	return models.Snapshot{
		Employees: []models.Employee{
			{ID: "e1", Name: "Ada", TechSkills: []string{"go"}},
			{ID: "e2", Name: "Bo", TechSkills: []string{"go"}},
		},
		Projects: []models.Project{{ID: "p1", Priority: 4, TeamMemberIDs: []string{"e1", "e2"}}},
		Seats: []models.Seat{
			{ID: "s1", Label: "A-1", ZoneID: "z1", Status: models.SeatAvailable},
			{ID: "s2", Label: "A-2", ZoneID: "z1", Status: models.SeatAvailable},
			{ID: "s3", Label: "B-1", ZoneID: "z1", Status: models.SeatOccupied},
		},
		Zones: []models.Zone{{ID: "z1", Name: "North", Type: models.ZoneTeamArea}},
	}
}

func TestRoot(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/admin", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Seat Planner")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/login", "", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]string](t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])

	w = s.do(t, http.MethodPost, "/admin/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/admin/keys", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/admin/keys", "garbage", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/plans", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/plans", "facilities.bad", nil).Code)
}

func TestKeys(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/admin/keys", s.token, gin.H{"name": "ops"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[struct {
		ID  uint   `json:"id"`
		Key string `json:"key"`
	}](t, w)
	assert.NotEmpty(t, created.Key)

	w = s.do(t, http.MethodGet, "/api/plans", created.Key, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	id := itoa(created.ID)
	w = s.do(t, http.MethodPut, "/admin/keys/"+id, s.token, gin.H{"rate_limit": 50})
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPut, "/admin/keys/999", s.token, gin.H{"rate_limit": 50})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/admin/keys", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	keys := decode[struct {
		Keys []database.APIKey `json:"keys"`
	}](t, w)
	require.Len(t, keys.Keys, 1)
	assert.Equal(t, 50, keys.Keys[0].RateLimit)
	assert.NotContains(t, w.Body.String(), created.Key)

	w = s.do(t, http.MethodDelete, "/admin/keys/"+id, s.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptimizeFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPut, "/admin/directory", s.token, directory())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/optimize", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[models.OptimizeResponse](t, w)
	assert.Len(t, res.Plan.Assignments, 2)
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, "facilities", res.Plan.CreatedBy)
	assert.False(t, res.Plan.IsActive)

	w = s.do(t, http.MethodGet, "/api/plans/active", s.apiKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/admin/plans/"+res.Plan.ID+"/activate", s.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	activated := decode[models.Plan](t, w)
	assert.True(t, activated.IsActive)
	assert.NotNil(t, activated.EffectiveFrom)

	w = s.do(t, http.MethodGet, "/api/plans/active", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, res.Plan.ID, decode[models.Plan](t, w).ID)

	w = s.do(t, http.MethodGet, "/api/plans", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Plans []models.Plan `json:"plans"`
	}](t, w)
	assert.Len(t, list.Plans, 1)

	w = s.do(t, http.MethodGet, "/api/usage", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	usage := decode[struct {
		Totals map[string]int `json:"totals"`
	}](t, w)
	assert.Equal(t, 1, usage.Totals["requests"])
	assert.Equal(t, 2, usage.Totals["employees"])
	assert.Equal(t, 2, usage.Totals["seats"])

	w = s.do(t, http.MethodPost, "/admin/plans/"+res.Plan.ID+"/deactivate", s.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/admin/plans/"+res.Plan.ID, s.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/plans/"+res.Plan.ID, s.apiKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOptimize_InlineSnapshot(t *testing.T) {
	s := newTestServer(t)
	snap := directory()
	w := s.do(t, http.MethodPost, "/api/optimize", s.apiKey, models.OptimizeInput{
		Name:     "Inline",
		Strategy: "optimal",
		Snapshot: &snap,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[models.OptimizeResponse](t, w)
	assert.Equal(t, "Inline", res.Plan.Name)
	assert.Equal(t, "optimal", res.Plan.Strategy)
}

func TestOptimize_Rejects(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/optimize", s.apiKey, gin.H{"strategy": "annealing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/optimize", s.apiKey, gin.H{"parameters": gin.H{"deadline_weight": 150}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)

	snap := directory()
	w := s.do(t, http.MethodPost, "/api/validate", s.apiKey, models.OptimizeInput{Snapshot: &snap})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Valid bool           `json:"valid"`
		Stats map[string]int `json:"stats"`
	}](t, w)
	assert.True(t, body.Valid)
	assert.Equal(t, 2, body.Stats["available_seat_count"])

	snap.Employees = append(snap.Employees, models.Employee{ID: "e1"})
	w = s.do(t, http.MethodPost, "/api/validate", s.apiKey, models.OptimizeInput{Snapshot: &snap})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Duplicate employee ID: e1")

	w = s.do(t, http.MethodPost, "/api/validate", s.apiKey, models.OptimizeInput{Snapshot: &models.Snapshot{}})
	assert.Contains(t, w.Body.String(), "At least one employee is required")
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/admin/directory", s.token, directory()).Code)
	res := decode[models.OptimizeResponse](t, s.do(t, http.MethodPost, "/api/optimize", s.apiKey, nil))

	w := s.do(t, http.MethodGet, "/api/plans/"+res.Plan.ID+"/export.csv", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "employee_id,employee_name,seat_id")
	assert.Contains(t, w.Body.String(), "Ada")

	w = s.do(t, http.MethodGet, "/api/plans/"+res.Plan.ID+"/export.xlsx", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Assignments")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	w = s.do(t, http.MethodGet, "/api/plans/missing/export.csv", s.apiKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePlanParameters(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/admin/directory", s.token, directory()).Code)
	res := decode[models.OptimizeResponse](t, s.do(t, http.MethodPost, "/api/optimize", s.apiKey, nil))

	params := models.Parameters{TeamProximityWeight: 10, TechStackWeight: 20, CrossTeamWeight: 30, DeadlineWeight: 40}
	w := s.do(t, http.MethodPut, "/api/plans/"+res.Plan.ID+"/parameters", s.apiKey, params)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, params, decode[models.Plan](t, w).Parameters)

	w = s.do(t, http.MethodPut, "/api/plans/"+res.Plan.ID+"/parameters", s.apiKey, gin.H{"team_proximity_weight": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresetsAndNotifications(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/presets", s.apiKey, models.Preset{Name: "focus", Parameters: models.Parameters{DeadlineWeight: 100}})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/presets", s.apiKey, gin.H{"parameters": gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/presets", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	presets := decode[struct {
		Presets  []models.Preset   `json:"presets"`
		Defaults models.Parameters `json:"defaults"`
	}](t, w)
	require.Len(t, presets.Presets, 1)
	assert.Equal(t, models.DefaultParameters(), presets.Defaults)

	require.NoError(t, s.h.Notifications.Create(context.Background(), &models.Notification{Kind: "plan.created", PlanID: "p", Message: "hi"}))
	w = s.do(t, http.MethodGet, "/api/notifications", s.apiKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"hi"`)
}

func TestUpdateSeatStatus(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/admin/directory", s.token, directory()).Code)

	w := s.do(t, http.MethodPut, "/admin/seats/s1/status", s.token, gin.H{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPut, "/admin/seats/s1/status", s.token, gin.H{"status": "broken"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodPut, "/admin/seats/nope/status", s.token, gin.H{"status": "reserved"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	res := decode[models.OptimizeResponse](t, s.do(t, http.MethodPost, "/api/optimize", s.apiKey, nil))
	assert.Len(t, res.Plan.Assignments, 1)
	assert.Equal(t, 2, res.Excluded)
}

func TestImportDirectoryCSV(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	files := map[string]string{
		"employees_file": "id,name,department,tech_skills,current_project_ids\ne1,Ada,eng,go|sql,p1\ne2,Bo,eng,go,\n",
		"seats_file":     "id,label,zone_id,floor_id,status\ns1,A-1,z1,f1,available\ns2,A-2,z1,f1,\n",
		"zones_file":     "id,name,floor_id,type\nz1,North,f1,team_area\n",
		"projects_file":  "id,name,priority,team_member_ids,deadline\np1,Launch,5,e1|e2,2026-12-01\n",
	}
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/directory/csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	snap, err := s.h.Directory.LoadSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Employees, 2)
	assert.Equal(t, []string{"go", "sql"}, snap.Employees[0].TechSkills)
	require.Len(t, snap.Projects, 1)
	require.NotNil(t, snap.Projects[0].Deadline)
	assert.Equal(t, models.SeatAvailable, snap.Seats[1].Status)
}

func TestImportDirectoryCSV_MissingFiles(t *testing.T) {
	s := newTestServer(t)
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/directory/csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "seating_plan_activations_total")
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
