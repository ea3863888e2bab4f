package http

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/branch"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	photoService "github.com/cmlabs-hris/attendance-backend-go/internal/service/photo"
	reportService "github.com/cmlabs-hris/attendance-backend-go/internal/service/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
	handlerTestBaseURL   = "http://files.test/uploads"
	handlerTestPassword  = "password123"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *memory.Store
	jwt    jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Name:           "attendance-test",
			Env:            "test",
			LogLevel:       "error",
			AllowedOrigins: []string{"http://localhost:3000"},
			RequestTimeout: 5 * time.Second,
		},
	}

	jwtService, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	require.NoError(t, err)

	local, err := storage.NewLocalStorage(t.TempDir(), handlerTestBaseURL)
	require.NoError(t, err)

	store := memory.NewStore()
	uploader := photoService.NewPhotoService(local)

	authSvc := authService.NewAuthService(store.Branches(), store.Employees(), jwtService, "UTC")
	employeeSvc := employeeService.NewEmployeeService(store.Employees())
	attendanceSvc := attendanceService.NewAttendanceService(store.Attendances(), store.Employees(), store.Branches(), uploader, time.UTC)
	reportSvc := reportService.NewReportService(store.Attendances(), store.Employees(), store.Branches(), time.UTC)

	router := NewRouter(
		cfg,
		NewLogger(cfg),
		jwtService,
		NewAuthHandler(authSvc),
		NewEmployeeHandler(employeeSvc),
		NewAttendanceHandler(attendanceSvc),
		NewReportHandler(reportSvc),
		local.BasePath(),
	)

	return &testServer{t: t, router: router, store: store, jwt: jwtService}
}

func (s *testServer) addBranch(name string) branch.Branch {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(s.t, err)

	b, err := s.store.Branches().Create(context.Background(), branch.Branch{
		ID:           "br-" + strings.ToLower(name),
		Name:         name,
		PasswordHash: string(hash),
		Timezone:     "UTC",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(s.t, err)
	return b
}

func (s *testServer) addEmployee(b branch.Branch, email string) employee.Employee {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(s.t, err)

	e, err := s.store.Employees().Create(context.Background(), employee.Employee{
		ID:           "emp-" + strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: string(hash),
		BranchID:     b.ID,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(s.t, err)
	return e
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return s.serve(req)
}

func (s *testServer) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) loginBranch(name string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/admin/login", "", map[string]string{
		"name":     name,
		"password": handlerTestPassword,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return accessToken(s.t, env)
}

func (s *testServer) loginEmployee(email string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/employee/login", "", map[string]string{
		"email":    email,
		"password": handlerTestPassword,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return accessToken(s.t, env)
}

func accessToken(t *testing.T, env envelope) string {
	t.Helper()
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

type recordBody struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	CheckIn    *string  `json:"check_in"`
	CheckOut   *string  `json:"check_out"`
	TotalHours *float64 `json:"total_hours"`
	Status     string   `json:"status"`
	Remarks    *string  `json:"remarks"`
}

func decodeRecord(t *testing.T, env envelope) recordBody {
	t.Helper()
	var rec recordBody
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	return rec
}

func TestHeartbeat(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.addBranch("Pune")

	t.Run("success", func(t *testing.T) {
		assert.NotEmpty(t, srv.loginBranch("Pune"))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := srv.do(http.MethodPost, "/api/admin/login", "", map[string]string{
			"name":     "Pune",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec, env := srv.serve(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
	})
}

func TestProtectedRoutes_Tokens(t *testing.T) {
	srv := newTestServer(t)
	pune := srv.addBranch("Pune")
	alice := srv.addEmployee(pune, "alice@example.com")

	t.Run("missing token", func(t *testing.T) {
		rec, _ := srv.do(http.MethodGet, "/api/employee/attendance", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := jwt.NewJWTService(handlerTestSecret, "-1h")
		require.NoError(t, err)
		token, _, err := expired.GenerateEmployeeToken(alice.ID, alice.Email, pune.ID, pune.Name)
		require.NoError(t, err)

		rec, env := srv.do(http.MethodGet, "/api/employee/attendance", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "Token expired", env.Error.Message)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, err := jwt.NewJWTService("another-secret", handlerTestAccessExp)
		require.NoError(t, err)
		token, _, err := other.GenerateEmployeeToken(alice.ID, alice.Email, pune.ID, pune.Name)
		require.NoError(t, err)

		rec, _ := srv.do(http.MethodGet, "/api/employee/attendance", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("employee token on admin route", func(t *testing.T) {
		token := srv.loginEmployee(alice.Email)
		rec, _ := srv.do(http.MethodGet, "/api/admin/employees/Pune", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin token on employee route", func(t *testing.T) {
		token := srv.loginBranch("Pune")
		rec, _ := srv.do(http.MethodPost, "/api/employee/checkin", token, map[string]string{
			"photo_url": "https://cdn.example.com/in.jpg",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdminEmployees(t *testing.T) {
	srv := newTestServer(t)
	srv.addBranch("Pune")
	srv.addBranch("Mumbai")
	token := srv.loginBranch("Pune")

	t.Run("create", func(t *testing.T) {
		rec, env := srv.do(http.MethodPost, "/api/admin/create-employee", token, map[string]string{
			"email":    "Alice@Example.com",
			"password": "secret1",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(env.Data, &created))
		assert.Equal(t, "alice@example.com", created.Email)
		assert.Equal(t, "br-pune", created.BranchID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		rec, _ := srv.do(http.MethodPost, "/api/admin/create-employee", token, map[string]string{
			"email":    "alice@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec, env := srv.do(http.MethodPost, "/api/admin/create-employee", token, map[string]string{
			"email":    "not-an-email",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "email")
	})

	t.Run("other branch", func(t *testing.T) {
		rec, _ := srv.do(http.MethodPost, "/api/admin/create-employee", token, map[string]string{
			"email":    "bob@example.com",
			"password": "secret1",
			"branch":   "Mumbai",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec, _ = srv.do(http.MethodGet, "/api/admin/employees/Mumbai", token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec, env := srv.do(http.MethodGet, "/api/admin/employees/Pune", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list []employee.EmployeeResponse
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Len(t, list, 1)
		assert.Equal(t, "alice@example.com", list[0].Email)
	})
}

func TestRegisterBranch(t *testing.T) {
	srv := newTestServer(t)
	srv.addBranch("Pune")
	token := srv.loginBranch("Pune")

	rec, env := srv.do(http.MethodPost, "/api/admin/register-branch", token, map[string]string{
		"branch_name": "Delhi",
		"password":    "secret1",
		"timezone":    "Asia/Kolkata",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created branch.BranchResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Delhi", created.Name)
	assert.Equal(t, "Asia/Kolkata", created.Timezone)

	rec, _ = srv.do(http.MethodPost, "/api/admin/register-branch", token, map[string]string{
		"branch_name": "Delhi",
		"password":    "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAttendanceFlow(t *testing.T) {
	srv := newTestServer(t)
	pune := srv.addBranch("Pune")
	alice := srv.addEmployee(pune, "alice@example.com")
	token := srv.loginEmployee(alice.Email)

	rec, env := srv.do(http.MethodGet, "/api/employee/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, len(env.Data) == 0 || string(env.Data) == "null", string(env.Data))

	rec, _ = srv.do(http.MethodPost, "/api/employee/checkout", token, map[string]string{
		"photo_url": "https://cdn.example.com/out.jpg",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "check-out before check-in")

	rec, _ = srv.do(http.MethodPost, "/api/employee/checkin", token, map[string]string{
		"photo_url": "not a url",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = srv.do(http.MethodPost, "/api/employee/checkin", token, map[string]string{
		"photo_url": "https://cdn.example.com/in.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	checkedIn := decodeRecord(t, env)
	assert.Equal(t, alice.ID, checkedIn.EmployeeID)
	assert.NotNil(t, checkedIn.CheckIn)
	assert.Nil(t, checkedIn.CheckOut)

	rec, _ = srv.do(http.MethodPost, "/api/employee/checkin", token, map[string]string{
		"photo_url": "https://cdn.example.com/in.jpg",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Check-out must land strictly after check-in at millisecond precision.
	time.Sleep(5 * time.Millisecond)

	rec, env = srv.do(http.MethodPost, "/api/employee/checkout", token, map[string]string{
		"photo_url": "https://cdn.example.com/out.jpg",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	checkedOut := decodeRecord(t, env)
	assert.Equal(t, checkedIn.ID, checkedOut.ID)
	require.NotNil(t, checkedOut.TotalHours)
	assert.GreaterOrEqual(t, *checkedOut.TotalHours, 0.0)

	rec, _ = srv.do(http.MethodPost, "/api/employee/checkout", token, map[string]string{
		"photo_url": "https://cdn.example.com/out.jpg",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = srv.do(http.MethodGet, "/api/employee/attendance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []recordBody
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, checkedIn.ID, mine[0].ID)

	admin := srv.loginBranch("Pune")

	t.Run("admin lists employee attendance", func(t *testing.T) {
		rec, env := srv.do(http.MethodGet, "/api/admin/attendance/"+alice.ID, admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var records []recordBody
		require.NoError(t, json.Unmarshal(env.Data, &records))
		assert.Len(t, records, 1)
	})

	t.Run("admin lists branch attendance", func(t *testing.T) {
		rec, env := srv.do(http.MethodGet, "/api/admin/branches/Pune/attendance", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var grouped []struct {
			Employee employee.EmployeeResponse `json:"employee"`
			Records  []recordBody              `json:"records"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &grouped))
		require.Len(t, grouped, 1)
		assert.Equal(t, alice.Email, grouped[0].Employee.Email)
		assert.Len(t, grouped[0].Records, 1)
	})

	t.Run("admin updates status", func(t *testing.T) {
		rec, env := srv.do(http.MethodPatch, "/api/admin/attendance/records/"+checkedIn.ID, admin, map[string]string{
			"status":  "Late",
			"remarks": "traffic",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decodeRecord(t, env)
		assert.Equal(t, "Late", updated.Status)
		require.NotNil(t, updated.Remarks)
		assert.Equal(t, "traffic", *updated.Remarks)

		rec, _ = srv.do(http.MethodPatch, "/api/admin/attendance/records/"+checkedIn.ID, admin, map[string]string{
			"status": "Sleeping",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = srv.do(http.MethodPatch, "/api/admin/attendance/records/missing", admin, map[string]string{
			"status": "Late",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("export employee attendance", func(t *testing.T) {
		rec, _ := srv.do(http.MethodGet, "/api/admin/attendance/"+alice.ID+"/export", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, report.ContentTypeXLSX, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "alice@example.com_attendance.xlsx")
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("export branch attendance", func(t *testing.T) {
		rec, _ := srv.do(http.MethodGet, "/api/admin/branches/Pune/attendance/export", admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "Pune_attendance.xlsx")
	})

	t.Run("unknown employee", func(t *testing.T) {
		rec, _ := srv.do(http.MethodGet, "/api/admin/attendance/emp-nobody", admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCrossBranchAttendance(t *testing.T) {
	srv := newTestServer(t)
	pune := srv.addBranch("Pune")
	srv.addBranch("Mumbai")
	alice := srv.addEmployee(pune, "alice@example.com")
	mumbaiAdmin := srv.loginBranch("Mumbai")

	rec, _ := srv.do(http.MethodGet, "/api/admin/attendance/"+alice.ID, mumbaiAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/admin/branches/Pune/attendance", mumbaiAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = srv.do(http.MethodGet, "/api/admin/attendance/"+alice.ID+"/export", mumbaiAdmin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := srv.do(http.MethodPost, "/api/employee/checkin", srv.loginEmployee(alice.Email), map[string]string{
		"photo_url": "https://cdn.example.com/in.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	record := decodeRecord(t, env)

	// Another branch cannot tell a foreign record from a missing one.
	rec, _ = srv.do(http.MethodPatch, "/api/admin/attendance/records/"+record.ID, mumbaiAdmin, map[string]string{
		"status": "Absent",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartPhoto(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadPhoto(t *testing.T) {
	srv := newTestServer(t)
	pune := srv.addBranch("Pune")
	alice := srv.addEmployee(pune, "alice@example.com")
	token := srv.loginEmployee(alice.Email)

	upload := func(filename string, data []byte) (*httptest.ResponseRecorder, envelope) {
		body, contentType := multipartPhoto(t, filename, data)
		req := httptest.NewRequest(http.MethodPost, "/api/employee/photos", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		return srv.serve(req)
	}

	t.Run("stores and serves the photo", func(t *testing.T) {
		rec, env := upload("selfie.png", testPNG(t))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var uploaded struct {
			URL string `json:"url"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &uploaded))
		require.True(t, strings.HasPrefix(uploaded.URL, handlerTestBaseURL+"/"), uploaded.URL)
		assert.True(t, strings.HasSuffix(uploaded.URL, ".jpg"))

		path := strings.TrimPrefix(uploaded.URL, "http://files.test")
		served := httptest.NewRecorder()
		srv.router.ServeHTTP(served, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, served.Code)
		assert.NotZero(t, served.Body.Len())
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec, _ := upload("selfie.gif", testPNG(t))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		rec, _ := upload("selfie.jpg", []byte("definitely not a jpeg"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		require.NoError(t, writer.WriteField("note", "no photo"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/employee/photos", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec, _ := srv.serve(req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		rec, _ := upload("selfie.jpg", bytes.Repeat([]byte{0xff}, photoService.MaxUploadSize+(2<<20)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}
