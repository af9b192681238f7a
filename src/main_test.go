package main

import (
	"ems/src/db"
	"ems/src/types"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock sqlmock.Sqlmock
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

// stubAuth replaces the JWT middleware so handler tests can pick the
// caller identity directly.
func stubAuth(userId uint, role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("id", userId)
		ctx.Set("email", "someone@example.com")
		ctx.Set("uid", "test-uid")
		ctx.Set("role", role)
	}
}

func (s *TestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateValidatorFunc)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Unsetenv("MAINTENANCE_MODE")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRegisterValidation() {
	router := setupRouter()
	guestAuthRoutes(router)

	jbody := map[string]any{
		"email": "someone@example.com",
	}
	sbody, _ := json.Marshal(&jbody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	assert.Greaterf(s.T(), len(rbytes), 0, "Empty response")
}

func (s *TestSuite) TestEvents() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "attendee"))
	eventHandlers(apiv1)

	s.Run("Should return the list of published events", func() {
		rows := sqlmock.
			NewRows([]string{"id", "title", "route", "is_published", "start_date"}).
			AddRow(1, "Go Conference", "go-conference", true, time.Now().AddDate(0, 0, 30))
		s.Mock.ExpectQuery(`SELECT (.+) FROM "events"`).WillReturnRows(rows)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/events", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(1), gjson.Get(sjson, "count").Int())
		assert.Equal(s.T(), "Go Conference", gjson.Get(sjson, "data.0.title").String())
	})

	s.Run("Should return a 400 error response on bad input", func() {
		reqBody := types.CreateEventRequestBody{
			Title: "test event",
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err = io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.Get(string(rbytes), "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject a start date in the past", func() {
		reqBody := types.CreateEventRequestBody{
			Title:     "test event",
			StartDate: "2020-01-01",
		}
		rbytes, _ := json.Marshal(&reqBody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events", strings.NewReader(string(rbytes)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestCheckInValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "manager"))
	eventHandlers(apiv1)

	s.Run("Should require a scanned code or a ticket id", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events/1/check-in", strings.NewReader("{}"))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject an unreadable scanned code", func() {
		jbody := map[string]any{"code": "zzzz"}
		sbody, _ := json.Marshal(&jbody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/events/1/check-in", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestBookingValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "attendee"))
	bookingHandlers(apiv1)

	s.Run("Should reject a booking without attendees", func() {
		jbody := map[string]any{"event": 1}
		sbody, _ := json.Marshal(&jbody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should gate the confirm endpoint behind the manager role", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings/1/confirm", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 403, w.Code)
	})
}

func (s *TestSuite) TestSettingsRoleGate() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "attendee"))
	settingsHandlers(apiv1)

	jbody := map[string]any{"apply_tax_on_bookings": true}
	sbody, _ := json.Marshal(&jbody)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/v1/settings", strings.NewReader(string(sbody)))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 403, w.Code)
}

func (s *TestSuite) TestTicketTransferValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "attendee"))
	ticketHandlers(apiv1)

	s.Run("Should reject a transfer without the new attendee", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/tickets/1/transfer", strings.NewReader("{}"))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a preference change without a value", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PATCH", "/api/v1/add-ons/1", strings.NewReader("{}"))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestSponsorshipPayValidation() {
	router := setupRouter()
	apiv1 := apiv1Group(router)
	apiv1.Use(stubAuth(1, "attendee"))
	sponsorshipHandlers(apiv1)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/sponsorships/1/pay", strings.NewReader("{}"))
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code)
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
