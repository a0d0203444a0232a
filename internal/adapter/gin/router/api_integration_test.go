package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"user-crud-service/internal/adapter/db/postgres"
	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	usecase "user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// UserAPIIntegrationTestSuite drives the full middleware chain over a real
// listener, with SQLite standing in for PostgreSQL and miniredis for Redis.
type UserAPIIntegrationTestSuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
	db         *gorm.DB
	redis      *miniredis.Miniredis
}

func (s *UserAPIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(s.T())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.db = db

	repo := postgres.NewUserRepoPG(db, log)
	s.Require().NoError(repo.EnsureSchema(context.Background()))

	s.redis = miniredis.RunT(s.T())
	rdb := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	s.T().Cleanup(func() { _ = rdb.Close() })

	limiter := middleware.NewRateLimiter(rdb, middleware.RateLimiterConfig{
		RequestsPerSecond: 1000,
		BurstCapacity:     1000,
		Enabled:           true,
	}, log)

	r := SetupRouter(Options{
		Log:            log,
		Users:          handler.NewUserHandler(usecase.New(repo, log), log),
		Health:         handler.NewHealthHandler(repo, time.Now(), log),
		Metrics:        metrics.New("users_api"),
		RateLimiter:    limiter,
		RequestTimeout: 5 * time.Second,
	})

	s.server = httptest.NewServer(r)
	s.httpClient = &http.Client{Timeout: 10 * time.Second}
}

func (s *UserAPIIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM users").Error)
	s.redis.FlushAll()
}

func (s *UserAPIIntegrationTestSuite) TearDownSuite() {
	s.server.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// makeRequest is a helper method to make HTTP requests
func (s *UserAPIIntegrationTestSuite) makeRequest(method, endpoint string, body any) (int, []byte) {
	var reqBody bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, s.server.URL+endpoint, &reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, out.Bytes()
}

func (s *UserAPIIntegrationTestSuite) createUser(name, email string) handler.UserResponse {
	code, body := s.makeRequest(http.MethodPost, "/users", map[string]string{"name": name, "email": email})
	s.Require().Equal(http.StatusCreated, code, string(body))

	var u handler.UserResponse
	s.Require().NoError(json.Unmarshal(body, &u))
	return u
}

func (s *UserAPIIntegrationTestSuite) TestCreateAndListAPI() {
	ana := s.createUser("Ana", "ana@example.com")
	bo := s.createUser("Bo", "bo@example.com")
	s.Positive(ana.ID)
	s.Greater(bo.ID, ana.ID)

	code, body := s.makeRequest(http.MethodGet, "/users", nil)
	s.Equal(http.StatusOK, code)

	var users []handler.UserResponse
	s.Require().NoError(json.Unmarshal(body, &users))
	s.Equal([]handler.UserResponse{ana, bo}, users)
}

func (s *UserAPIIntegrationTestSuite) TestNullFieldsAPI() {
	code, body := s.makeRequest(http.MethodPost, "/users", map[string]any{"name": nil, "email": "ana@example.com"})
	s.Equal(http.StatusBadRequest, code)
	s.JSONEq(`{"error":"Name and email are required"}`, string(body))
}

func (s *UserAPIIntegrationTestSuite) TestUpdateEmailConflictAPI() {
	s.createUser("Ana", "ana@example.com")
	bo := s.createUser("Bo", "bo@example.com")

	code, body := s.makeRequest(http.MethodPut, fmt.Sprintf("/users/%d", bo.ID),
		map[string]string{"name": "Bo", "email": "ana@example.com"})
	s.Equal(http.StatusConflict, code)
	s.JSONEq(`{"error":"Email already exists"}`, string(body))
}

func (s *UserAPIIntegrationTestSuite) TestConcurrentCreateSameEmailAPI() {
	const workers = 8

	var wg sync.WaitGroup
	codes := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, _ := s.makeRequest(http.MethodPost, "/users",
				map[string]string{"name": fmt.Sprintf("User %d", i), "email": "same@example.com"})
			codes <- code
		}(i)
	}
	wg.Wait()
	close(codes)

	counts := map[int]int{}
	for c := range codes {
		counts[c]++
	}
	s.Equal(1, counts[http.StatusCreated])
	s.Equal(workers-1, counts[http.StatusConflict])
}

func TestUserAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UserAPIIntegrationTestSuite))
}
