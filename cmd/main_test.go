package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	expected := "config.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env"}
	configPath := parseFlags()
	expected := "myconfig.env"

	if configPath != expected {
		t.Errorf("expected %s, got %s", expected, configPath)
	}
}

// ----------------- Tests for printBuildInfo -----------------

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Set build info variables
	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()
	os.Stdout = oldStdout

	// Check if all expected strings are present
	if !contains(output, "Version: v1.0.0") ||
		!contains(output, "Commit: abcd1234") ||
		!contains(output, "Build: 2025-09-26") {
		t.Errorf("printBuildInfo output unexpected:\n%s", output)
	}
}

// Helper function to check substring
func contains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	// Application
	assert.Equal(t, "localhost", cfg.AppHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)

	// PostgreSQL
	assert.Equal(t, "localhost", cfg.PGHost)
	assert.Equal(t, 5432, cfg.PGPort)
	assert.Equal(t, "user", cfg.PGUser)
	assert.Equal(t, "password", cfg.PGPassword)
	assert.Equal(t, "database", cfg.PGDB)
	assert.Equal(t, 16, cfg.PGMaxOpenConns)
	assert.Equal(t, 8, cfg.PGMaxIdleConns)

	// Redis
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "", cfg.RedisPassword)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.Equal(t, 2, cfg.RedisMinIdleConns)

	// Kafka
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "location.updated", cfg.KafkaLocationTopic)

	// JWT
	assert.Equal(t, "my_super_secret_key", cfg.JWTSecretKey)
	assert.Equal(t, 3600, cfg.JWTExpSecond)

	// Rate limit and search
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, 60, cfg.RateLimitWindowSecond)
	assert.Equal(t, 10.0, cfg.NearbyDefaultRadiusKm)
}

func TestParseConfig_CustomEnv(t *testing.T) {
	resetEnv()
	os.Setenv("APP_HOST", "127.0.0.1")
	os.Setenv("APP_PORT", "9090")
	os.Setenv("APP_LOG_LEVEL", "debug")

	os.Setenv("POSTGRES_HOST", "pg.example.com")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("POSTGRES_USER", "admin")
	os.Setenv("POSTGRES_PASSWORD", "secret")
	os.Setenv("POSTGRES_DB", "mydb")
	os.Setenv("POSTGRES_MAX_OPEN_CONNS", "20")
	os.Setenv("POSTGRES_MAX_IDLE_CONNS", "10")

	os.Setenv("REDIS_HOST", "redis.example.com")
	os.Setenv("REDIS_PORT", "6380")
	os.Setenv("REDIS_DB", "2")
	os.Setenv("REDIS_PASSWORD", "redispass")
	os.Setenv("REDIS_POOL_SIZE", "15")
	os.Setenv("REDIS_MIN_IDLE_CONNS", "5")

	os.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	os.Setenv("KAFKA_LOCATION_TOPIC", "dnd.location")

	os.Setenv("JWT_SECRET_KEY", "supersecret")
	os.Setenv("JWT_EXP_SECOND", "300")

	os.Setenv("RATE_LIMIT_REQUESTS", "5")
	os.Setenv("RATE_LIMIT_WINDOW_SECOND", "30")
	os.Setenv("NEARBY_DEFAULT_RADIUS_KM", "25.5")

	cfg, err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.AppHost)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "debug", cfg.LogLevel)

	assert.Equal(t, "pg.example.com", cfg.PGHost)
	assert.Equal(t, 5433, cfg.PGPort)
	assert.Equal(t, "admin", cfg.PGUser)
	assert.Equal(t, "secret", cfg.PGPassword)
	assert.Equal(t, "mydb", cfg.PGDB)
	assert.Equal(t, 20, cfg.PGMaxOpenConns)
	assert.Equal(t, 10, cfg.PGMaxIdleConns)

	assert.Equal(t, "redis.example.com", cfg.RedisHost)
	assert.Equal(t, 6380, cfg.RedisPort)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "redispass", cfg.RedisPassword)
	assert.Equal(t, 15, cfg.RedisPoolSize)
	assert.Equal(t, 5, cfg.RedisMinIdleConns)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "dnd.location", cfg.KafkaLocationTopic)

	assert.Equal(t, "supersecret", cfg.JWTSecretKey)
	assert.Equal(t, 300, cfg.JWTExpSecond)

	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 30, cfg.RateLimitWindowSecond)
	assert.Equal(t, 25.5, cfg.NearbyDefaultRadiusKm)
}

func TestParseConfig_InvalidNumber(t *testing.T) {
	resetEnv()
	os.Setenv("NEARBY_DEFAULT_RADIUS_KM", "ten")

	cfg, err := parseConfig("nonexistent.env")

	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "NEARBY_DEFAULT_RADIUS_KM")
}

func TestRateLimitKeyPrefix(t *testing.T) {
	assert.Equal(t, "dnd-connect:ratelimit:nearby:user:42", rateLimitKeyPrefix+"nearby:user:42")
}

// ------------------ Full integration test ------------------

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	return sendJSON(t, http.MethodPost, url, token, body)
}

func sendJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func registerAndLogin(t *testing.T, base, username string) string {
	t.Helper()
	resp := postJSON(t, base+"/register", "", map[string]string{
		"username": username,
		"password": "secret123",
		"email":    username + "@example.com",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, base+"/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Token
}

func TestRun_Success(t *testing.T) {
	ctx := context.Background()

	// ------------------ Postgres container ------------------
	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "user"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: pgReq, Started: true})
	if err != nil {
		t.Fatal(err)
	}
	defer pgContainer.Terminate(ctx)

	pgHost, _ := pgContainer.Host(ctx)
	pgPort, _ := pgContainer.MappedPort(ctx, "5432")

	// ------------------ Redis container ------------------
	redisReq := testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: redisReq, Started: true})
	if err != nil {
		t.Fatal(err)
	}
	defer redisContainer.Terminate(ctx)

	redisHost, _ := redisContainer.Host(ctx)
	redisPort, _ := redisContainer.MappedPort(ctx, "6379")

	// ------------------ Run ------------------
	cfg := &config{
		AppHost:               "127.0.0.1",
		AppPort:               "8086",
		LogLevel:              "debug",
		PGHost:                pgHost,
		PGPort:                pgPort.Int(),
		PGUser:                "user",
		PGPassword:            "password",
		PGDB:                  "testdb",
		PGMaxOpenConns:        5,
		PGMaxIdleConns:        2,
		RedisHost:             redisHost,
		RedisPort:             redisPort.Int(),
		RedisPoolSize:         10,
		RedisMinIdleConns:     2,
		KafkaLocationTopic:    "location.updated",
		JWTSecretKey:          "testsecret",
		JWTExpSecond:          60,
		RateLimitRequests:     3,
		RateLimitWindowSecond: 60,
		NearbyDefaultRadiusKm: 10,
	}

	testCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- run(testCtx, cfg)
	}()

	base := fmt.Sprintf("http://%s:%s/api/v1", cfg.AppHost, cfg.AppPort)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/users/me")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusUnauthorized
	}, 20*time.Second, 200*time.Millisecond)

	manhattan := registerAndLogin(t, base, "manhattan")
	brooklyn := registerAndLogin(t, base, "brooklyn")

	// No stored location yet
	resp := getJSON(t, base+"/users/nearby", manhattan)
	resp.Body.Close()
	assert.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	resp = postJSON(t, base+"/users/location", manhattan, map[string]any{"latitude": 40.7128, "longitude": -74.0060, "location": "Manhattan"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, base+"/users/location", brooklyn, map[string]any{"latitude": 40.7306, "longitude": -73.9352})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = getJSON(t, base+"/users/nearby?unit=mi", manhattan)
	var nearby []struct {
		Username      string   `json:"username"`
		DistanceKm    float64  `json:"distanceKm"`
		DistanceMiles *float64 `json:"distanceMiles"`
		Email         string   `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&nearby))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, nearby, 1)
	assert.Equal(t, "brooklyn", nearby[0].Username)
	assert.InDelta(t, 6.29, nearby[0].DistanceKm, 0.05)
	require.NotNil(t, nearby[0].DistanceMiles)
	assert.Empty(t, nearby[0].Email)
	assert.Equal(t, strconv.Itoa(cfg.RateLimitRequests), resp.Header.Get("X-RateLimit-Limit"))

	resp = getJSON(t, base+"/users/nearby?radius=0", manhattan)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Fourth search inside the window is over the limit
	resp = getJSON(t, base+"/users/nearby", manhattan)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Email collisions are reported as such and login accepts the email
	resp = postJSON(t, base+"/register", "", map[string]string{
		"username": "brooklyn2",
		"password": "secret123",
		"email":    "Brooklyn@Example.com",
	})
	var regErr struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&regErr))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email already exists", regErr.Error)

	resp = postJSON(t, base+"/login", "", map[string]string{"username": "brooklyn@example.com", "password": "secret123"})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Profile edit, then the public view from another player
	resp = sendJSON(t, http.MethodPut, base+"/users/me", brooklyn, map[string]any{"bio": "Bard for hire", "experience": "Intermediate"})
	var me struct {
		ID         string `json:"id"`
		Bio        string `json:"bio"`
		Experience string `json:"experience"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bard for hire", me.Bio)
	assert.Equal(t, "Intermediate", me.Experience)

	resp = sendJSON(t, http.MethodPut, base+"/users/me", brooklyn, map[string]any{"experience": "Legendary"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, base+"/users/"+me.ID, manhattan)
	var public map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&public))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "brooklyn", public["username"])
	assert.Equal(t, "Intermediate", public["experience"])
	assert.NotContains(t, public, "latitude")
	assert.NotContains(t, public, "email")

	cancel()
	select {
	case <-time.After(15 * time.Second):
		t.Fatal("test timed out")
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected run to succeed, got error: %v", err)
		}
		t.Log("run completed successfully")
	}
}
