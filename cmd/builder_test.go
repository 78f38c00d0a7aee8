package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	personapp "rehoming/application/person"
	"rehoming/config"
	"rehoming/domain/person"
	"rehoming/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "rehoming", Version: "test", Env: "test"},
		Server:   config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Driver: "memory"},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "rehoming"},
		Priority: config.PriorityConfig{UrgencyWeight: 3, AgeWeight: 1.5, BehaviorWeight: 1, HealthWeight: 2, NotCastratedBonus: 5},
		Worker:   config.WorkerConfig{ExpiryBatchSize: 1, ExpirySweepInterval: time.Hour},
	}
}

func TestBuilder_MemoryApp(t *testing.T) {
	var hit bool
	app, err := NewBuilder(memoryConfig()).
		WithRoute(http.MethodGet, "/custom", func(c *gin.Context) { hit = true; c.Status(http.StatusOK) }).
		Build()
	require.NoError(t, err)
	defer app.Shutdown()

	engine := app.GetEngine()
	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/api/v1/health/ready", "").Code)

	rec := serve(http.MethodPost, "/api/v1/persons", `{
		"nickname": "cat_lover",
		"email": "owner@example.com",
		"phone_number": "+48 123 456 789",
		"residency_address": {"country": "Poland", "zip_code": "00-001", "city": "Warsaw", "line": "Marszalkowska 1"}
	}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	serve(http.MethodGet, "/custom", "")
	assert.True(t, hit)

	rec = serve(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rehoming_http_requests_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewComponents_UnsupportedDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "oracle"
	_, err := NewComponents(cfg)
	assert.Error(t, err)
}

func TestExpirySweeper_DrainsAllBatches(t *testing.T) {
	cfg := memoryConfig()
	components, err := NewComponents(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service := personapp.NewApplicationService(components.PersonRepo, components.UoWFactory, newCalculator(cfg.Priority),
		personapp.WithClock(func() time.Time { return now }))

	for i, nick := range []string{"first", "second", "third"} {
		p, err := service.RegisterPerson(ctx, personapp.RegisterPersonRequest{
			Nickname:    nick,
			Email:       nick + "@example.com",
			PhoneNumber: "+48 100 000 00" + string(rune('0'+i)),
			ResidencyAddress: personapp.AddressDTO{
				Country: "Poland", ZipCode: "00-001", City: "Warsaw", Line: "Marszalkowska 1",
			},
		})
		require.NoError(t, err)
		cat, err := service.AddCat(ctx, personapp.AddCatRequest{PersonID: p.ID, CatFields: personapp.CatFields{
			Name: "Mruczek", AgeCategory: "Adult", Behavior: "Friendly", HealthStatus: "Good", MedicalHelpUrgency: "NoNeed",
		}})
		require.NoError(t, err)
		ad, err := service.AddAdvertisement(ctx, personapp.AddAdvertisementRequest{PersonID: p.ID, CatIDs: []string{cat.ID}})
		require.NoError(t, err)
		_, err = service.MarkThumbnailUploaded(ctx, p.ID, ad.ID)
		require.NoError(t, err)
	}

	now = now.Add(person.ExpiringPeriod + time.Second)
	m := metrics.New("sweeper", prometheus.NewRegistry())
	sweeper, err := NewExpirySweeper(service, m, time.Hour, cfg.Worker.ExpiryBatchSize)
	require.NoError(t, err)

	require.NoError(t, sweeper.Sweep(ctx))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ExpiredAds))

	ids, err := components.PersonRepo.FindIDsWithAdvertisementsDueForExpiry(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestExpirySweeper_RunStopsOnCancel(t *testing.T) {
	components, err := NewComponents(memoryConfig())
	require.NoError(t, err)
	sweeper, err := NewExpirySweeper(components.PersonService, nil, time.Millisecond, 10)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, sweeper.Run(ctx), context.DeadlineExceeded)
}

func TestNewExpirySweeper_RejectsInvalidSettings(t *testing.T) {
	components, err := NewComponents(memoryConfig())
	require.NoError(t, err)

	_, err = NewExpirySweeper(components.PersonService, nil, 0, 10)
	assert.Error(t, err)
	_, err = NewExpirySweeper(components.PersonService, nil, -time.Second, 10)
	assert.Error(t, err)
	_, err = NewExpirySweeper(components.PersonService, nil, time.Second, 0)
	assert.Error(t, err)
	_, err = NewExpirySweeper(nil, nil, time.Second, 10)
	assert.Error(t, err)
}
