package person

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rehoming/api/middleware"
	"rehoming/api/response"
	personapp "rehoming/application/person"
	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/infrastructure/persistence/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var creation = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := mocks.NewMockPersonRepository()
	factory := mocks.NewMockUnitOfWorkFactory(shared.NewEventBus())
	calc := person.NewDefaultPriorityScoreCalculator(person.DefaultPriorityWeights())
	service := personapp.NewApplicationService(repo, factory, calc,
		personapp.WithClock(func() time.Time { return creation }))

	engine := gin.New()
	engine.Use(middleware.RequestIDMiddleware())
	NewController(service).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

// envelope 解析统一响应，Data 延迟解码
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Field     string          `json:"field"`
	Code      int             `json:"code"`
	RequestID string          `json:"request_id"`
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func registerBody(nickname, email string) map[string]any {
	return map[string]any{
		"nickname":     nickname,
		"email":        email,
		"phone_number": "+48 123 456 789",
		"residency_address": map[string]any{
			"country": "Poland", "zip_code": "00-001", "city": "Warsaw", "line": "Marszalkowska 1",
		},
	}
}

func catBody(name string) map[string]any {
	return map[string]any{
		"name":                 name,
		"age_category":         "Senior",
		"behavior":             "Friendly",
		"health_status":        "ChronicMinor",
		"medical_help_urgency": "ShouldSeeVet",
		"is_castrated":         false,
	}
}

func TestRegisterAndGetPerson(t *testing.T) {
	engine := newEngine(t)

	rec, env := do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("cat_lover", "owner@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	created := decode[personapp.PersonResponse](t, env.Data)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/persons/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[personapp.PersonResponse](t, env.Data)
	assert.Equal(t, "cat_lover", got.Nickname)
	assert.Equal(t, "Regular", got.Role)
}

func TestRegisterPerson_Errors(t *testing.T) {
	engine := newEngine(t)

	rec, env := do(t, engine, http.MethodPost, "/api/v1/persons", map[string]any{"nickname": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error)

	body := registerBody("cat_lover", "not-an-email")
	rec, env = do(t, engine, http.MethodPost, "/api/v1/persons", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Equal(t, "email", env.Field)

	rec, _ = do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("cat_lover", "owner@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, env = do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("cat_lover", "other@example.com"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_CONTACT", env.Error)
}

func TestListPersons_RoleFilter(t *testing.T) {
	engine := newEngine(t)

	rec, _ := do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("cat_lover", "owner@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	shelterBody := registerBody("happy_paws", "shelter@example.com")
	shelterBody["phone_number"] = "+48 987 654 321"
	shelterBody["role"] = "Shelter"
	rec, env := do(t, engine, http.MethodPost, "/api/v1/persons", shelterBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	shelter := decode[personapp.PersonResponse](t, env.Data)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/persons", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]personapp.PersonResponse](t, env.Data), 2)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/persons?role=Shelter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]personapp.PersonResponse](t, env.Data)
	require.Len(t, found, 1)
	assert.Equal(t, shelter.ID, found[0].ID)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/persons?role=Dragon", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Equal(t, "role", env.Field)
}

func TestGetPerson_NotFound(t *testing.T) {
	rec, env := do(t, newEngine(t), http.MethodGet, "/api/v1/persons/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PERSON_NOT_FOUND", env.Error)
	assert.False(t, env.Success)
}

func TestAdvertisementFlow(t *testing.T) {
	engine := newEngine(t)

	_, env := do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("shelter", "shelter@example.com"))
	owner := decode[personapp.PersonResponse](t, env.Data)
	base := "/api/v1/persons/" + owner.ID

	rec, env := do(t, engine, http.MethodPost, base+"/cats", catBody("Mruczek"))
	require.Equal(t, http.StatusCreated, rec.Code)
	cat := decode[personapp.CatResponse](t, env.Data)
	assert.Greater(t, cat.PriorityScore, 0.0)

	rec, env = do(t, engine, http.MethodPost, base+"/advertisements", map[string]any{"cat_ids": []string{cat.ID}})
	require.Equal(t, http.StatusCreated, rec.Code)
	ad := decode[personapp.AdvertisementResponse](t, env.Data)
	assert.Equal(t, "ThumbnailNotUploaded", ad.Status)
	adPath := base + "/advertisements/" + ad.ID

	rec, env = do(t, engine, http.MethodPost, adPath+"/close", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ADVERTISEMENT_STATE", env.Error)

	rec, env = do(t, engine, http.MethodPost, adPath+"/thumbnail", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Active", decode[personapp.AdvertisementResponse](t, env.Data).Status)

	rec, env = do(t, engine, http.MethodDelete, base+"/cats/"+cat.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_OPERATION", env.Error)

	rec, env = do(t, engine, http.MethodPost, adPath+"/close", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	closed := decode[personapp.AdvertisementResponse](t, env.Data)
	assert.Equal(t, "Closed", closed.Status)
	require.NotNil(t, closed.ClosedOn)

	rec, env = do(t, engine, http.MethodGet, base+"/cats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[[]personapp.CatResponse](t, env.Data)
	require.Len(t, cats, 1)
	assert.True(t, cats[0].IsAdopted)
}

func TestAddAdvertisement_RequiresCats(t *testing.T) {
	engine := newEngine(t)
	_, env := do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("shelter", "shelter@example.com"))
	owner := decode[personapp.PersonResponse](t, env.Data)

	rec, env := do(t, engine, http.MethodPost, "/api/v1/persons/"+owner.ID+"/advertisements", map[string]any{"cat_ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error)
}

func TestRemoveAdvertisement_NoContent(t *testing.T) {
	engine := newEngine(t)
	_, env := do(t, engine, http.MethodPost, "/api/v1/persons", registerBody("shelter", "shelter@example.com"))
	owner := decode[personapp.PersonResponse](t, env.Data)
	base := "/api/v1/persons/" + owner.ID

	_, env = do(t, engine, http.MethodPost, base+"/cats", catBody("Mruczek"))
	cat := decode[personapp.CatResponse](t, env.Data)
	_, env = do(t, engine, http.MethodPost, base+"/advertisements", map[string]any{"cat_ids": []string{cat.ID}})
	ad := decode[personapp.AdvertisementResponse](t, env.Data)

	rec, _ := do(t, engine, http.MethodDelete, base+"/advertisements/"+ad.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = do(t, engine, http.MethodGet, base+"/advertisements/"+ad.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ADVERTISEMENT_NOT_FOUND", env.Error)
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := newEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/persons/missing", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "req-123", env.RequestID)
	assert.Equal(t, "req-123", rec.Header().Get(middleware.RequestIDHeader))
}
