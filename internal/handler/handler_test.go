package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"newsbug/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeCategoryStore struct {
	categories []model.Category
	category   *model.Category
	created    *model.Category
	updated    *model.Category
	found      bool
	err        error
}

func (f *fakeCategoryStore) Create(ctx context.Context, category *model.Category) error {
	if f.err != nil {
		return f.err
	}
	category.ID = primitive.NewObjectID()
	f.created = category
	return nil
}

func (f *fakeCategoryStore) GetAll(ctx context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

func (f *fakeCategoryStore) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return f.category, f.err
}

func (f *fakeCategoryStore) Update(ctx context.Context, id string, category *model.Category) (bool, error) {
	f.updated = category
	return f.found, f.err
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	return f.found, f.err
}

type fakeSourceStore struct {
	sources         []model.Source
	source          *model.Source
	created         *model.Source
	update          model.SourceUpdate
	found           bool
	deletedCategory string
	err             error
}

func (f *fakeSourceStore) Create(ctx context.Context, source *model.Source) error {
	if f.err != nil {
		return f.err
	}
	source.ID = primitive.NewObjectID()
	f.created = source
	return nil
}

func (f *fakeSourceStore) GetByCategory(ctx context.Context, categoryID string) ([]model.Source, error) {
	return f.sources, f.err
}

func (f *fakeSourceStore) GetByID(ctx context.Context, id string) (*model.Source, error) {
	return f.source, f.err
}

func (f *fakeSourceStore) Update(ctx context.Context, id string, update model.SourceUpdate) (bool, error) {
	f.update = update
	return f.found, f.err
}

func (f *fakeSourceStore) Delete(ctx context.Context, id string) (bool, error) {
	return f.found, f.err
}

func (f *fakeSourceStore) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	f.deletedCategory = categoryID
	return int64(len(f.sources)), f.err
}

func (f *fakeSourceStore) RequestRun(ctx context.Context, id string) (bool, error) {
	return f.found, f.err
}

type fakeArticleStore struct {
	articles []model.Article
	keywords []model.KeywordDetails
	count    int64
	err      error
}

func (f *fakeArticleStore) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	return f.count, f.err
}

func (f *fakeArticleStore) GetCompletedByCategory(ctx context.Context, categoryID string) ([]model.Article, error) {
	return f.articles, f.err
}

func (f *fakeArticleStore) GetKeywords(ctx context.Context, categoryID string) ([]model.KeywordDetails, error) {
	return f.keywords, f.err
}

func newTestRouter(categories *fakeCategoryStore, sources *fakeSourceStore, articles *fakeArticleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}

	r := gin.New()
	ch := NewCategoryHandler(categories, sources, articles)
	sh := NewSourceHandler(sources, categories)
	ah := NewArticleHandler(articles)

	r.GET("/categories", ch.GetCategories)
	r.POST("/categories", ch.CreateCategory)
	r.GET("/categories/:id", ch.GetCategory)
	r.PUT("/categories/:id", ch.UpdateCategory)
	r.DELETE("/categories/:id", ch.DeleteCategory)
	r.GET("/categories/:id/sources", sh.GetSources)
	r.GET("/categories/:id/articles", ah.GetArticles)
	r.GET("/categories/:id/keywords", ah.GetKeywords)
	r.GET("/categories/:id/keywords/map", ah.GetKeywordMap)
	r.POST("/sources", sh.CreateSource)
	r.GET("/sources/:id", sh.GetSource)
	r.PATCH("/sources/:id", sh.UpdateSource)
	r.DELETE("/sources/:id", sh.DeleteSource)
	r.POST("/sources/:id/run", sh.RunSource)
	r.GET("/sources/:id/executions", sh.GetExecutions)
	r.POST("/cron/validate", sh.ValidateCron)
	return r
}

func perform(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return env
}

var categoryID = primitive.NewObjectID()

func TestGetCategories(t *testing.T) {
	categories := &fakeCategoryStore{categories: []model.Category{
		{ID: categoryID, Title: "Outbreaks", Keywords: []string{"Measles"}, Description: "Disease news"},
	}}
	r := newTestRouter(categories, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "GET", "/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.Equal(t, true, env.Success)

	var res []CategoryResponse
	json.Unmarshal(env.Data, &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, categoryID.Hex(), res[0].ID)
	assert.Equal(t, "Outbreaks", res[0].Title)
	assert.Equal(t, []string{"Measles"}, res[0].Keywords)
}

func TestGetCategories_Empty(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "GET", "/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"success":true,"data":[]}`, w.Body.String())
}

func TestGetCategories_DBError(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{err: errors.New("DB down")}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "GET", "/categories", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	env := decode(t, w)
	assert.Equal(t, false, env.Success)
	assert.Equal(t, "Error fetching categories", env.Error)
}

func TestCreateCategory(t *testing.T) {
	categories := &fakeCategoryStore{}
	r := newTestRouter(categories, &fakeSourceStore{}, &fakeArticleStore{})

	body := `{"title":"  Outbreaks ","keywords":["Measles"," flu ","measles",""],"description":"Disease news"}`
	w := perform(r, "POST", "/categories", "application/json", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	env := decode(t, w)
	var created CreatedResponse
	json.Unmarshal(env.Data, &created)
	assert.Equal(t, categories.created.ID.Hex(), created.InsertedID)
	assert.Equal(t, "Outbreaks", categories.created.Title)
	assert.Equal(t, []string{"Measles", "flu"}, categories.created.Keywords)
}

func TestCreateCategory_Validation(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "POST", "/categories", "application/json", `{"title":" ","keywords":[" "]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.Equal(t, false, env.Success)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []string{"Title is required"}, env.Errors["title"])
	assert.Equal(t, []string{"Keywords are required"}, env.Errors["keywords"])
}

func TestCreateCategory_BadJSON(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "POST", "/categories", "application/json", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w).Error)
}

func TestGetCategory(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "GET", "/categories/not-an-id", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category id", decode(t, w).Error)

	w = perform(r, "GET", "/categories/"+categoryID.Hex(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found", decode(t, w).Error)
}

func TestGetCategory_ArticleCount(t *testing.T) {
	categories := &fakeCategoryStore{category: &model.Category{ID: categoryID, Title: "Outbreaks", Keywords: []string{"Measles"}}}
	r := newTestRouter(categories, &fakeSourceStore{}, &fakeArticleStore{count: 42})

	w := perform(r, "GET", "/categories/"+categoryID.Hex(), "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res CategoryResponse
	assert.Equal(t, nil, json.Unmarshal(decode(t, w).Data, &res))
	assert.Equal(t, categoryID.Hex(), res.ID)
	assert.Equal(t, int64(42), *res.ArticleCount)
}

func TestGetCategories_NoArticleCount(t *testing.T) {
	categories := &fakeCategoryStore{categories: []model.Category{{ID: categoryID, Title: "Outbreaks"}}}
	r := newTestRouter(categories, &fakeSourceStore{}, &fakeArticleStore{count: 42})

	w := perform(r, "GET", "/categories", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, strings.Contains(w.Body.String(), "articleCount"))
}

func TestUpdateCategory(t *testing.T) {
	categories := &fakeCategoryStore{found: true}
	r := newTestRouter(categories, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "PUT", "/categories/"+categoryID.Hex(), "application/json", `{"title":"Renamed","keywords":["Ebola"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", categories.updated.Title)
	assert.Equal(t, []string{"Ebola"}, categories.updated.Keywords)
}

func TestDeleteCategory_RemovesSources(t *testing.T) {
	sources := &fakeSourceStore{sources: []model.Source{{}, {}}}
	r := newTestRouter(&fakeCategoryStore{found: true}, sources, &fakeArticleStore{})

	w := perform(r, "DELETE", "/categories/"+categoryID.Hex(), "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, categoryID.Hex(), sources.deletedCategory)
	assert.Equal(t, `{"deletedSources":2}`, string(decode(t, w).Data))
}

func TestDeleteCategory_NotFound(t *testing.T) {
	sources := &fakeSourceStore{}
	r := newTestRouter(&fakeCategoryStore{found: false}, sources, &fakeArticleStore{})

	w := perform(r, "DELETE", "/categories/"+categoryID.Hex(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "", sources.deletedCategory)
}

func TestGetSources(t *testing.T) {
	last := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sources := &fakeSourceStore{sources: []model.Source{{
		ID:           primitive.NewObjectID(),
		Title:        "WHO news",
		URL:          "https://www.who.int/news",
		CategoryID:   categoryID.Hex(),
		CronSchedule: "0 * * * *",
		IsActive:     true,
		Status:       model.SourceIdle,
		LastRunAt:    &last,
	}}}
	r := newTestRouter(&fakeCategoryStore{}, sources, &fakeArticleStore{})

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/sources", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res []SourceResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "WHO news", res[0].Title)
	assert.Equal(t, "idle", res[0].Status)
	assert.Equal(t, "2024-03-01T12:00:00Z", *res[0].LastRunAt)
	assert.Equal(t, true, res[0].NextRunAt == nil)
}

func TestCreateSource_JSON(t *testing.T) {
	sources := &fakeSourceStore{}
	categories := &fakeCategoryStore{category: &model.Category{ID: categoryID}}
	r := newTestRouter(categories, sources, &fakeArticleStore{})

	body := `{"categoryId":"` + categoryID.Hex() + `","title":"WHO","url":"https://www.who.int/news","cronSchedule":"*/15 * * * *","isActive":true}`
	w := perform(r, "POST", "/sources", "application/json", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	env := decode(t, w)
	assert.Equal(t, true, env.Success)
	assert.Equal(t, "Source created successfully!", env.Message)
	assert.Equal(t, "*/15 * * * *", sources.created.CronSchedule)
	assert.Equal(t, true, sources.created.IsActive)
}

func TestCreateSource_FormCustomSchedule(t *testing.T) {
	sources := &fakeSourceStore{}
	categories := &fakeCategoryStore{category: &model.Category{ID: categoryID}}
	r := newTestRouter(categories, sources, &fakeArticleStore{})

	form := url.Values{
		"categoryId":         {categoryID.Hex()},
		"title":              {"CDC"},
		"url":                {"https://www.cdc.gov/media"},
		"cronSchedule":       {"0 0 * * *"},
		"cronScheduleType":   {"custom"},
		"customCronSchedule": {"30 6 * * 1-5"},
		"isActive":           {"true"},
	}
	w := perform(r, "POST", "/sources", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "30 6 * * 1-5", sources.created.CronSchedule)
	assert.Equal(t, true, sources.created.IsActive)
}

func TestCreateSource_Validation(t *testing.T) {
	sources := &fakeSourceStore{}
	r := newTestRouter(&fakeCategoryStore{}, sources, &fakeArticleStore{})

	form := url.Values{
		"categoryId":         {""},
		"title":              {""},
		"url":                {"not a url"},
		"cronScheduleType":   {"custom"},
		"customCronSchedule": {"61 * * * *"},
	}
	w := perform(r, "POST", "/sources", "application/x-www-form-urlencoded", form.Encode())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []string{"Category is required"}, env.Errors["categoryId"])
	assert.Equal(t, []string{"Title is required"}, env.Errors["title"])
	assert.Equal(t, []string{"Invalid URL format"}, env.Errors["url"])
	assert.Equal(t, []string{"Invalid cron expression"}, env.Errors["cronSchedule"])
	assert.Equal(t, true, sources.created == nil)
}

func TestCreateSource_UnknownCategory(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	body := `{"categoryId":"` + categoryID.Hex() + `","title":"WHO","url":"https://www.who.int","cronSchedule":"* * * * *"}`
	w := perform(r, "POST", "/sources", "application/json", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Category not found"}, decode(t, w).Errors["categoryId"])
}

func TestUpdateSource(t *testing.T) {
	sources := &fakeSourceStore{found: true}
	r := newTestRouter(&fakeCategoryStore{}, sources, &fakeArticleStore{})
	id := primitive.NewObjectID().Hex()

	w := perform(r, "PATCH", "/sources/"+id, "application/json", `{"cronSchedule":"0 */2 * * *","isActive":false}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0 */2 * * *", *sources.update.CronSchedule)
	assert.Equal(t, false, *sources.update.IsActive)
	assert.Equal(t, true, sources.update.Title == nil)

	w = perform(r, "PATCH", "/sources/"+id, "application/json", `{"cronSchedule":"* * * *"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Invalid cron expression"}, decode(t, w).Errors["cronSchedule"])

	w = perform(r, "PATCH", "/sources/"+id, "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No fields to update", decode(t, w).Error)
}

func TestRunSource(t *testing.T) {
	id := primitive.NewObjectID().Hex()

	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{found: true}, &fakeArticleStore{})
	w := perform(r, "POST", "/sources/"+id+"/run", "", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	r = newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{found: false}, &fakeArticleStore{})
	w = perform(r, "POST", "/sources/"+id+"/run", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetExecutions_NewestFirst(t *testing.T) {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	sources := &fakeSourceStore{source: &model.Source{
		ExecutionHistory: []model.JobExecution{
			{ID: "first", StartedAt: started, Status: model.ExecutionFailed, Error: "timeout"},
			{ID: "second", StartedAt: started.Add(time.Hour), Status: model.ExecutionCompleted, Duration: 1500},
		},
	}}
	r := newTestRouter(&fakeCategoryStore{}, sources, &fakeArticleStore{})

	w := perform(r, "GET", "/sources/"+primitive.NewObjectID().Hex()+"/executions", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res []ExecutionResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, "second", res[0].ID)
	assert.Equal(t, int64(1500), res[0].Duration)
	assert.Equal(t, "timeout", res[1].Error)
}

func TestValidateCron(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{})

	w := perform(r, "POST", "/cron/validate", "application/json", `{"expression":"*/5 * * * *"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var res CronValidateResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, true, res.Valid)
	assert.Equal(t, 5, len(res.NextRuns))

	w = perform(r, "POST", "/cron/validate", "application/json", `{"expression":"*/0 * * * *"}`)
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, false, res.Valid)
	assert.Equal(t, 0, len(res.NextRuns))
}

func TestGetArticles(t *testing.T) {
	published := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	articles := &fakeArticleStore{articles: []model.Article{{
		ID:             primitive.NewObjectID(),
		Title:          "Measles outbreak",
		URL:            "https://example.com/measles",
		PublishDate:    &published,
		IsArticleValid: true,
		Keywords:       []model.Keyword{{Keyword: "Measles", Location: "Lagos", CaseCount: 12, Latitude: 6.45, Longitude: 3.39}},
	}}}
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, articles)

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/articles", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res []ArticleResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "2024-02-10T08:00:00Z", *res[0].PublishedDate)
	assert.Equal(t, 12, res[0].Keywords[0].CaseCount)
}

func keywordRows() []model.KeywordDetails {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	return []model.KeywordDetails{
		{ID: 1, Keyword: "Measles", CaseCount: 10, Location: "Lagos", Latitude: 6, Longitude: 3, Date: day(5)},
		{ID: 2, Keyword: "Cholera", CaseCount: 200, Location: "Dhaka", Latitude: 24, Longitude: 90, Date: day(10)},
		{ID: 3, Keyword: "measles", CaseCount: 3, Location: "Rome", Latitude: 42, Longitude: 12, Date: day(20)},
	}
}

func TestGetKeywords_Filters(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{keywords: keywordRows()})

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/keywords?keyword=MEAS&min_cases=5&from=2024-01-01", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res KeywordsResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, 1, res.Keywords[0].ID)
	assert.Equal(t, "2024-01-05T00:00:00Z", res.Keywords[0].Date)
	assert.Equal(t, CaseRange{Min: 3, Max: 200}, res.CaseRange)
}

func TestGetKeywords_DaysPreset(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{keywords: keywordRows()})

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/keywords?days=7", "", "")

	var res KeywordsResponse
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Rome", res.Keywords[0].Location)
}

func TestGetKeywordMap(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{keywords: keywordRows()[:2]})

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/keywords/map", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Center     LatLng `json:"center"`
		TotalCases int    `json:"totalCases"`
		GeoJSON    struct {
			Type     string `json:"type"`
			Features []struct {
				Geometry struct {
					Coordinates [2]float64 `json:"coordinates"`
				} `json:"geometry"`
			} `json:"features"`
		} `json:"geojson"`
	}
	json.Unmarshal(decode(t, w).Data, &res)
	assert.Equal(t, LatLng{Latitude: 15, Longitude: 46.5}, res.Center)
	assert.Equal(t, 210, res.TotalCases)
	assert.Equal(t, "FeatureCollection", res.GeoJSON.Type)
	assert.Equal(t, [2]float64{3, 6}, res.GeoJSON.Features[0].Geometry.Coordinates)
}

func TestGetKeywords_DBError(t *testing.T) {
	r := newTestRouter(&fakeCategoryStore{}, &fakeSourceStore{}, &fakeArticleStore{err: errors.New("DB down")})

	w := perform(r, "GET", "/categories/"+categoryID.Hex()+"/keywords", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error fetching keywords", decode(t, w).Error)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHealthHandler(map[string]HealthCheck{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("refused") },
	})
	r.GET("/health", h.GetHealth)

	w := perform(r, "GET", "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
	assert.Equal(t, "connected", res["database"])
	assert.Equal(t, "disconnected", res["redis"])
}
