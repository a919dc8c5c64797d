package api

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stsysd/axisgraph/config"
	"github.com/stsysd/axisgraph/graph"
	"github.com/stsysd/axisgraph/model"
	"github.com/stsysd/axisgraph/store"
)

// テスト用の定数
const testAPIKey = "test-api-key"

// テスト用の設定を生成するヘルパー関数
func newTestConfig() *config.Config {
	return &config.Config{
		DataDir:  "./testdata",
		Port:     "8080",
		APIKey:   testAPIKey,
		LogLevel: "info",
	}
}

// MockStore はテスト用のインメモリStore実装です。
type MockStore struct {
	projects   map[string]*model.Project
	activities map[uuid.UUID]*model.Activity
}

var _ store.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		projects:   make(map[string]*model.Project),
		activities: make(map[uuid.UUID]*model.Activity),
	}
}

func (m *MockStore) CreateProject(ctx context.Context, project *model.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if _, exists := m.projects[project.Name]; exists {
		return model.ErrProjectExists
	}
	m.projects[project.Name] = project
	return nil
}

func (m *MockStore) GetProject(ctx context.Context, name string) (*model.Project, error) {
	project, exists := m.projects[name]
	if !exists {
		return nil, model.ErrProjectNotFound
	}
	return project, nil
}

func (m *MockStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	projects := []*model.Project{}
	for _, p := range m.projects {
		projects = append(projects, p)
	}
	slices.SortFunc(projects, func(a, b *model.Project) int { return strings.Compare(a.Name, b.Name) })
	return projects, nil
}

func (m *MockStore) DeleteProject(ctx context.Context, name string) error {
	if _, exists := m.projects[name]; !exists {
		return model.ErrProjectNotFound
	}
	delete(m.projects, name)
	for id, a := range m.activities {
		if a.Project == name {
			delete(m.activities, id)
		}
	}
	return nil
}

func (m *MockStore) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if err := activity.Validate(); err != nil {
		return err
	}
	if _, exists := m.projects[activity.Project]; !exists {
		return model.ErrProjectNotFound
	}
	m.activities[activity.ID] = activity
	return nil
}

func (m *MockStore) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	activity, exists := m.activities[id]
	if !exists {
		return nil, model.ErrActivityNotFound
	}
	return activity, nil
}

func (m *MockStore) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.activities[id]; !exists {
		return model.ErrActivityNotFound
	}
	delete(m.activities, id)
	return nil
}

func (m *MockStore) inRange(project string, from, to time.Time) []*model.Activity {
	var activities []*model.Activity
	for _, a := range m.activities {
		if a.Project == project && !a.Timestamp.Before(from) && !a.Timestamp.After(to) {
			activities = append(activities, a)
		}
	}
	// Timestampの昇順にソート（SQLiteの実装と同様に）
	slices.SortFunc(activities, func(a, b *model.Activity) int { return a.Timestamp.Compare(b.Timestamp) })
	return activities
}

func (m *MockStore) ListActivities(ctx context.Context, params *store.ListActivitiesParams) ([]*model.Activity, error) {
	activities := m.inRange(params.Project, params.From, params.To)
	if params.Offset >= len(activities) {
		return nil, nil
	}
	activities = activities[params.Offset:]
	if params.Limit > 0 && params.Limit < len(activities) {
		activities = activities[:params.Limit]
	}
	return activities, nil
}

func (m *MockStore) ListActivityTimes(ctx context.Context, project string, from, to time.Time) iter.Seq2[time.Time, error] {
	return func(yield func(time.Time, error) bool) {
		for _, a := range m.inRange(project, from, to) {
			if !yield(a.Timestamp, nil) {
				return
			}
		}
	}
}

func (m *MockStore) Close() error {
	return nil
}

// テスト用のサーバーとストアを作成するヘルパー関数
func newTestServer(t *testing.T, opts ...Option) (*Server, *MockStore) {
	t.Helper()
	mockStore := NewMockStore()
	return NewServer(mockStore, newTestConfig(), opts...), mockStore
}

func addProject(t *testing.T, m *MockStore, name string) {
	t.Helper()
	project, err := model.NewProject(name, "")
	require.NoError(t, err)
	require.NoError(t, m.CreateProject(context.Background(), project))
}

func addActivity(t *testing.T, m *MockStore, project string, ts time.Time) *model.Activity {
	t.Helper()
	activity, err := model.NewActivity(ts, project)
	require.NoError(t, err)
	require.NoError(t, m.CreateActivity(context.Background(), activity))
	return activity
}

func doRequest(s *Server, method, target string, body []byte, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		req.Header.Set("X-API-Key", testAPIKey)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func localNoon(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestHealthCheck(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/v0/p", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decodeError(t, rec).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v0/p", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v0/p", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_NotConfigured(t *testing.T) {
	cfg := newTestConfig()
	cfg.APIKey = ""
	server := NewServer(NewMockStore(), cfg)

	rec := doRequest(server, http.MethodGet, "/api/v0/p", nil, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProjectEndpoints(t *testing.T) {
	server, _ := newTestServer(t)

	// 作成
	rec := doRequest(server, http.MethodPost, "/api/v0/p", []byte(`{"name":"reading","description":"books"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "reading", created.Name)
	assert.Equal(t, "books", created.Description)

	// 重複
	rec = doRequest(server, http.MethodPost, "/api/v0/p", []byte(`{"name":"reading"}`), true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 一覧
	rec = doRequest(server, http.MethodGet, "/api/v0/p", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var projects []model.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Len(t, projects, 1)

	// 取得
	rec = doRequest(server, http.MethodGet, "/api/v0/p/reading", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 削除
	rec = doRequest(server, http.MethodDelete, "/api/v0/p/reading", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v0/p/reading", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decodeError(t, rec).Error)

	rec = doRequest(server, http.MethodDelete, "/api/v0/p/reading", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProjectInvalid(t *testing.T) {
	server, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"empty name", `{"name":""}`},
		{"invalid name", `{"name":"a b"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(server, http.MethodPost, "/api/v0/p", []byte(tt.body), true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestActivityEndpoints(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "running")

	// 作成
	rec := doRequest(server, http.MethodPost, "/api/v0/a",
		[]byte(`{"project":"running","timestamp":"2025-05-21T07:00:00Z"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.True(t, created.Timestamp.Equal(time.Date(2025, 5, 21, 7, 0, 0, 0, time.UTC)))

	// 取得
	rec = doRequest(server, http.MethodGet, "/api/v0/a/"+created.ID.String(), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "running", got.Project)

	// 削除
	rec = doRequest(server, http.MethodDelete, "/api/v0/a/"+created.ID.String(), nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v0/a/"+created.ID.String(), nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Activity not found", decodeError(t, rec).Error)
}

func TestCreateActivityWithoutTimestamp(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "running")

	before := time.Now()
	rec := doRequest(server, http.MethodPost, "/api/v0/a", []byte(`{"project":"running"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.WithinDuration(t, before, created.Timestamp, time.Minute)
}

func TestCreateActivityInvalid(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "running")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing project", `{"timestamp":"2025-05-21"}`, http.StatusBadRequest},
		{"invalid timestamp", `{"project":"running","timestamp":"soon"}`, http.StatusBadRequest},
		{"unknown project", `{"project":"cycling"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(server, http.MethodPost, "/api/v0/a", []byte(tt.body), true)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGetActivityInvalidID(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/v0/a/not-a-uuid", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(server, http.MethodDelete, "/api/v0/a/"+uuid.NewString(), nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListActivities(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "running")
	for d := 1; d <= 5; d++ {
		addActivity(t, mockStore, "running", localNoon(2025, 5, d))
	}

	rec := doRequest(server, http.MethodGet, "/api/v0/p/running/a?from=2025-05-02&to=2025-05-04", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var activities []model.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activities))
	require.Len(t, activities, 3)
	assert.Equal(t, 2, activities[0].Timestamp.Local().Day())

	rec = doRequest(server, http.MethodGet, "/api/v0/p/running/a?from=2025-05-01&to=2025-05-31&limit=2&offset=3", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activities))
	require.Len(t, activities, 2)
	assert.Equal(t, 4, activities[0].Timestamp.Local().Day())

	// 範囲外は空配列
	rec = doRequest(server, http.MethodGet, "/api/v0/p/running/a?from=2024-01-01&to=2024-01-31", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(server, http.MethodGet, "/api/v0/p/running/a?limit=0", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v0/p/cycling/a", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGraph(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 3))
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 3))
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 10))
	// 範囲外
	addActivity(t, mockStore, "demo", localNoon(2023, 3, 1))

	for _, path := range []string{"/p/demo/graph", "/p/demo/graph.svg"} {
		rec := doRequest(server, http.MethodGet, path+"?from=2023-01-02&to=2023-01-15", nil, false)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))

		svg := rec.Body.String()
		assert.True(t, strings.HasPrefix(svg, "<svg"))
		assert.Contains(t, svg, `class="title">demo</text>`)
		assert.Contains(t, svg, `data-date="2023-01-03" data-count="2" data-level="1"`)
		assert.Contains(t, svg, `data-date="2023-01-10" data-count="1" data-level="1"`)
		assert.Equal(t, 14, strings.Count(svg, "data-date="))
		assert.Contains(t, svg, ">Less<")
	}
}

func TestGetGraphOptions(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")
	for range 7 {
		addActivity(t, mockStore, "demo", localNoon(2023, 1, 3))
	}

	rec := doRequest(server, http.MethodGet,
		"/p/demo/graph?from=2023-01-02&to=2023-01-15&axis=vertical&spacing=1&scheme=dark&legend=number", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	svg := rec.Body.String()
	assert.Contains(t, svg, `data-date="2023-01-03" data-count="7" data-level="5"`)
	assert.Contains(t, svg, "#171B21")
	assert.Contains(t, svg, ">5+<")
	// 縦向きでは新しい週が先頭
	assert.Less(t, strings.Index(svg, `data-date="2023-01-09"`), strings.Index(svg, `data-date="2023-01-02"`))

	rec = doRequest(server, http.MethodGet, "/p/demo/graph?from=2023-01-02&to=2023-01-15&legend=none", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), ">Less<")
}

func TestGetGraphWithTheme(t *testing.T) {
	theme := config.DefaultTheme()
	theme.Accent = "#FF00FF"
	server, mockStore := newTestServer(t, WithTheme(theme))
	addProject(t, mockStore, "demo")
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 3))

	rec := doRequest(server, http.MethodGet, "/p/demo/graph?from=2023-01-02&to=2023-01-08", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fill="#FF00FF"`)
}

func TestGetGraphErrors(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")

	tests := []struct {
		path   string
		status int
	}{
		{"/p/missing/graph", http.StatusNotFound},
		{"/p/demo/graph?from=yesterday", http.StatusBadRequest},
		{"/p/demo/graph?axis=diagonal", http.StatusBadRequest},
		{"/p/demo/graph?spacing=0", http.StatusBadRequest},
		{"/p/demo/graph?scheme=sepia", http.StatusBadRequest},
		{"/p/demo/graph?legend=sideways", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := doRequest(server, http.MethodGet, tt.path, nil, false)
		assert.Equal(t, tt.status, rec.Code, tt.path)
	}
}

func TestGetGraphInvertedRange(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")

	rec := doRequest(server, http.MethodGet, "/p/demo/graph?from=2023-02-01&to=2023-01-01", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestGetGraphWithTrackParam(t *testing.T) {
	now := localNoon(2023, 1, 4)
	server, mockStore := newTestServer(t, WithClock(func() time.Time { return now }))
	addProject(t, mockStore, "counter")

	rec := doRequest(server, http.MethodGet, "/p/counter/graph?track&from=2023-01-02&to=2023-01-08", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	// アクセスによってアクティビティが記録され、グラフに反映されること
	require.Len(t, mockStore.activities, 1)
	assert.Contains(t, rec.Body.String(), `data-date="2023-01-04" data-count="1"`)

	// trackなしでは記録されない
	rec = doRequest(server, http.MethodGet, "/p/counter/graph?from=2023-01-02&to=2023-01-08", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, mockStore.activities, 1)
}

func TestGetGraphTrackUnknownProject(t *testing.T) {
	server, mockStore := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/p/ghost/graph?track", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, mockStore.activities)
}

func TestGetGrid(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 3))

	rec := doRequest(server, http.MethodGet, "/api/v0/p/demo/grid?from=2023-01-02&to=2023-01-15", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	grid, err := graph.UnmarshalGrid(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, 1, grid[0][1].Count)
	assert.Equal(t, time.Monday, grid[1][0].Date.Weekday())

	var raw [][]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.EqualValues(t, 1, raw[0][1]["level"])

	rec = doRequest(server, http.MethodGet, "/api/v0/p/demo/grid", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/v0/p/missing/grid", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGridCountsWholeEdgeWeeks(t *testing.T) {
	server, mockStore := newTestServer(t)
	addProject(t, mockStore, "demo")
	// 範囲 2023-01-04..2023-01-11 の外だが、描画される週に含まれる日
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 2))
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 15))
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 15))
	// 描画される週の外
	addActivity(t, mockStore, "demo", localNoon(2023, 1, 1))

	rec := doRequest(server, http.MethodGet, "/api/v0/p/demo/grid?from=2023-01-04&to=2023-01-11", nil, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	grid, err := graph.UnmarshalGrid(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, 2, grid[0][0].Date.Day())
	assert.Equal(t, 1, grid[0][0].Count)
	assert.Equal(t, 15, grid[1][6].Date.Day())
	assert.Equal(t, 2, grid[1][6].Count)

	total := 0
	for _, col := range grid {
		for _, cell := range col {
			total += cell.Count
		}
	}
	assert.Equal(t, 3, total)

	rec = doRequest(server, http.MethodGet, "/p/demo/graph?from=2023-01-04&to=2023-01-11", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-date="2023-01-02" data-count="1"`)
	assert.Contains(t, rec.Body.String(), `data-date="2023-01-15" data-count="2"`)
}
