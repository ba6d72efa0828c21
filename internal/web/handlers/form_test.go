package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/Conceptual-Machines/moviepicks/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingRecorder holds the first submission in flight until released
type blockingRecorder struct {
	entered chan struct{}
	release chan struct{}
}

func (r *blockingRecorder) RecordSubmission(int, bool, bool) {
	r.entered <- struct{}{}
	<-r.release
}

type countingToggles struct {
	changed, ignored int
}

func (c *countingToggles) RecordGenreToggle(changed bool) {
	if changed {
		c.changed++
	} else {
		c.ignored++
	}
}

// browser replays the form session cookie between requests
type browser struct {
	t       *testing.T
	router  *gin.Engine
	cookies []*http.Cookie
}

func setupTestRouter(t *testing.T) (*browser, *services.SubmissionService, *countingToggles) {
	t.Helper()
	return setupTestRouterWithRecorder(t, nil)
}

func setupTestRouterWithRecorder(t *testing.T, recorder services.SubmissionRecorder) (*browser, *services.SubmissionService, *countingToggles) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New([]string{"Action", "Comedy", "Drama", "Horror", "Romance", "Sci-Fi"})
	require.NoError(t, err)

	store := sessions.NewCookieStore([]byte("test-session-secret"))
	submissions := services.NewSubmissionService(recorder)
	toggles := &countingToggles{}
	h := NewWebHandler(store, services.NewFormStore(), cat, submissions, toggles)

	router := gin.New()
	router.GET("/", h.Home)
	router.POST("/form/genres/toggle", h.ToggleGenre)
	router.POST("/form/mood", h.SetMood)
	router.POST("/form/keywords", h.SetKeywords)
	router.POST("/form/submit", h.Submit)
	router.GET("/api/v1/form", h.FormState)

	return &browser{t: t, router: router}, submissions, toggles
}

// request builds a request carrying the current cookies
func (b *browser) request(method, path string, form url.Values, headers map[string]string) *http.Request {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	return req
}

func (b *browser) do(method, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	b.t.Helper()
	req := b.request(method, path, form, headers)

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return w
}

func (b *browser) toggle(genre string) *httptest.ResponseRecorder {
	return b.do("POST", "/form/genres/toggle", url.Values{"genre": {genre}}, map[string]string{"HX-Request": "true"})
}

func (b *browser) state() FormStateResponse {
	b.t.Helper()
	w := b.do("GET", "/api/v1/form", nil, nil)
	require.Equal(b.t, http.StatusOK, w.Code)
	var resp FormStateResponse
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHomeMountsEmptyForm(t *testing.T) {
	b, _, _ := setupTestRouter(t)

	w := b.do("GET", "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `id="preference-form"`)
	require.NotEmpty(t, b.cookies)

	st := b.state()
	assert.NotEmpty(t, st.FormID)
	assert.Empty(t, st.Genres)
	assert.False(t, st.AtLimit)
}

func TestToggleGenresUpToLimit(t *testing.T) {
	b, _, toggles := setupTestRouter(t)
	b.do("GET", "/", nil, nil)

	for _, g := range []string{"Comedy", "Horror", "Action", "Drama", "Sci-Fi"} {
		w := b.toggle(g)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := b.toggle("Romance")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maximum 5 genres selected.")
	assert.Contains(t, w.Body.String(), `value="Romance" aria-pressed="false" disabled>`)

	st := b.state()
	assert.Equal(t, []string{"Comedy", "Horror", "Action", "Drama", "Sci-Fi"}, st.Genres)
	assert.True(t, st.AtLimit)

	b.toggle("Horror")
	st = b.state()
	assert.Equal(t, []string{"Comedy", "Action", "Drama", "Sci-Fi"}, st.Genres)
	assert.False(t, st.AtLimit)

	assert.Equal(t, 6, toggles.changed)
	assert.Equal(t, 1, toggles.ignored)
}

func TestToggleRequiresGenre(t *testing.T) {
	b, _, _ := setupTestRouter(t)

	w := b.do("POST", "/form/genres/toggle", url.Values{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetTextFields(t *testing.T) {
	b, _, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)

	w := b.do("POST", "/form/mood", url.Values{"mood": {"  light-hearted comedy "}}, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = b.do("POST", "/form/keywords", url.Values{"keywords": {"space exploration"}}, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	st := b.state()
	assert.Equal(t, "  light-hearted comedy ", st.Mood)
	assert.Equal(t, "space exploration", st.Keywords)
}

func TestSubmitDeliversPreferences(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)
	b.toggle("Action")

	w := b.do("POST", "/form/submit", url.Values{
		"mood":     {"light-hearted comedy"},
		"keywords": {"space exploration"},
	}, map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Preferences received")
	assert.NotContains(t, w.Body.String(), `id="preference-form"`)

	st := b.state()
	got, ok := submissions.Last(st.FormID)
	require.True(t, ok)
	assert.Equal(t, []string{"Action"}, got.Genres)
	assert.Equal(t, "light-hearted comedy", got.Mood)
	assert.Equal(t, "space exploration", got.Keywords)

	// Submission does not clear the form
	assert.Equal(t, []string{"Action"}, st.Genres)
}

func TestSubmitEmptyFormWithoutHTMX(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)

	w := b.do("POST", "/form/submit", url.Values{}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<!doctype html>")
	assert.Contains(t, w.Body.String(), "<dd>Any</dd>")

	got, ok := submissions.Last(b.state().FormID)
	require.True(t, ok)
	assert.Empty(t, got.Genres)
}

func TestHomeStartsNewInstance(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)
	b.toggle("Drama")
	b.do("POST", "/form/submit", url.Values{}, nil)
	first := b.state().FormID

	b.do("GET", "/", nil, nil)
	st := b.state()

	assert.NotEqual(t, first, st.FormID)
	assert.Empty(t, st.Genres)
	_, ok := submissions.Last(first)
	assert.False(t, ok)
}

func TestTamperedCookieStartsFresh(t *testing.T) {
	b, _, _ := setupTestRouter(t)
	b.cookies = []*http.Cookie{{Name: SessionName, Value: "not-a-valid-cookie"}}

	st := b.state()
	assert.NotEmpty(t, st.FormID)
	assert.Empty(t, st.Genres)
}

func TestLongTextIsKeptAndSubmitted(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)
	mood := strings.Repeat("m", 10*1024)
	keywords := strings.Repeat("k", 10*1024)

	w := b.do("POST", "/form/mood", url.Values{"mood": {mood}}, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = b.do("POST", "/form/keywords", url.Values{"keywords": {keywords}}, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	st := b.state()
	assert.Equal(t, mood, st.Mood)
	assert.Equal(t, keywords, st.Keywords)

	w = b.do("POST", "/form/submit", url.Values{"mood": {mood}}, map[string]string{"HX-Request": "true"})
	require.Equal(t, http.StatusOK, w.Code)

	got, ok := submissions.Last(st.FormID)
	require.True(t, ok)
	assert.Equal(t, mood, got.Mood)
	assert.Equal(t, keywords, got.Keywords)
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	rec := &blockingRecorder{entered: make(chan struct{}), release: make(chan struct{})}
	b, submissions, _ := setupTestRouterWithRecorder(t, rec)
	b.do("GET", "/", nil, nil)
	formID := b.state().FormID

	first := httptest.NewRecorder()
	firstReq := b.request("POST", "/form/submit", url.Values{}, map[string]string{"HX-Request": "true"})
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.router.ServeHTTP(first, firstReq)
	}()
	<-rec.entered

	assert.True(t, b.state().Busy)

	w := b.do("POST", "/form/submit", url.Values{"mood": {"second"}}, map[string]string{"HX-Request": "true"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in progress")

	close(rec.release)
	<-done
	assert.Equal(t, http.StatusOK, first.Code)
	assert.False(t, submissions.Busy(formID))

	got, ok := submissions.Last(formID)
	require.True(t, ok)
	assert.Equal(t, "", got.Mood, "the rejected activation delivers nothing")
}

func TestSubmitWhileBusyIgnoresActivation(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)
	formID := b.state().FormID

	require.True(t, submissions.TryBegin(formID))
	w := b.do("POST", "/form/submit", url.Values{}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	_, ok := submissions.Last(formID)
	assert.False(t, ok)

	submissions.End(formID)
	w = b.do("POST", "/form/submit", url.Values{}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlainSubmitWhileInFlightShowsBusyButton(t *testing.T) {
	b, submissions, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)
	formID := b.state().FormID

	require.True(t, submissions.TryBegin(formID))
	defer submissions.End(formID)

	w := b.do("POST", "/form/submit", url.Values{}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Working...")
	assert.NotContains(t, w.Body.String(), "Preferences received")
	assert.True(t, b.state().Busy)
}

func TestToggleAcceptsGenreOutsideCatalog(t *testing.T) {
	b, _, _ := setupTestRouter(t)
	b.do("GET", "/", nil, nil)

	w := b.toggle("Space Western")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Space Western"}, b.state().Genres)
}
