package handlers

import (
	"context"
	"net/http"

	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/Conceptual-Machines/moviepicks/internal/logger"
	"github.com/Conceptual-Machines/moviepicks/internal/metrics"
	"github.com/Conceptual-Machines/moviepicks/internal/preferences"
	"github.com/Conceptual-Machines/moviepicks/internal/services"
	"github.com/Conceptual-Machines/moviepicks/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie holding the current form id
	SessionName = "moviepicks_form"

	sessionKeyFormID = "form_id"

	fieldMood     = "mood"
	fieldKeywords = "keywords"
)

// ToggleRecorder receives genre toggle counters (CloudWatch in production)
type ToggleRecorder interface {
	RecordGenreToggle(changed bool)
}

type toggleRequest struct {
	Genre string `form:"genre" json:"genre" binding:"required"`
}

// FormStateResponse is the JSON view of the current form instance
type FormStateResponse struct {
	FormID   string   `json:"form_id"`
	Genres   []string `json:"genres"`
	Mood     string   `json:"mood"`
	Keywords string   `json:"keywords"`
	AtLimit  bool     `json:"at_limit"`
	Busy     bool     `json:"busy"`
}

// WebHandler serves the preference form. The session cookie only names the form instance;
// its state lives in the FormStore and is restored into a Collector per request.
type WebHandler struct {
	store         sessions.Store
	forms         *services.FormStore
	catalog       *catalog.Catalog
	submissions   *services.SubmissionService
	toggles       ToggleRecorder
	sentryMetrics *metrics.SentryMetrics
}

func NewWebHandler(store sessions.Store, forms *services.FormStore, cat *catalog.Catalog, submissions *services.SubmissionService, toggles ToggleRecorder) *WebHandler {
	return &WebHandler{
		store:         store,
		forms:         forms,
		catalog:       cat,
		submissions:   submissions,
		toggles:       toggles,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

// formInstance is one request's view of a form: its id and collector
type formInstance struct {
	id        string
	collector *preferences.Collector
}

// Home mounts a fresh form instance and renders the page
func (h *WebHandler) Home(c *gin.Context) {
	session := h.session(c)
	if oldID, ok := session.Values[sessionKeyFormID].(string); ok && oldID != "" {
		h.forms.Forget(oldID)
		h.submissions.Forget(oldID)
	}

	formID := uuid.New().String()
	c.Set("form_id", formID)
	session.Values[sessionKeyFormID] = formID
	h.saveSession(c, session)

	form := h.edit(c, formID, nil)

	logger.Debug("Form mounted", logger.WithContext(c))
	h.render(c, http.StatusOK, templates.PreferencePage(h.view(form)))
}

// ToggleGenre toggles one genre and re-renders the genre picker
func (h *WebHandler) ToggleGenre(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "genre is required"})
		return
	}

	var changed bool
	form := h.edit(c, h.formID(c), func(form *formInstance) {
		before := len(form.collector.SelectedGenres())
		wasSelected := form.collector.IsSelected(req.Genre)
		form.collector.ToggleGenre(req.Genre)
		changed = wasSelected || len(form.collector.SelectedGenres()) != before
	})

	fields := logger.WithContext(c)
	fields["genre"] = req.Genre
	if !h.catalog.Contains(req.Genre) {
		logger.Debug("Toggled genre is not in the catalog", fields)
	}
	if !changed {
		logger.Debug("Genre toggle ignored at selection limit", fields)
	}
	h.recordToggle(c.Request.Context(), req.Genre, changed)

	h.render(c, http.StatusOK, templates.GenrePicker(h.view(form)))
}

// SetMood replaces the mood text
func (h *WebHandler) SetMood(c *gin.Context) {
	mood := c.PostForm(fieldMood)
	h.edit(c, h.formID(c), func(form *formInstance) {
		form.collector.SetMood(mood)
	})
	c.Status(http.StatusNoContent)
}

// SetKeywords replaces the keywords text
func (h *WebHandler) SetKeywords(c *gin.Context) {
	keywords := c.PostForm(fieldKeywords)
	h.edit(c, h.formID(c), func(form *formInstance) {
		form.collector.SetKeywords(keywords)
	})
	c.Status(http.StatusNoContent)
}

// Submit activates the submit trigger. Text fields posted with the form are applied first
// so a submission never races a pending debounced update. The form is marked in flight
// for the whole request; a second activation meanwhile is rejected with 409, and
// plain form posts get the page back with the busy button.
func (h *WebHandler) Submit(c *gin.Context) {
	formID := h.formID(c)

	busy := !h.submissions.TryBegin(formID)
	form := h.edit(c, formID, func(form *formInstance) {
		if mood, ok := c.GetPostForm(fieldMood); ok {
			form.collector.SetMood(mood)
		}
		if keywords, ok := c.GetPostForm(fieldKeywords); ok {
			form.collector.SetKeywords(keywords)
		}
	})

	// Submit does not change the state, so the store is not held while the handler runs
	accepted := form.collector.Trigger(busy)
	if !busy {
		h.submissions.End(formID)
	}

	if !accepted {
		fields := logger.WithContext(c)
		logger.Warn("Submission ignored while busy", fields)
		logger.LogToSentry(sentry.LevelWarning, "Submission ignored while busy", fields)
		if isHTMX(c) {
			c.JSON(http.StatusConflict, gin.H{"error": "A submission for this form is already in progress"})
			return
		}
		h.render(c, http.StatusConflict, templates.PreferencePage(h.view(form)))
		return
	}

	submitted, ok := h.submissions.Last(formID)
	if !ok {
		// Evicted between handling and rendering; fall back to the collector's state
		st := form.collector.State()
		submitted = preferences.SessionPreferences{Genres: st.Genres, Mood: st.Mood, Keywords: st.Keywords}
	}

	if isHTMX(c) {
		h.render(c, http.StatusOK, templates.SubmittedNotice(submitted))
		return
	}
	view := h.view(form)
	view.Submitted = &submitted
	h.render(c, http.StatusOK, templates.PreferencePage(view))
}

// FormState returns the current form instance as JSON
func (h *WebHandler) FormState(c *gin.Context) {
	form := h.edit(c, h.formID(c), nil)
	st := form.collector.State()
	c.JSON(http.StatusOK, FormStateResponse{
		FormID:   form.id,
		Genres:   st.Genres,
		Mood:     st.Mood,
		Keywords: st.Keywords,
		AtLimit:  form.collector.IsAtSelectionLimit(),
		Busy:     h.submissions.Busy(form.id),
	})
}

// session returns the form session, starting a new one when the cookie cannot be decoded
func (h *WebHandler) session(c *gin.Context) *sessions.Session {
	session, err := h.store.Get(c.Request, SessionName)
	if err != nil {
		fields := logger.WithContext(c)
		fields["error"] = err.Error()
		logger.Warn("Discarding unreadable form session", fields)
		session, _ = h.store.New(c.Request, SessionName)
	}
	return session
}

// formID returns the form id named by the session cookie, mounting a new one when there is none
func (h *WebHandler) formID(c *gin.Context) string {
	session := h.session(c)

	formID, _ := session.Values[sessionKeyFormID].(string)
	if formID == "" {
		formID = uuid.New().String()
		session.Values[sessionKeyFormID] = formID
		h.saveSession(c, session)
	}
	c.Set("form_id", formID)
	return formID
}

// saveSession writes the form id cookie. A failure is logged; the form state itself is
// held server-side, so the request carries on.
func (h *WebHandler) saveSession(c *gin.Context, session *sessions.Session) {
	if err := session.Save(c.Request, c.Writer); err != nil {
		logger.Error("Failed to save form session", err, logger.WithContext(c))
	}
}

// edit restores the form instance, applies fn to it and stores the resulting state.
// Edits to the same form are serialized by the FormStore.
func (h *WebHandler) edit(c *gin.Context, formID string, fn func(*formInstance)) *formInstance {
	var form *formInstance
	h.forms.Update(formID, func(st preferences.SelectionState) preferences.SelectionState {
		form = &formInstance{
			id:        formID,
			collector: preferences.Restore(st, h.submissions.Handler(c.Request.Context(), formID)),
		}
		if fn != nil {
			fn(form)
		}
		return form.collector.State()
	})
	return form
}

func (h *WebHandler) view(form *formInstance) templates.FormView {
	view := templates.NewFormView(form.id, h.catalog.Names(), form.collector)
	view.Busy = h.submissions.Busy(form.id)
	return view
}

func (h *WebHandler) render(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		logger.Error("Failed to render template", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}

func (h *WebHandler) recordToggle(ctx context.Context, genre string, changed bool) {
	if h.toggles != nil {
		h.toggles.RecordGenreToggle(changed)
	}
	h.sentryMetrics.RecordGenreToggle(ctx, genre, changed)
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}
