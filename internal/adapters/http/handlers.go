package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/application/orchestrators"
	"rollcall/internal/application/projections"
	"rollcall/internal/domain/identity"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output. Raw
// HTML in markdown input is escaped (WithUnsafe is NOT set), so admin
// comments cannot inject markup into squad dashboards.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

//go:embed templates
var templatesFS embed.FS

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	role := ""
	squad := ""
	if ok {
		role = sess.Role
		squad = sess.Squad
	}

	funcMap := template.FuncMap{
		"currentRole":  func() string { return role },
		"currentSquad": func() string { return squad },
		"isLoggedIn":   func() bool { return role != "" },
		"csrfToken":    func() string { return csrf.Token(r) },
		"hm": func(t time.Time) string {
			return t.Format("15:04")
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS,
		"templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// registerRoutes wires every route. Role gating happens here, per route:
// squad pages reject the admin exactly like they reject anonymous visitors,
// and vice versa.
func registerRoutes(mux *http.ServeMux) {
	squadOnly := middleware.RequireRole(identity.RoleSquad)
	adminOnly := middleware.RequireRole(identity.RoleAdmin)

	mux.HandleFunc("GET /{$}", handleLogin)
	mux.HandleFunc("POST /{$}", handleLogin)
	mux.HandleFunc("GET /logout", handleLogout)

	mux.Handle("GET /dashboard", squadOnly(http.HandlerFunc(handleDashboard)))
	mux.Handle("POST /add_post/{day}", squadOnly(http.HandlerFunc(handleAddPost)))
	mux.Handle("POST /edit_post/{day}/{index}", squadOnly(http.HandlerFunc(handleEditPost)))
	mux.Handle("POST /delete_post/{day}/{index}", squadOnly(http.HandlerFunc(handleDeletePost)))
	mux.Handle("POST /attendance_mark", squadOnly(http.HandlerFunc(handleAttendanceMark)))

	mux.Handle("GET /admin", adminOnly(http.HandlerFunc(handleAdmin)))
	mux.Handle("POST /attendance_reset", adminOnly(http.HandlerFunc(handleAttendanceReset)))
	mux.Handle("POST /admin_comment/{day}/{index}", adminOnly(http.HandlerFunc(handleAdminComment)))
	mux.Handle("POST /admin_reset_all", adminOnly(http.HandlerFunc(handleAdminResetAll)))
}

// handleLogin handles GET (form) and POST (credentials) for the login page.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		// Already logged in: straight to the right page
		if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
			if sess.Role == identity.RoleAdmin {
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
			} else {
				http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			}
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Name:     r.FormValue("team"),
		Password: r.FormValue("password"),
	}
	deps := orchestrators.LoginDeps{
		AdminSecret: secrets.Admin,
		SquadSecret: secrets.Squad,
	}

	who, err := orchestrators.ExecuteLogin(r.Context(), input, deps)
	if err != nil {
		// Bad credentials re-render the form inline; no redirect
		renderTemplate(w, r, "login.html", map[string]any{
			"Error": "Wrong name or password.",
		})
		return
	}

	token, err := sessions.Create(who)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	if who.IsAdmin() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLogout clears the session identity.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDashboard renders the squad's schedule board and mark status.
func handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{
		Squad: sess.Squad,
	}, projections.GetDashboardDeps{
		ScheduleStore: stores.ScheduleStore,
		RollCallStore: stores.RollCallStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	renderTemplate(w, r, "dashboard.html", result)
}

// handleAddPost handles POST /add_post/{day}.
func handleAddPost(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	_, err := orchestrators.ExecuteAddEntry(r.Context(), orchestrators.AddEntryInput{
		Squad: sess.Squad,
		Day:   r.PathValue("day"),
		Start: r.FormValue("start"),
		Task:  r.FormValue("task"),
	}, orchestrators.AddEntryDeps{
		ScheduleStore: stores.ScheduleStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleEditPost handles POST /edit_post/{day}/{index}.
func handleEditPost(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	index, ok := pathIndex(r)
	if !ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	input := orchestrators.EditEntryInput{
		Squad: sess.Squad,
		Day:   r.PathValue("day"),
		Index: index,
	}
	// Absent fields keep their stored values
	if vs, present := r.PostForm["start"]; present && len(vs) > 0 {
		input.Start = &vs[0]
	}
	if vs, present := r.PostForm["task"]; present && len(vs) > 0 {
		input.Task = &vs[0]
	}

	_, err := orchestrators.ExecuteEditEntry(r.Context(), input, orchestrators.EditEntryDeps{
		ScheduleStore: stores.ScheduleStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleDeletePost handles POST /delete_post/{day}/{index}.
func handleDeletePost(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	index, ok := pathIndex(r)
	if !ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	_, err := orchestrators.ExecuteDeleteEntry(r.Context(), orchestrators.DeleteEntryInput{
		Squad: sess.Squad,
		Day:   r.PathValue("day"),
		Index: index,
	}, orchestrators.DeleteEntryDeps{
		ScheduleStore: stores.ScheduleStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleAttendanceMark handles POST /attendance_mark.
func handleAttendanceMark(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())

	_, err := orchestrators.ExecuteMarkRollCall(r.Context(), orchestrators.MarkRollCallInput{
		Squad: sess.Squad,
	}, orchestrators.MarkRollCallDeps{
		RollCallStore: stores.RollCallStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleAttendanceReset handles POST /attendance_reset (admin).
func handleAttendanceReset(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteResetRollCall(r.Context(), orchestrators.ResetRollCallDeps{
		RollCallStore: stores.RollCallStore,
		GenerateID:    generateID,
		Now:           timeNow,
		Sender:        emailSender,
		NotifyAddress: notifyAddress,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdmin renders the admin overview: schedule board, roll-call history
// and the perf panel.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetAdminOverview(r.Context(), projections.GetAdminOverviewDeps{
		ScheduleStore: stores.ScheduleStore,
		RollCallStore: stores.RollCallStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Overview": result,
	}
	if perfCollector != nil {
		data["Perf"] = perfCollector.ComputeSnapshot(timeNow().Add(-time.Hour), 5)
	}
	renderTemplate(w, r, "admin.html", data)
}

// handleAdminComment handles POST /admin_comment/{day}/{index}.
func handleAdminComment(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(r)
	if !ok {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	_, err := orchestrators.ExecuteCommentEntry(r.Context(), orchestrators.CommentEntryInput{
		Day:     r.PathValue("day"),
		Index:   index,
		Comment: r.FormValue("comment"), // verbatim, no trim
	}, orchestrators.CommentEntryDeps{
		ScheduleStore: stores.ScheduleStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminResetAll handles POST /admin_reset_all (admin).
func handleAdminResetAll(w http.ResponseWriter, r *http.Request) {
	_, err := orchestrators.ExecuteWipeAll(r.Context(), orchestrators.WipeAllDeps{
		ScheduleStore: stores.ScheduleStore,
		RollCallStore: stores.RollCallStore,
		GenerateID:    generateID,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// pathIndex parses the {index} path segment. A non-numeric index is treated
// like a missing row: silent no-op upstream.
func pathIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
