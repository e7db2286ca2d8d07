package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/api/shared"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/service"
	"github.com/taskforge/taskforge-api/internal/store"
)

// TaskHandler handles task-related HTTP requests. Every operation resolves
// the caller from the request context first; the service layer then scopes
// all data access to that caller.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// requireUserID extracts the authenticated user's ID from the request
// context, writing a 401 response when it is absent.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// taskIDFromPath parses the {id} path parameter. A malformed ID gets the
// same not-found treatment as a missing task: no task with that
// identifier is visible to the caller.
func taskIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, false
	}
	return taskID, true
}

// parseListParams reads the filter/search/order/pagination query
// parameters. Unparseable values are ignored rather than rejected, the
// same leniency the normalization step applies to out-of-range ones.
func parseListParams(query url.Values) store.TaskListParams {
	var params store.TaskListParams

	if raw := query.Get("completed"); raw != "" {
		if completed, err := strconv.ParseBool(raw); err == nil {
			params.Completed = &completed
		}
	}

	if raw := query.Get("due_date"); raw != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if due, err := time.Parse(layout, raw); err == nil {
				params.DueDate = &due
				break
			}
		}
	}

	params.Search = query.Get("search")

	ordering := query.Get("ordering")
	if strings.HasPrefix(ordering, "-") {
		params.OrderDesc = true
		ordering = ordering[1:]
	}
	params.OrderBy = ordering

	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		params.Page = page
	}
	if pageSize, err := strconv.Atoi(query.Get("page_size")); err == nil {
		params.PageSize = pageSize
	}

	return params
}

// pageLink builds an absolute URL for the given page number, preserving
// all other query parameters of the current request.
func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	query := u.Query()
	query.Set("page", strconv.Itoa(page))
	u.RawQuery = query.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u.Scheme = scheme
	u.Host = r.Host

	link := u.String()
	return &link
}

// List handles GET /api/tasks requests.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	params := parseListParams(r.URL.Query())

	page, err := h.taskService.ListTasks(r.Context(), userID, params)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	results := make([]TaskResponse, 0, len(page.Tasks))
	for _, task := range page.Tasks {
		results = append(results, taskToResponse(task))
	}

	response := TaskListResponse{
		Count:   page.TotalCount,
		Results: results,
	}
	if page.Page*page.PageSize < page.TotalCount {
		response.Next = pageLink(r, page.Page+1)
	}
	if page.Page > 1 {
		response.Previous = pageLink(r, page.Page-1)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// Create handles POST /api/tasks requests. The owner is always the
// authenticated caller; any owner field in the payload is ignored.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	task, err := h.taskService.CreateTask(
		r.Context(), userID, req.Title, req.Description, req.Completed, req.DueDate)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Get handles GET /api/tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Update handles PUT /api/tasks/{id} requests: a full replacement of the
// writable fields. An omitted due_date clears any previous value.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	upd := domain.TaskUpdate{
		Title:       &req.Title,
		Description: &req.Description,
		Completed:   &req.Completed,
		DueDate:     req.DueDate,
		ClearDue:    req.DueDate == nil,
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, upd)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Patch handles PATCH /api/tasks/{id} requests: only the supplied fields
// are validated and changed; omitted fields keep their prior values.
func (h *TaskHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	var req PatchTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if fieldErrors := validateStruct(req); fieldErrors != nil {
		shared.RespondWithFieldErrors(w, r, fieldErrors)
		return
	}

	upd := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, upd)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	taskID, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}
