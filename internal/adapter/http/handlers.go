package http

import (
	"context"
	"net/http"

	"github.com/nexboard/nexboard/internal/adapter/ws"
	"github.com/nexboard/nexboard/internal/domain/project"
	"github.com/nexboard/nexboard/internal/domain/sprint"
	"github.com/nexboard/nexboard/internal/domain/task"
	"github.com/nexboard/nexboard/internal/service"
)

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Sprints  *service.SprintService
	Sync     *service.CommitSyncService
	Assist   *service.AssistService
	Hub      *ws.Hub

	// DBPing reports database reachability for the health endpoint.
	DBPing func(ctx context.Context) error
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.List(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[project.CreateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Projects.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) UpdateProject(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[project.UpdateRequest](w, r)
	if !ok {
		return
	}

	p, err := h.Projects.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tasks.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.CreateRequest](w, r)
	if !ok {
		return
	}
	req.ProjectID = urlParam(r, "id")

	t, err := h.Tasks.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[task.UpdateRequest](w, r)
	if !ok {
		return
	}

	t, err := h.Tasks.Update(r.Context(), urlParam(r, "id"), req)
	if err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Tasks.Delete(r.Context(), urlParam(r, "id")); err != nil {
		writeDomainError(w, err, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBoard returns a project's tasks grouped by status column.
func (h *Handlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}

	board := map[task.Status][]task.Task{
		task.StatusTodo:       {},
		task.StatusInProgress: {},
		task.StatusInReview:   {},
		task.StatusDone:       {},
	}
	for _, t := range tasks {
		board[t.Status] = append(board[t.Status], t)
	}
	writeJSON(w, http.StatusOK, board)
}

// ---------------------------------------------------------------------------
// Sprints
// ---------------------------------------------------------------------------

func (h *Handlers) ListSprints(w http.ResponseWriter, r *http.Request) {
	sprints, err := h.Sprints.List(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	if sprints == nil {
		sprints = []sprint.Sprint{}
	}
	writeJSON(w, http.StatusOK, sprints)
}

func (h *Handlers) GetSprint(w http.ResponseWriter, r *http.Request) {
	sp, err := h.Sprints.Get(r.Context(), urlParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "sprint not found")
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (h *Handlers) CreateSprint(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[sprint.CreateRequest](w, r)
	if !ok {
		return
	}
	req.ProjectID = urlParam(r, "id")

	sp, err := h.Sprints.Create(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

func (h *Handlers) ActivateSprint(w http.ResponseWriter, r *http.Request) {
	h.setSprintActive(w, r, true)
}

func (h *Handlers) CloseSprint(w http.ResponseWriter, r *http.Request) {
	h.setSprintActive(w, r, false)
}

func (h *Handlers) setSprintActive(w http.ResponseWriter, r *http.Request, active bool) {
	sp, err := h.Sprints.SetActive(r.Context(), urlParam(r, "id"), active)
	if err != nil {
		writeDomainError(w, err, "sprint not found")
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

type healthResponse struct {
	Status   string `json:"status"`
	Postgres bool   `json:"postgres"`
	LiteLLM  bool   `json:"litellm"`
	Clients  int    `json:"ws_clients"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if h.DBPing != nil {
		resp.Postgres = h.DBPing(r.Context()) == nil
		if !resp.Postgres {
			resp.Status = "degraded"
		}
	}
	if h.Assist != nil {
		resp.LiteLLM = h.Assist.Health(r.Context())
	}
	if h.Hub != nil {
		resp.Clients = h.Hub.ConnectionCount()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}
