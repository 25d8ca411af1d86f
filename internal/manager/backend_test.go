package manager

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/model"
	"taskmaster/internal/session"
	"taskmaster/internal/storage"
)

const testUserID = int64(42)

// fakeBackend implements just enough of the REST contract for the managers.
type fakeBackend struct {
	mu sync.Mutex

	tasks      []model.Task
	lists      []model.List
	settings   model.Settings
	nextTaskID int64
	nextListID int64

	taskReads   int
	createCalls int
	lastPatch   map[string]any

	failCreate bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		settings:   model.DefaultSettings(),
		nextTaskID: 1,
		nextListID: 1,
	}
}

func (b *fakeBackend) handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/task/get", b.getTasks).Methods(http.MethodGet)
	r.HandleFunc("/task/create", b.createTask).Methods(http.MethodPost)
	r.HandleFunc("/task/update", b.updateTask).Methods(http.MethodPatch)
	r.HandleFunc("/task/delete/{authorId}/{taskId}", b.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/task/toggleArchived/{authorId}/{taskId}", b.toggleArchived).Methods(http.MethodPatch)
	r.HandleFunc("/task/{taskId}/toggle-status", b.toggleStatus).Methods(http.MethodPatch)
	r.HandleFunc("/lists/", b.getLists).Methods(http.MethodGet)
	r.HandleFunc("/lists/", b.createList).Methods(http.MethodPost)
	r.HandleFunc("/lists/{listId}", b.getListData).Methods(http.MethodGet)
	r.HandleFunc("/lists/{listId}", b.updateList).Methods(http.MethodPut)
	r.HandleFunc("/lists/{listId}", b.deleteList).Methods(http.MethodDelete)
	r.HandleFunc("/user/register", b.register).Methods(http.MethodPost)
	r.HandleFunc("/user/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/settings/", b.getSettings).Methods(http.MethodGet)
	r.HandleFunc("/settings/", b.updateSettings).Methods(http.MethodPut)
	return r
}

func (b *fakeBackend) getTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.taskReads++
	writeJSON(w, b.tasks)
}

func (b *fakeBackend) createTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.failCreate {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"message": "Task rejected"})
		return
	}

	var input api.TaskInput
	_ = json.NewDecoder(r.Body).Decode(&input)
	task := model.Task{
		ID:          b.nextTaskID,
		Name:        &input.Name,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		ListID:      input.ListID,
		AuthorID:    input.AuthorID,
	}
	b.nextTaskID++
	b.tasks = append(b.tasks, task)
	writeJSON(w, task)
}

func (b *fakeBackend) updateTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	raw := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&raw)
	b.lastPatch = raw

	id := int64(raw["id"].(float64))
	for i := range b.tasks {
		if b.tasks[i].ID != id {
			continue
		}
		if value, ok := raw["name"].(string); ok {
			b.tasks[i].Name = &value
		}
		if value, ok := raw["description"].(string); ok {
			b.tasks[i].Description = &value
		}
		if value, ok := raw["dueDate"].(string); ok {
			b.tasks[i].DueDate = &value
		}
		if value, ok := raw["priority"].(string); ok {
			b.tasks[i].Priority = value
		}
		if value, ok := raw["status"].(string); ok {
			b.tasks[i].Status = value
		}
		if value, ok := raw["listId"].(float64); ok {
			listID := int64(value)
			b.tasks[i].ListID = &listID
		}
		writeJSON(w, b.tasks[i])
		return
	}
	w.WriteHeader(http.StatusNotFound)
	writeJSON(w, map[string]string{"message": "Task not found"})
}

func (b *fakeBackend) deleteTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	taskID := pathID(r, "taskId")
	kept := b.tasks[:0]
	for _, task := range b.tasks {
		if task.ID != taskID {
			kept = append(kept, task)
		}
	}
	b.tasks = kept
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) toggleArchived(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	taskID := pathID(r, "taskId")
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			b.tasks[i].Archived = !b.tasks[i].Archived
			writeJSON(w, b.tasks[i])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) toggleStatus(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	taskID := pathID(r, "taskId")
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			b.tasks[i].Status = model.NextStatus(b.tasks[i].Status)
			writeJSON(w, b.tasks[i])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) getLists(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, b.lists)
}

func (b *fakeBackend) createList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var input api.ListInput
	_ = json.NewDecoder(r.Body).Decode(&input)
	list := model.List{ID: b.nextListID, Title: input.Title, Color: input.Color, AuthorID: input.AuthorID}
	b.nextListID++
	b.lists = append(b.lists, list)
	writeJSON(w, list)
}

func (b *fakeBackend) getListData(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	listID := pathID(r, "listId")
	for _, list := range b.lists {
		if list.ID != listID {
			continue
		}
		data := model.ListData{List: list}
		for _, task := range b.tasks {
			if task.ListID != nil && *task.ListID == listID {
				data.Tasks = append(data.Tasks, task)
			}
		}
		writeJSON(w, data)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	writeJSON(w, map[string]string{"message": "List not found"})
}

func (b *fakeBackend) updateList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	listID := pathID(r, "listId")
	var input api.ListInput
	_ = json.NewDecoder(r.Body).Decode(&input)
	for i := range b.lists {
		if b.lists[i].ID == listID {
			b.lists[i].Title = input.Title
			b.lists[i].Color = input.Color
			writeJSON(w, b.lists[i])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (b *fakeBackend) deleteList(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	listID := pathID(r, "listId")
	kept := b.lists[:0]
	for _, list := range b.lists {
		if list.ID != listID {
			kept = append(kept, list)
		}
	}
	b.lists = kept
	w.WriteHeader(http.StatusNoContent)
}

func (b *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var input api.RegisterInput
	_ = json.NewDecoder(r.Body).Decode(&input)
	writeJSON(w, model.User{ID: testUserID, FirstName: input.FirstName, LastName: input.LastName, Email: input.Email})
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.LoginResult{Token: "test-token", User: model.User{ID: testUserID}})
}

func (b *fakeBackend) getSettings(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, b.settings)
}

func (b *fakeBackend) updateSettings(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_ = json.NewDecoder(r.Body).Decode(&b.settings)
	writeJSON(w, b.settings)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

type testEnv struct {
	backend *fakeBackend
	server  *httptest.Server
	store   *storage.Store
	session *session.Session
	cache   *cache.Cache
	api     *api.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	sess := session.New(store)
	if err := sess.Login(context.Background(), "test-token", model.User{ID: testUserID}); err != nil {
		t.Fatalf("login session: %v", err)
	}

	return &testEnv{
		backend: backend,
		server:  server,
		store:   store,
		session: sess,
		cache:   cache.New(),
		api:     api.NewClient(server.URL, 5*time.Second, sess),
	}
}

func (e *testEnv) tasksManager() *TasksManager {
	return NewTasksManager(e.api, e.cache, e.session, nil)
}

func waitFor(t *testing.T, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if done() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
