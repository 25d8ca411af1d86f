package manager

import (
	"context"
	"strconv"
	"strings"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/model"
	"taskmaster/internal/mutation"
	"taskmaster/internal/session"
)

type FormMode int

const (
	FormIdle FormMode = iota
	FormCreate
	FormEdit
)

// TaskDraft holds the raw form values for a task create or edit. ListID and
// DueDate stay strings until submit, where they are coerced or omitted.
type TaskDraft struct {
	Name        string
	Description string
	DueDate     string
	Priority    string
	Status      string
	ListID      string
}

// TasksManager owns one tasks screen: the single subscribed read it derives
// active and archived views from, the create/edit form state machine, and
// the mutations with their invalidation keys. A manager scoped to a list
// reads that list's data instead of the whole task set.
type TasksManager struct {
	api     *api.Client
	cache   *cache.Cache
	session *session.Session

	listScope *int64

	mode       FormMode
	editTaskID int64
	draft      TaskDraft
	nameError  string
	dateError  string

	createRunner  *mutation.Runner
	editRunner    *mutation.Runner
	deleteRunner  *mutation.Runner
	archiveRunner *mutation.Runner
	statusRunner  *mutation.Runner

	defaults func() model.Settings
}

func NewTasksManager(client *api.Client, c *cache.Cache, sess *session.Session, defaults func() model.Settings) *TasksManager {
	if defaults == nil {
		defaults = model.DefaultSettings
	}
	return &TasksManager{
		api:           client,
		cache:         c,
		session:       sess,
		createRunner:  mutation.NewRunner(c),
		editRunner:    mutation.NewRunner(c),
		deleteRunner:  mutation.NewRunner(c),
		archiveRunner: mutation.NewRunner(c),
		statusRunner:  mutation.NewRunner(c),
		defaults:      defaults,
	}
}

// ScopeToList narrows the screen to one list; the read key and the create
// defaults follow.
func (m *TasksManager) ScopeToList(listID int64) { m.listScope = &listID }

func (m *TasksManager) ReadKey() cache.Key {
	if m.listScope != nil {
		return ListDataKey(*m.listScope)
	}
	return TasksKey(m.session.UserID())
}

// Subscribe registers the screen's one canonical read.
func (m *TasksManager) Subscribe() {
	key := m.ReadKey()
	if m.listScope != nil {
		listID := *m.listScope
		m.cache.Subscribe(key, func(ctx context.Context) (any, error) {
			return m.api.GetListData(ctx, listID)
		})
		return
	}
	m.cache.Subscribe(key, func(ctx context.Context) (any, error) {
		return m.api.GetTasks(ctx)
	})
}

func (m *TasksManager) Unsubscribe() { m.cache.Unsubscribe(m.ReadKey()) }

func (m *TasksManager) Read() cache.Entry { return m.cache.Get(m.ReadKey()) }

func (m *TasksManager) tasks() []model.Task {
	entry := m.Read()
	switch value := entry.Value.(type) {
	case []model.Task:
		return value
	case model.ListData:
		return value.Tasks
	default:
		return nil
	}
}

// ActiveTasks and ArchivedTasks are derived from the same payload so the
// split always agrees with one source of truth.
func (m *TasksManager) ActiveTasks() []model.Task {
	return filterTasks(m.tasks(), false)
}

func (m *TasksManager) ArchivedTasks() []model.Task {
	return filterTasks(m.tasks(), true)
}

func (m *TasksManager) Counts() model.TaskCounts {
	return model.CountTasks(m.ActiveTasks())
}

func filterTasks(tasks []model.Task, archived bool) []model.Task {
	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Archived == archived {
			result = append(result, task)
		}
	}
	return result
}

func (m *TasksManager) Mode() FormMode     { return m.mode }
func (m *TasksManager) Draft() TaskDraft   { return m.draft }
func (m *TasksManager) EditTaskID() int64  { return m.editTaskID }
func (m *TasksManager) NameError() string  { return m.nameError }
func (m *TasksManager) DateError() string  { return m.dateError }

// OpenCreate resets the form to defaults seeded from settings and the
// current list scope.
func (m *TasksManager) OpenCreate() {
	defaults := m.defaults()
	m.draft = TaskDraft{
		Priority: defaults.DefaultPriority,
		Status:   defaults.DefaultStatus,
	}
	if m.listScope != nil {
		m.draft.ListID = strconv.FormatInt(*m.listScope, 10)
	}
	m.nameError = ""
	m.dateError = ""
	m.mode = FormCreate
}

// OpenEditWith prefills the edit form from the task found in the loaded
// active or archived set. An id absent from both is a silent no-op.
func (m *TasksManager) OpenEditWith(taskID int64) {
	task, ok := m.findTask(taskID)
	if !ok {
		return
	}

	draft := TaskDraft{
		Priority: task.Priority,
		Status:   task.Status,
	}
	if task.Name != nil {
		draft.Name = *task.Name
	}
	if task.Description != nil {
		draft.Description = *task.Description
	}
	if task.DueDate != nil {
		draft.DueDate = *task.DueDate
	}
	if task.ListID != nil {
		draft.ListID = strconv.FormatInt(*task.ListID, 10)
	}

	m.draft = draft
	m.editTaskID = taskID
	m.nameError = ""
	m.dateError = ""
	m.mode = FormEdit
}

// Close discards unsaved edits.
func (m *TasksManager) Close() {
	m.mode = FormIdle
	m.editTaskID = 0
	m.draft = TaskDraft{}
	m.nameError = ""
	m.dateError = ""
}

func (m *TasksManager) findTask(taskID int64) (model.Task, bool) {
	for _, task := range m.tasks() {
		if task.ID == taskID {
			return task, true
		}
	}
	return model.Task{}, false
}

// SetName records a keystroke in the name field and clears its validation
// error.
func (m *TasksManager) SetName(value string) {
	m.draft.Name = value
	m.nameError = ""
}

func (m *TasksManager) SetDescription(value string) { m.draft.Description = value }

func (m *TasksManager) SetDueDate(value string) {
	m.draft.DueDate = value
	m.dateError = ""
}

func (m *TasksManager) SetPriority(value string) { m.draft.Priority = value }
func (m *TasksManager) SetStatus(value string)   { m.draft.Status = value }
func (m *TasksManager) SetListID(value string)   { m.draft.ListID = value }

// SubmitCreate validates locally, normalizes the draft, and runs the create
// mutation. A blank name never reaches the network. Success closes and
// resets the form; the runner's invalidation refreshes the read.
func (m *TasksManager) SubmitCreate(ctx context.Context) error {
	if strings.TrimSpace(m.draft.Name) == "" {
		m.nameError = "Name is required"
		return nil
	}

	dueDate, err := model.ParseDueDate(m.draft.DueDate)
	if err != nil {
		m.dateError = err.Error()
		return nil
	}

	input := api.TaskInput{
		Name:     strings.TrimSpace(m.draft.Name),
		DueDate:  dueDate,
		Priority: m.draft.Priority,
		Status:   m.draft.Status,
		AuthorID: m.session.UserID(),
	}
	if description := strings.TrimSpace(m.draft.Description); description != "" {
		input.Description = &description
	}
	if listID, ok := coerceListID(m.draft.ListID); ok {
		input.ListID = &listID
	}

	err = m.createRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.CreateTask(ctx, input)
		return err
	}, m.createInvalidation(input.ListID)...)
	if err != nil {
		return err
	}

	m.Close()
	return nil
}

// SubmitEdit sends only the form's fields as a partial update.
func (m *TasksManager) SubmitEdit(ctx context.Context) error {
	if m.mode != FormEdit {
		return nil
	}
	if strings.TrimSpace(m.draft.Name) == "" {
		m.nameError = "Name is required"
		return nil
	}

	dueDate, err := model.ParseDueDate(m.draft.DueDate)
	if err != nil {
		m.dateError = err.Error()
		return nil
	}

	name := strings.TrimSpace(m.draft.Name)
	description := strings.TrimSpace(m.draft.Description)
	patch := api.TaskPatch{
		ID:          m.editTaskID,
		Name:        &name,
		Description: &description,
		DueDate:     dueDate,
		Priority:    &m.draft.Priority,
		Status:      &m.draft.Status,
	}
	if listID, ok := coerceListID(m.draft.ListID); ok {
		patch.ListID = &listID
	}

	keys := m.mutationInvalidation(m.editTaskID)
	if patch.ListID != nil {
		keys = appendListKey(keys, *patch.ListID)
	}
	err = m.editRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.UpdateTask(ctx, patch)
		return err
	}, keys...)
	if err != nil {
		return err
	}

	m.Close()
	return nil
}

// Delete, ToggleArchived and ToggleStatus rely on invalidation-driven
// refetch; no local optimistic write happens.
func (m *TasksManager) Delete(ctx context.Context, taskID int64) error {
	return m.deleteRunner.Do(ctx, func(ctx context.Context) error {
		return m.api.DeleteTask(ctx, m.session.UserID(), taskID)
	}, m.mutationInvalidation(taskID)...)
}

func (m *TasksManager) ToggleArchived(ctx context.Context, taskID int64) error {
	return m.archiveRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.ToggleTaskArchived(ctx, m.session.UserID(), taskID)
		return err
	}, m.mutationInvalidation(taskID)...)
}

func (m *TasksManager) ToggleStatus(ctx context.Context, taskID int64) error {
	return m.statusRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.ToggleTaskStatus(ctx, taskID)
		return err
	}, m.mutationInvalidation(taskID)...)
}

// LastError reports the most recent mutation failure for the status line.
func (m *TasksManager) LastError() error {
	runners := []*mutation.Runner{
		m.createRunner, m.editRunner, m.deleteRunner, m.archiveRunner, m.statusRunner,
	}
	for _, runner := range runners {
		if runner.Status() == mutation.StatusError {
			return runner.Err()
		}
	}
	return nil
}

func (m *TasksManager) createInvalidation(listID *int64) []cache.Key {
	keys := []cache.Key{TasksKey(m.session.UserID())}
	if listID != nil {
		keys = append(keys, ListDataKey(*listID))
	}
	return keys
}

// mutationInvalidation covers the user-wide read, the screen's list scope,
// and the list the mutated task belongs to, so a subscribed listData read
// never stays stale after an unscoped edit.
func (m *TasksManager) mutationInvalidation(taskID int64) []cache.Key {
	keys := []cache.Key{TasksKey(m.session.UserID())}
	if m.listScope != nil {
		keys = appendListKey(keys, *m.listScope)
	}
	if task, ok := m.findTask(taskID); ok && task.ListID != nil {
		keys = appendListKey(keys, *task.ListID)
	}
	return keys
}

func appendListKey(keys []cache.Key, listID int64) []cache.Key {
	key := ListDataKey(listID)
	for _, existing := range keys {
		if existing.String() == key.String() {
			return keys
		}
	}
	return append(keys, key)
}

func coerceListID(value string) (int64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	listID, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || listID <= 0 {
		return 0, false
	}
	return listID, true
}
