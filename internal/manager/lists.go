package manager

import (
	"context"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/model"
	"taskmaster/internal/mutation"
	"taskmaster/internal/session"
)

type ListDraft struct {
	Title string
	Color string
}

// ListManager mirrors TasksManager for lists, with the simpler shape: a
// title/color form and create/edit/delete mutations. The title field is
// submitted as typed; the backend owns its validation.
type ListManager struct {
	api     *api.Client
	cache   *cache.Cache
	session *session.Session

	mode       FormMode
	editListID int64
	draft      ListDraft

	createRunner *mutation.Runner
	editRunner   *mutation.Runner
	deleteRunner *mutation.Runner
}

func NewListManager(client *api.Client, c *cache.Cache, sess *session.Session) *ListManager {
	return &ListManager{
		api:          client,
		cache:        c,
		session:      sess,
		createRunner: mutation.NewRunner(c),
		editRunner:   mutation.NewRunner(c),
		deleteRunner: mutation.NewRunner(c),
	}
}

func (m *ListManager) ReadKey() cache.Key { return ListsKey(m.session.UserID()) }

func (m *ListManager) Subscribe() {
	m.cache.Subscribe(m.ReadKey(), func(ctx context.Context) (any, error) {
		return m.api.GetLists(ctx)
	})
}

func (m *ListManager) Unsubscribe() { m.cache.Unsubscribe(m.ReadKey()) }

func (m *ListManager) Read() cache.Entry { return m.cache.Get(m.ReadKey()) }

func (m *ListManager) Lists() []model.List {
	if lists, ok := m.Read().Value.([]model.List); ok {
		return lists
	}
	return nil
}

func (m *ListManager) Mode() FormMode    { return m.mode }
func (m *ListManager) Draft() ListDraft  { return m.draft }
func (m *ListManager) EditListID() int64 { return m.editListID }

func (m *ListManager) OpenCreate() {
	m.draft = ListDraft{Color: "#1976d2"}
	m.mode = FormCreate
}

func (m *ListManager) OpenEditListWith(list model.List) {
	m.draft = ListDraft{Title: list.Title, Color: list.Color}
	m.editListID = list.ID
	m.mode = FormEdit
}

func (m *ListManager) Close() {
	m.mode = FormIdle
	m.editListID = 0
	m.draft = ListDraft{}
}

func (m *ListManager) SetTitle(value string) { m.draft.Title = value }
func (m *ListManager) SetColor(value string) { m.draft.Color = value }

func (m *ListManager) SubmitCreate(ctx context.Context) error {
	input := api.ListInput{
		Title:    m.draft.Title,
		Color:    m.draft.Color,
		AuthorID: m.session.UserID(),
	}

	err := m.createRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.CreateList(ctx, input)
		return err
	}, m.ReadKey())
	if err != nil {
		return err
	}

	m.Close()
	return nil
}

func (m *ListManager) SubmitEdit(ctx context.Context) error {
	if m.mode != FormEdit {
		return nil
	}

	listID := m.editListID
	input := api.ListInput{
		Title:    m.draft.Title,
		Color:    m.draft.Color,
		AuthorID: m.session.UserID(),
	}

	err := m.editRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.UpdateList(ctx, listID, input)
		return err
	}, m.ReadKey(), ListDataKey(listID))
	if err != nil {
		return err
	}

	m.Close()
	return nil
}

// Delete removes the list only; tasks that pointed at it are left to the
// backend to reassign.
func (m *ListManager) Delete(ctx context.Context, listID int64) error {
	return m.deleteRunner.Do(ctx, func(ctx context.Context) error {
		return m.api.DeleteList(ctx, listID)
	}, m.ReadKey(), ListDataKey(listID))
}

func (m *ListManager) LastError() error {
	runners := []*mutation.Runner{m.createRunner, m.editRunner, m.deleteRunner}
	for _, runner := range runners {
		if runner.Status() == mutation.StatusError {
			return runner.Err()
		}
	}
	return nil
}
