package manager

import (
	"context"
	"testing"
	"time"
)

func TestListCreateSubmitsEmptyTitle(t *testing.T) {
	// Unlike tasks, list titles are not validated client-side; the backend
	// owns that decision.
	env := newTestEnv(t)
	lists := NewListManager(env.api, env.cache, env.session)
	lists.Subscribe()
	waitFor(t, func() bool { return !lists.Read().Loading && lists.Read().UpdatedAt != (time.Time{}) })

	lists.OpenCreate()
	if err := lists.SubmitCreate(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if lists.Mode() != FormIdle {
		t.Fatalf("expected form closed after create")
	}

	waitFor(t, func() bool { return len(lists.Lists()) == 1 })
	if lists.Lists()[0].Title != "" {
		t.Fatalf("expected empty title to reach the backend as typed")
	}
}

func TestListEditPrefillsAndUpdates(t *testing.T) {
	env := newTestEnv(t)
	lists := NewListManager(env.api, env.cache, env.session)
	lists.Subscribe()
	waitFor(t, func() bool { return !lists.Read().Loading && lists.Read().UpdatedAt != (time.Time{}) })

	lists.OpenCreate()
	lists.SetTitle("Groceries")
	lists.SetColor("#00ff00")
	if err := lists.SubmitCreate(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	waitFor(t, func() bool { return len(lists.Lists()) == 1 })

	lists.OpenEditListWith(lists.Lists()[0])
	draft := lists.Draft()
	if draft.Title != "Groceries" || draft.Color != "#00ff00" {
		t.Fatalf("expected prefilled draft, got %+v", draft)
	}

	lists.SetTitle("Weekly groceries")
	if err := lists.SubmitEdit(context.Background()); err != nil {
		t.Fatalf("edit: %v", err)
	}
	waitFor(t, func() bool {
		items := lists.Lists()
		return len(items) == 1 && items[0].Title == "Weekly groceries"
	})
}

func TestListDeleteRefreshesRead(t *testing.T) {
	env := newTestEnv(t)
	lists := NewListManager(env.api, env.cache, env.session)
	lists.Subscribe()
	waitFor(t, func() bool { return !lists.Read().Loading && lists.Read().UpdatedAt != (time.Time{}) })

	lists.OpenCreate()
	lists.SetTitle("Short lived")
	if err := lists.SubmitCreate(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	waitFor(t, func() bool { return len(lists.Lists()) == 1 })

	if err := lists.Delete(context.Background(), lists.Lists()[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	waitFor(t, func() bool { return len(lists.Lists()) == 0 })
}
