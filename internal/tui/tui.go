package tui

import (
	"context"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"taskmaster/internal/cache"
	"taskmaster/internal/manager"
	"taskmaster/internal/model"
	"taskmaster/internal/session"
)

const (
	viewHeader   = "header"
	viewFooter   = "footer"
	viewActive   = "active"
	viewArchived = "archived"
	viewLists    = "lists"
	viewForm     = "form"
	viewAuth     = "auth"
)

type UI struct {
	gui     *gocui.Gui
	cache   *cache.Cache
	session *session.Session

	auth     *manager.AuthManager
	tasks    *manager.TasksManager
	lists    *manager.ListManager
	settings *manager.SettingsManager

	focus            string
	selectedActive   int
	selectedArchived int
	selectedLists    int
	status           string
	route            string

	authForm   *authFormState
	formFields []formField
	formIndex  int
	formEditor *formEditor

	subscribed bool
}

// Deps carries everything the UI renders from.
type Deps struct {
	Cache    *cache.Cache
	Session  *session.Session
	Auth     *manager.AuthManager
	Tasks    *manager.TasksManager
	Lists    *manager.ListManager
	Settings *manager.SettingsManager
}

func Run(deps Deps) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := &UI{
		gui:      gui,
		cache:    deps.Cache,
		session:  deps.Session,
		auth:     deps.Auth,
		tasks:    deps.Tasks,
		lists:    deps.Lists,
		settings: deps.Settings,
		focus:    viewActive,
	}
	ui.formEditor = &formEditor{ui: ui}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	if ui.session.LoggedIn() {
		ui.subscribeReads()
		ui.route = manager.AccountRoute(ui.session.UserID())
	} else {
		ui.authForm = newAuthForm(authModeLogin)
	}

	// Redraw whenever a cached read resolves or invalidates.
	go func() {
		for range ui.cache.Watch() {
			gui.Update(func(*gocui.Gui) error { return nil })
		}
	}()

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (u *UI) subscribeReads() {
	if u.subscribed {
		return
	}
	u.settings.Subscribe()
	u.tasks.Subscribe()
	u.lists.Subscribe()
	u.subscribed = true
}

func (u *UI) unsubscribeReads() {
	if !u.subscribed {
		return
	}
	u.settings.Unsubscribe()
	u.tasks.Unsubscribe()
	u.lists.Unsubscribe()
	u.subscribed = false
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.add); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'e', gocui.ModNone, u.edit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.delete); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleStatus); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'v', gocui.ModNone, u.toggleArchived); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'o', gocui.ModNone, u.logout); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone, u.switchFocus); err != nil {
		return err
	}
	for _, name := range []string{viewActive, viewArchived, viewLists} {
		if err := gui.SetKeybinding(name, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'j', gocui.ModNone, u.moveDown); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, 'k', gocui.ModNone, u.moveUp); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAuth, gocui.KeyEnter, gocui.ModNone, u.submitAuth); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAuth, gocui.KeyTab, gocui.ModNone, u.nextAuthField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAuth, gocui.KeyArrowDown, gocui.ModNone, u.nextAuthField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAuth, gocui.KeyArrowUp, gocui.ModNone, u.prevAuthField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewAuth, gocui.KeyCtrlR, gocui.ModNone, u.switchAuthMode); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.Wrap = true
	u.renderHeader(headerView)

	footerY0 := maxY - 3
	if footerY0 < 1 {
		footerY0 = 1
	}
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, maxY-1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	u.renderFooter(footerView)

	if !u.session.LoggedIn() {
		return u.showAuth(gui)
	}
	_ = gui.DeleteView(viewAuth)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom < bodyTop {
		return nil
	}

	leftX1 := maxX * 2 / 3
	activeY1 := bodyTop + (bodyBottom-bodyTop)*2/3

	activeView, err := gui.SetView(viewActive, 0, bodyTop, leftX1, activeY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	activeView.Title = "Tasks"
	u.renderActive(activeView)

	archivedView, err := gui.SetView(viewArchived, 0, activeY1+1, leftX1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	archivedView.Title = "Archived"
	u.renderArchived(archivedView)

	listsView, err := gui.SetView(viewLists, leftX1+1, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	listsView.Title = "Lists"
	u.renderLists(listsView)

	if u.formFields != nil {
		return u.showForm(gui)
	}
	_ = gui.DeleteView(viewForm)
	if current := gui.CurrentView(); current == nil || current.Name() == viewForm {
		_, _ = gui.SetCurrentView(u.focus)
	}
	return nil
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	if !u.session.LoggedIn() {
		fmt.Fprint(view, "TaskMaster | log in or register (ctrl-r switches)")
		return
	}

	counts := u.tasks.Counts()
	entry := u.tasks.Read()
	state := ""
	if entry.Loading {
		state = " | loading..."
	} else if entry.Err != nil {
		state = " | " + entry.Err.Error()
	}
	fmt.Fprintf(view, "%s | %d tasks, %d completed%s", u.route, counts.Total, counts.Completed, state)
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	fmt.Fprintln(view, "a add | e edit | d delete | x status | v archive | r reload | tab pane | o logout | q quit")
	status := u.status
	if status == "" {
		if err := u.tasks.LastError(); err != nil {
			status = err.Error()
		} else if err := u.lists.LastError(); err != nil {
			status = err.Error()
		}
	}
	if status != "" {
		fmt.Fprint(view, status)
	}
}

func (u *UI) renderActive(view *gocui.View) {
	tasks := u.tasks.ActiveTasks()
	view.Clear()
	if len(tasks) == 0 && !u.tasks.Read().Loading {
		fmt.Fprintln(view, "No tasks yet. Press 'a' to create your first task.")
		return
	}
	u.renderTaskRows(view, tasks, u.selectedActive, u.focus == viewActive)
}

func (u *UI) renderArchived(view *gocui.View) {
	view.Clear()
	u.renderTaskRows(view, u.tasks.ArchivedTasks(), u.selectedArchived, u.focus == viewArchived)
}

func (u *UI) renderTaskRows(view *gocui.View, tasks []model.Task, selected int, focused bool) {
	dateFormat := u.settings.Settings().DateFormat
	for i, task := range tasks {
		prefix := " "
		if i == selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskSummary(task, dateFormat))
	}
}

func (u *UI) renderLists(view *gocui.View) {
	view.Clear()
	for i, list := range u.lists.Lists() {
		prefix := " "
		if i == u.selectedLists {
			if u.focus == viewLists {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s (%s)\n", prefix, list.Title, list.Color)
	}
}

func (u *UI) quit(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	return gocui.ErrQuit
}

func (u *UI) inputActive() bool {
	return u.formFields != nil || u.authForm != nil
}

// reload invalidates the focused pane's read; the refetch runs in the
// background.
func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	if u.focus == viewLists {
		u.cache.Invalidate(u.lists.ReadKey())
	} else {
		u.cache.Invalidate(u.tasks.ReadKey())
	}
	return nil
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewActive:
		u.focus = viewArchived
	case viewArchived:
		u.focus = viewLists
	default:
		u.focus = viewActive
	}
	_, _ = gui.SetCurrentView(u.focus)
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	switch u.focus {
	case viewActive:
		u.selectedActive = clamp(u.selectedActive+1, len(u.tasks.ActiveTasks()))
	case viewArchived:
		u.selectedArchived = clamp(u.selectedArchived+1, len(u.tasks.ArchivedTasks()))
	case viewLists:
		u.selectedLists = clamp(u.selectedLists+1, len(u.lists.Lists()))
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	switch u.focus {
	case viewActive:
		u.selectedActive = clamp(u.selectedActive-1, len(u.tasks.ActiveTasks()))
	case viewArchived:
		u.selectedArchived = clamp(u.selectedArchived-1, len(u.tasks.ArchivedTasks()))
	case viewLists:
		u.selectedLists = clamp(u.selectedLists-1, len(u.lists.Lists()))
	}
	return nil
}

func (u *UI) selectedTask() *model.Task {
	var tasks []model.Task
	var index int
	switch u.focus {
	case viewActive:
		tasks, index = u.tasks.ActiveTasks(), u.selectedActive
	case viewArchived:
		tasks, index = u.tasks.ArchivedTasks(), u.selectedArchived
	default:
		return nil
	}
	if index < 0 || index >= len(tasks) {
		return nil
	}
	return &tasks[index]
}

func (u *UI) selectedList() *model.List {
	lists := u.lists.Lists()
	if u.focus != viewLists || u.selectedLists < 0 || u.selectedLists >= len(lists) {
		return nil
	}
	return &lists[u.selectedLists]
}

func (u *UI) add(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	if u.focus == viewLists {
		u.lists.OpenCreate()
		u.formFields = buildListFormFields(u.lists)
	} else {
		u.tasks.OpenCreate()
		u.formFields = buildTaskFormFields(u.tasks)
	}
	u.formIndex = 0
	u.status = ""
	return nil
}

func (u *UI) edit(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	if u.focus == viewLists {
		list := u.selectedList()
		if list == nil {
			return nil
		}
		u.lists.OpenEditListWith(*list)
		u.formFields = buildListFormFields(u.lists)
		u.formIndex = 0
		return nil
	}

	task := u.selectedTask()
	if task == nil {
		return nil
	}
	u.tasks.OpenEditWith(task.ID)
	if u.tasks.Mode() != manager.FormEdit {
		return nil
	}
	u.formFields = buildTaskFormFields(u.tasks)
	u.formIndex = 0
	return nil
}

func (u *UI) delete(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	if u.focus == viewLists {
		list := u.selectedList()
		if list == nil {
			return nil
		}
		if err := u.lists.Delete(context.Background(), list.ID); err != nil {
			u.status = err.Error()
		}
		return nil
	}

	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if err := u.tasks.Delete(context.Background(), task.ID); err != nil {
		u.status = err.Error()
	}
	return nil
}

func (u *UI) toggleStatus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if err := u.tasks.ToggleStatus(context.Background(), task.ID); err != nil {
		u.status = err.Error()
	}
	return nil
}

func (u *UI) toggleArchived(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	task := u.selectedTask()
	if task == nil {
		return nil
	}
	if err := u.tasks.ToggleArchived(context.Background(), task.ID); err != nil {
		u.status = err.Error()
	}
	return nil
}

func (u *UI) logout(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || !u.session.LoggedIn() {
		return nil
	}
	if err := u.auth.Logout(context.Background()); err != nil {
		u.status = err.Error()
		return nil
	}
	u.unsubscribeReads()
	u.route = "/"
	u.authForm = newAuthForm(authModeLogin)
	u.status = ""
	return nil
}

func clamp(index, length int) int {
	if length == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
