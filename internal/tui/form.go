package tui

import (
	"context"
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"taskmaster/internal/manager"
	"taskmaster/internal/model"
)

// formField binds one form row to a manager draft field. Enum fields carry
// the values space/arrow keys cycle through.
type formField struct {
	label string
	get   func() string
	set   func(string)
	cycle []string
}

type formEditor struct {
	ui *UI
}

var (
	priorityOptions = []string{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
	statusOptions   = []string{model.StatusTodo, model.StatusInProgress, model.StatusDone}
)

func buildTaskFormFields(tasks *manager.TasksManager) []formField {
	return []formField{
		{label: "Name", get: func() string { return tasks.Draft().Name }, set: tasks.SetName},
		{label: "Description", get: func() string { return tasks.Draft().Description }, set: tasks.SetDescription},
		{label: "Due (YYYY-MM-DD)", get: func() string { return tasks.Draft().DueDate }, set: tasks.SetDueDate},
		{label: "Priority (space)", get: func() string { return tasks.Draft().Priority }, set: tasks.SetPriority, cycle: priorityOptions},
		{label: "Status (space)", get: func() string { return tasks.Draft().Status }, set: tasks.SetStatus, cycle: statusOptions},
		{label: "List id", get: func() string { return tasks.Draft().ListID }, set: tasks.SetListID},
	}
}

func buildListFormFields(lists *manager.ListManager) []formField {
	return []formField{
		{label: "Title", get: func() string { return lists.Draft().Title }, set: lists.SetTitle},
		{label: "Color (#hex)", get: func() string { return lists.Draft().Color }, set: lists.SetColor},
	}
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := maxX / 2
	if width < 50 {
		width = 50
	}
	height := len(u.formFields) + 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	if y0 < 1 {
		y0 = 1
	}

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = u.formTitle()
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) formTitle() string {
	if u.focus == viewLists {
		if u.lists.Mode() == manager.FormEdit {
			return "Edit List"
		}
		return "New List"
	}
	if u.tasks.Mode() == manager.FormEdit {
		return "Edit Task"
	}
	return "New Task"
}

func (u *UI) renderForm(view *gocui.View) {
	view.Clear()
	for index, field := range u.formFields {
		prefix := "  "
		if index == u.formIndex {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.label, field.get())
	}
	if message := u.formError(); message != "" {
		fmt.Fprintf(view, "\n  %s", message)
	}

	field := u.formFields[u.formIndex]
	cursorX := len([]rune("> "+field.label+": ")) + len([]rune(field.get()))
	view.SetCursor(cursorX, u.formIndex)
}

func (u *UI) formError() string {
	if u.focus == viewLists {
		return ""
	}
	if message := u.tasks.NameError(); message != "" {
		return message
	}
	return u.tasks.DateError()
}

func (u *UI) submitForm(gui *gocui.Gui, view *gocui.View) error {
	ctx := context.Background()

	if u.focus == viewLists {
		var err error
		if u.lists.Mode() == manager.FormEdit {
			err = u.lists.SubmitEdit(ctx)
		} else {
			err = u.lists.SubmitCreate(ctx)
		}
		if err != nil {
			u.status = err.Error()
			return nil
		}
		if u.lists.Mode() == manager.FormIdle {
			u.closeForm(gui)
		}
		return nil
	}

	var err error
	if u.tasks.Mode() == manager.FormEdit {
		err = u.tasks.SubmitEdit(ctx)
	} else {
		err = u.tasks.SubmitCreate(ctx)
	}
	if err != nil {
		u.status = err.Error()
		return nil
	}
	// A validation failure leaves the form open with its field error.
	if u.tasks.Mode() == manager.FormIdle {
		u.closeForm(gui)
	} else {
		u.renderForm(view)
	}
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.focus == viewLists {
		u.lists.Close()
	} else {
		u.tasks.Close()
	}
	u.closeForm(gui)
	return nil
}

func (u *UI) closeForm(gui *gocui.Gui) {
	u.formFields = nil
	u.formIndex = 0
	_ = gui.DeleteView(viewForm)
	_, _ = gui.SetCurrentView(u.focus)
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.formIndex < len(u.formFields)-1 {
		u.formIndex++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.formIndex > 0 {
		u.formIndex--
	}
	u.renderForm(view)
	return nil
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.formFields == nil || view == nil {
		return false
	}
	field := ui.formFields[ui.formIndex]

	if field.cycle != nil {
		switch key {
		case gocui.KeySpace, gocui.KeyArrowRight:
			field.set(cycleValue(field.cycle, field.get(), 1))
		case gocui.KeyArrowLeft:
			field.set(cycleValue(field.cycle, field.get(), -1))
		}
		ui.renderForm(view)
		return true
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		value := field.get()
		if len(value) > 0 {
			runes := []rune(value)
			field.set(string(runes[:len(runes)-1]))
		}
	case gocui.KeySpace:
		field.set(field.get() + " ")
	default:
		if ch != 0 {
			field.set(field.get() + string(ch))
		}
	}
	ui.renderForm(view)
	return true
}

func cycleValue(options []string, current string, step int) string {
	index := 0
	for i, option := range options {
		if option == current {
			index = i
			break
		}
	}
	index = (index + step + len(options)) % len(options)
	return options[index]
}

func formatTaskSummary(task model.Task, dateFormat string) string {
	name := ""
	if task.Name != nil {
		name = *task.Name
	}
	summary := fmt.Sprintf("%s | %s | %s", name, task.Status, task.Priority)
	if task.DueDate != nil {
		summary += " | due " + model.FormatDate(*task.DueDate, dateFormat)
	}
	return summary
}
