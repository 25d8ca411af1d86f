package tui

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"

	"taskmaster/internal/api"
)

type authMode int

const (
	authModeLogin authMode = iota
	authModeRegister
)

type authField struct {
	label  string
	value  string
	secret bool
}

type authFormState struct {
	mode   authMode
	fields []authField
	index  int
}

func newAuthForm(mode authMode) *authFormState {
	if mode == authModeRegister {
		return &authFormState{
			mode: mode,
			fields: []authField{
				{label: "First name"},
				{label: "Last name"},
				{label: "Email"},
				{label: "Password", secret: true},
			},
		}
	}
	return &authFormState{
		mode: mode,
		fields: []authField{
			{label: "Email"},
			{label: "Password", secret: true},
		},
	}
}

func (f *authFormState) value(label string) string {
	for _, field := range f.fields {
		if field.label == label {
			return strings.TrimSpace(field.value)
		}
	}
	return ""
}

func (u *UI) showAuth(gui *gocui.Gui) error {
	if u.authForm == nil {
		u.authForm = newAuthForm(authModeLogin)
	}

	maxX, maxY := gui.Size()
	width := 50
	if width > maxX-2 {
		width = maxX - 2
	}
	height := len(u.authForm.fields) + 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2
	if y0 < 1 {
		y0 = 1
	}

	view, err := gui.SetView(viewAuth, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if u.authForm.mode == authModeRegister {
		view.Title = "Register"
	} else {
		view.Title = "Login"
	}
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = &authEditor{ui: u}
	u.renderAuth(view)
	_, _ = gui.SetCurrentView(viewAuth)
	return nil
}

func (u *UI) renderAuth(view *gocui.View) {
	view.Clear()
	form := u.authForm
	for index, field := range form.fields {
		prefix := "  "
		if index == form.index {
			prefix = "> "
		}
		value := field.value
		if field.secret {
			value = strings.Repeat("*", len([]rune(value)))
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.label, value)
	}
	if u.status != "" {
		fmt.Fprintf(view, "\n  %s", u.status)
	}

	field := form.fields[form.index]
	cursorX := len([]rune("> "+field.label+": ")) + len([]rune(field.value))
	view.SetCursor(cursorX, form.index)
}

func (u *UI) submitAuth(gui *gocui.Gui, view *gocui.View) error {
	form := u.authForm
	if form == nil {
		return nil
	}
	ctx := context.Background()

	if form.mode == authModeRegister {
		err := u.auth.Register(ctx, api.RegisterInput{
			FirstName: form.value("First name"),
			LastName:  form.value("Last name"),
			Email:     form.value("Email"),
			Password:  form.value("Password"),
		})
		if err != nil {
			u.status = err.Error()
			u.renderAuth(view)
			return nil
		}
		email := form.value("Email")
		u.authForm = newAuthForm(authModeLogin)
		u.authForm.fields[0].value = email
		u.status = "Account created, log in"
		return nil
	}

	route, err := u.auth.Login(ctx, form.value("Email"), form.value("Password"))
	if err != nil {
		u.status = err.Error()
		u.renderAuth(view)
		return nil
	}

	u.route = route
	u.authForm = nil
	u.status = ""
	u.focus = viewActive
	u.subscribeReads()
	_ = gui.DeleteView(viewAuth)
	return nil
}

func (u *UI) switchAuthMode(gui *gocui.Gui, _ *gocui.View) error {
	if u.authForm == nil {
		return nil
	}
	if u.authForm.mode == authModeLogin {
		u.authForm = newAuthForm(authModeRegister)
	} else {
		u.authForm = newAuthForm(authModeLogin)
	}
	u.status = ""
	return nil
}

func (u *UI) nextAuthField(gui *gocui.Gui, view *gocui.View) error {
	if u.authForm == nil {
		return nil
	}
	if u.authForm.index < len(u.authForm.fields)-1 {
		u.authForm.index++
	}
	u.renderAuth(view)
	return nil
}

func (u *UI) prevAuthField(gui *gocui.Gui, view *gocui.View) error {
	if u.authForm == nil {
		return nil
	}
	if u.authForm.index > 0 {
		u.authForm.index--
	}
	u.renderAuth(view)
	return nil
}

type authEditor struct {
	ui *UI
}

func (e *authEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.authForm == nil || view == nil {
		return false
	}
	field := &ui.authForm.fields[ui.authForm.index]

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		if len(field.value) > 0 {
			runes := []rune(field.value)
			field.value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.value += " "
	default:
		if ch != 0 {
			field.value += string(ch)
		}
	}
	ui.renderAuth(view)
	return true
}
