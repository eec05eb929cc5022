package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// loginState backs the sign-in screen. With register set it asks for name,
// email and role instead of email and password.
type loginState struct {
	register bool
	inputs   []textinput.Model
	focus    int
}

func newLoginInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 32
	return ti
}

func (ls *loginState) focusField(i int) {
	ls.focus = wrapIndex(i, len(ls.inputs))
	for j := range ls.inputs {
		if j == ls.focus {
			ls.inputs[j].Focus()
		} else {
			ls.inputs[j].Blur()
		}
	}
}

func (ls *loginState) value(i int) string {
	return strings.TrimSpace(ls.inputs[i].Value())
}

func (m Model) startLogin() Model {
	password := newLoginInput("Password")
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m.login = &loginState{inputs: []textinput.Model{newLoginInput("Email"), password}}
	m.login.focusField(0)
	m.mode = modeLogin
	m.status = "Sign in: tab to switch fields, enter to submit, ctrl+r to register"
	return m
}

func (m Model) startRegister() Model {
	m.login = &loginState{
		register: true,
		inputs:   []textinput.Model{newLoginInput("Name"), newLoginInput("Email"), newLoginInput("Role")},
	}
	m.login.focusField(0)
	m.mode = modeLogin
	m.status = "Register: tab to switch fields, enter to submit, ctrl+r to sign in instead"
	return m
}

func (m Model) updateLoginMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login == nil {
		m = m.startLogin()
	}
	switch key {
	case "esc":
		return m, tea.Quit
	case "ctrl+r":
		if m.login.register {
			return m.startLogin(), nil
		}
		return m.startRegister(), nil
	case "tab", "down":
		m.login.focusField(m.login.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.login.focusField(m.login.focus - 1)
		return m, nil
	case "enter":
		if m.login.focus < len(m.login.inputs)-1 {
			m.login.focusField(m.login.focus + 1)
			return m, nil
		}
		return m.submitLogin()
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.login.register {
		u, err := m.board.Register(m.login.value(0), m.login.value(1), m.login.value(2))
		if err != nil {
			m.status = describeErr(err)
			return m, nil
		}
		log.Printf("registered %s", u.Email)
		return m.enterList(fmt.Sprintf("Welcome, %s", u.Name)), nil
	}

	email := m.login.value(0)
	u, err := m.board.SignIn(email, m.login.inputs[1].Value())
	if err != nil {
		m.status = describeErr(err)
		log.Printf("sign in %s: %v", email, err)
		m.login.inputs[1].SetValue("")
		return m, nil
	}
	log.Printf("signed in as %s", u.Email)
	return m.enterList(fmt.Sprintf("Welcome back, %s", u.Name)), nil
}

func (m Model) enterList(status string) Model {
	m.login = nil
	m.mode = modeList
	m.cursor = 0
	m.status = status
	return m
}
