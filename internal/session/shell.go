package session

import (
	"fmt"

	"onboarding-records/internal/apperror"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenAdminHome    Screen = "admin_home"
	ScreenAdminManage  Screen = "admin_manage"
	ScreenEmployeeView Screen = "employee_view"
)

// Shell decides which screen is visible. Login is left only through SignIn.
type Shell struct {
	screen   Screen
	role     Role
	username string
}

func NewShell() *Shell {
	return &Shell{screen: ScreenLogin}
}

func (s *Shell) Screen() Screen   { return s.screen }
func (s *Shell) Role() Role       { return s.role }
func (s *Shell) Username() string { return s.username }

// SignIn moves from Login to the role's home screen.
func (s *Shell) SignIn(username string, role Role) error {
	if s.screen != ScreenLogin {
		return apperror.New(apperror.CodeValidation, "already signed in")
	}

	home, err := homeScreen(role)
	if err != nil {
		return err
	}
	s.username = username
	s.role = role
	s.screen = home
	return nil
}

// Navigate performs a transition between signed-in screens.
func (s *Shell) Navigate(to Screen) error {
	if to == ScreenLogin {
		s.Logout()
		return nil
	}
	if !allowed(s.screen, to) {
		return apperror.New(apperror.CodeValidation, fmt.Sprintf("invalid transition from %s to %s", s.screen, to))
	}
	s.screen = to
	return nil
}

// Logout returns to Login from any screen.
func (s *Shell) Logout() {
	s.screen = ScreenLogin
	s.role = ""
	s.username = ""
}

func homeScreen(role Role) (Screen, error) {
	switch role {
	case RoleAdmin:
		return ScreenAdminHome, nil
	case RoleEmployee:
		return ScreenEmployeeView, nil
	default:
		return "", apperror.New(apperror.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}
}

func allowed(from, to Screen) bool {
	switch from {
	case ScreenAdminHome:
		return to == ScreenAdminManage
	case ScreenAdminManage:
		return to == ScreenAdminHome
	default:
		return false
	}
}
