package model

import "fmt"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole принимает только закрытый набор ролей
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Actor инициатор операции. Аутентификацию выполняет внешний слой,
// сюда приходит уже проверенная пара id/роль.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}
