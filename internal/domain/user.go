// internal/domain/user.go
package domain

import "strings"

// User представляет модель пользователя
type User struct {
	ID       int64  `json:"id" db:"user_id"`
	Email    string `json:"email" db:"email"`
	Login    string `json:"login" db:"login"`
	Name     string `json:"name" db:"name"`
	Birthday Date   `json:"birthday" db:"birthday"`
}

// UserRequest тело запроса на создание или полное обновление пользователя.
// ID обязателен только при обновлении, это проверяет обработчик.
type UserRequest struct {
	ID       int64  `json:"id"`
	Email    string `json:"email" validate:"required,email"`
	Login    string `json:"login" validate:"required,nowhitespace"`
	Name     string `json:"name" validate:"max=255"`
	Birthday Date   `json:"birthday" validate:"required,notfuture"`
}

// ToUser переносит поля запроса в модель. Пустое имя заменяется логином.
func (r UserRequest) ToUser() *User {
	u := &User{
		ID:       r.ID,
		Email:    r.Email,
		Login:    r.Login,
		Name:     r.Name,
		Birthday: r.Birthday,
	}
	u.NormalizeName()
	return u
}

// NormalizeName подставляет логин вместо пустого отображаемого имени.
func (u *User) NormalizeName() {
	if strings.TrimSpace(u.Name) == "" {
		u.Name = u.Login
	}
}
