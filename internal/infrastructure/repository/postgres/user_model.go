package postgres

import (
	"time"

	"github.com/cards10e/laquiniela247-sub000/internal/domain/user"
)

type userTableModel struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type userInsertModel struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		Email:     m.Email,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}
