package entity

type User struct {
	Base
	Username     string  `db:"username"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	PhoneNumber  *string `db:"phone_number"`
	IsActive     bool    `db:"is_active"`
}

// Deactivate flips the user to inactive. There is no way back.
func (u *User) Deactivate() {
	u.IsActive = false
}
