package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor identifies the caller of an operation that needs ownership or
// privilege checks.
type Actor struct {
	ID   int64
	Role Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type Address struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Street  string `json:"street"`
}

type User struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email,omitempty"`
	PasswordHash      string    `json:"-"`
	Role              Role      `json:"role"`
	Address           Address   `json:"address"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UserUpdate struct {
	Username *string  `json:"username"`
	Phone    *string  `json:"phone"`
	Password *string  `json:"password"`
	Address  *Address `json:"address"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserRepository interface {
	Create(user *User) (*User, error)
	GetByID(id int64) (*User, error)
	GetByPhone(phone string) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByVerificationToken(token string) (*User, error)
	Update(user *User) (*User, error)
	Delete(id int64) error
	List() ([]User, error)

	// AttachOrder adds an order to the user's order list; it is a no-op when
	// the membership already exists.
	AttachOrder(userID, orderID int64) error
	DetachOrder(userID, orderID int64) error
}

type UserUseCase interface {
	Register(username, phone, email, password string, address *Address) (*User, error)
	VerifyEmail(token string) (*User, error)
	Login(identifier, password string) (*AuthResponse, error)
	GetProfile(id int64) (*User, error)
	UpdateProfile(id int64, upd UserUpdate) (*User, error)
	DeleteUser(actor Actor, targetID int64) error
	ListUsers(actor Actor) ([]User, error)
	GetUser(actor Actor, id int64) (*User, error)
}
