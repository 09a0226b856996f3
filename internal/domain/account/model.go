package account

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type Profile struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null;uniqueIndex"`
	FullName  string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

type UserRole struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	Role      string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// DeletedAccount marks an id removed by an admin. Tokens issued to it are
// refused and it is never provisioned again.
type DeletedAccount struct {
	UserID    string    `gorm:"type:uuid;primaryKey"`
	DeletedAt time.Time `gorm:"autoCreateTime"`
}

func (DeletedAccount) TableName() string {
	return "deleted_accounts"
}

type Account struct {
	Profile
	Role string
}

func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IdentityUser is what the identity provider knows about a caller.
type IdentityUser struct {
	ID       string
	Email    string
	FullName string
}

type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int
	UserID       string
}
