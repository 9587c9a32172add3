package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a string onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User is a registered citizen or administrator.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Firstname   string             `bson:"firstname" json:"firstname"`
	Lastname    string             `bson:"lastname" json:"lastname"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Username    string             `bson:"username" json:"username"`
	Password    string             `bson:"password" json:"-"`
	Role        Role               `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Authorities returns the role-derived authority set embedded in tokens and
// compared on every authenticated request.
func (u *User) Authorities() []string {
	return []string{"ROLE_" + string(u.Role)}
}

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	Firstname   string `json:"firstname" binding:"required,max=50"`
	Lastname    string `json:"lastname" binding:"required,max=50"`
	Email       string `json:"email" binding:"required,email,max=50"`
	PhoneNumber string `json:"phoneNumber" binding:"required,max=15"`
	Username    string `json:"username" binding:"required,min=3,max=20"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// SigninRequest is the payload for POST /auth/signin.
type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned from both signup and signin.
type AuthResponse struct {
	ID          string `json:"id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	Token       string `json:"token"`
}

func NewAuthResponse(u *User, tok string) AuthResponse {
	return AuthResponse{
		ID:          u.ID.Hex(),
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Username:    u.Username,
		Role:        u.Role,
		Token:       tok,
	}
}

// UserResponse is the public shape of a user, without credentials.
type UserResponse struct {
	ID          string `json:"id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:          u.ID.Hex(),
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Username:    u.Username,
		Role:        u.Role,
	}
}
