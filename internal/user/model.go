package user

import "time"

type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleConsumer Role = "consumer"
)

func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleConsumer
}

// Defaults used when a farmer profile is provisioned without details.
const (
	DefaultFarmName     = "My Farm"
	DefaultFarmLocation = "Unknown"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	ContactInfo  *string
	CreatedAt    time.Time
}

type Farmer struct {
	ID           string
	UserID       string
	FarmName     string
	FarmLocation string
	ProfileImage *string
	CreatedAt    time.Time

	// Username of the owning account, filled by joined lookups.
	Username string
}

type Consumer struct {
	ID           string
	UserID       string
	Location     string
	ProfileImage *string
	CreatedAt    time.Time

	Username string
}

// Account is the signed-in principal with its role profile.
type Account struct {
	User     *User
	Farmer   *Farmer
	Consumer *Consumer
}

// Party is a display-ready view of another user, used by messaging.
type Party struct {
	UserID string
	Name   string
	Info   string
	Role   Role
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

type SignUpInput struct {
	Email    string
	Password string
	Username string
	Role     Role
	// Location seeds the consumer profile; ignored for farmers.
	Location string
}

type UpdateProfileInput struct {
	Username     *string
	ContactInfo  *string
	FarmName     *string
	FarmLocation *string
	Location     *string
	ProfileImage *string
}
