package user

import (
	"context"
	"database/sql"
	"errors"

	"farmlink-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdateAccount(ctx context.Context, id string, username, contactInfo *string) (*User, error)

	GetFarmerByUserID(ctx context.Context, userID string) (*Farmer, error)
	GetFarmerByID(ctx context.Context, farmerID string) (*Farmer, error)
	CreateFarmer(ctx context.Context, f *Farmer) (*Farmer, error)
	UpdateFarmer(ctx context.Context, userID string, farmName, farmLocation, profileImage *string) (*Farmer, error)
	FarmersByUserIDs(ctx context.Context, userIDs []string) ([]Farmer, error)
	SearchFarmers(ctx context.Context, term string, limit int) ([]Farmer, error)

	GetConsumerByUserID(ctx context.Context, userID string) (*Consumer, error)
	CreateConsumer(ctx context.Context, c *Consumer) (*Consumer, error)
	UpdateConsumer(ctx context.Context, userID string, location, profileImage *string) (*Consumer, error)
	ConsumersByUserIDs(ctx context.Context, userIDs []string) ([]Consumer, error)
	SearchConsumers(ctx context.Context, term string, limit int) ([]Consumer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = "id, email, username, password_hash, user_role, contact_info, created_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.ContactInfo, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, password_hash, user_role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		u.Email, u.Username, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			log.Info("email already registered", zap.String("email", u.Email))
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert user", zap.String("email", u.Email), zap.Error(err))
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = lower($1)", email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) UpdateAccount(ctx context.Context, id string, username, contactInfo *string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET username = COALESCE($2, username),
			contact_info = COALESCE($3, contact_info)
		WHERE id = $1
		RETURNING `+userColumns,
		id, username, contactInfo,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to update user", zap.String("user_id", id), zap.Error(err))
	}
	return u, err
}
