package user

import (
	"context"
	"database/sql"
	"errors"

	"farmlink-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const farmerColumns = "f.id, f.user_id, f.farm_name, f.farm_location, f.profile_image, f.created_at, u.username"

func scanFarmer(row interface{ Scan(...interface{}) error }) (*Farmer, error) {
	var f Farmer
	if err := row.Scan(&f.ID, &f.UserID, &f.FarmName, &f.FarmLocation, &f.ProfileImage, &f.CreatedAt, &f.Username); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) GetFarmerByUserID(ctx context.Context, userID string) (*Farmer, error) {
	f, err := scanFarmer(r.db.QueryRowContext(ctx, `
		SELECT `+farmerColumns+`
		FROM farmers f
		INNER JOIN users u ON u.id = f.user_id
		WHERE f.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return f, err
}

func (r *repository) GetFarmerByID(ctx context.Context, farmerID string) (*Farmer, error) {
	f, err := scanFarmer(r.db.QueryRowContext(ctx, `
		SELECT `+farmerColumns+`
		FROM farmers f
		INNER JOIN users u ON u.id = f.user_id
		WHERE f.id = $1`, farmerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return f, err
}

// CreateFarmer inserts the profile unless one already exists for the user, in
// which case the existing row is returned.
func (r *repository) CreateFarmer(ctx context.Context, f *Farmer) (*Farmer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateFarmer"),
		zap.String("user_id", f.UserID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO farmers (user_id, farm_name, farm_location, profile_image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, created_at`,
		f.UserID, f.FarmName, f.FarmLocation, f.ProfileImage,
	).Scan(&f.ID, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("farmer profile already exists")
		return r.GetFarmerByUserID(ctx, f.UserID)
	}
	if err != nil {
		log.Error("failed to create farmer profile", zap.Error(err))
		return nil, err
	}

	log.Info("farmer profile created", zap.String("farmer_id", f.ID))
	return f, nil
}

func (r *repository) UpdateFarmer(ctx context.Context, userID string, farmName, farmLocation, profileImage *string) (*Farmer, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE farmers
		SET farm_name = COALESCE($2, farm_name),
			farm_location = COALESCE($3, farm_location),
			profile_image = COALESCE($4, profile_image)
		WHERE user_id = $1`,
		userID, farmName, farmLocation, profileImage,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update farmer profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return r.GetFarmerByUserID(ctx, userID)
}

func (r *repository) FarmersByUserIDs(ctx context.Context, userIDs []string) ([]Farmer, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+farmerColumns+`
		FROM farmers f
		INNER JOIN users u ON u.id = f.user_id
		WHERE f.user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *repository) SearchFarmers(ctx context.Context, term string, limit int) ([]Farmer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+farmerColumns+`
		FROM farmers f
		INNER JOIN users u ON u.id = f.user_id
		WHERE u.username ILIKE '%' || $1 || '%' OR f.farm_name ILIKE '%' || $1 || '%'
		ORDER BY f.farm_name
		LIMIT $2`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Farmer
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

const consumerColumns = "c.id, c.user_id, c.location, c.profile_image, c.created_at, u.username"

func scanConsumer(row interface{ Scan(...interface{}) error }) (*Consumer, error) {
	var c Consumer
	if err := row.Scan(&c.ID, &c.UserID, &c.Location, &c.ProfileImage, &c.CreatedAt, &c.Username); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetConsumerByUserID(ctx context.Context, userID string) (*Consumer, error) {
	c, err := scanConsumer(r.db.QueryRowContext(ctx, `
		SELECT `+consumerColumns+`
		FROM consumers c
		INNER JOIN users u ON u.id = c.user_id
		WHERE c.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	return c, err
}

func (r *repository) CreateConsumer(ctx context.Context, c *Consumer) (*Consumer, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateConsumer"),
		zap.String("user_id", c.UserID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO consumers (user_id, location, profile_image)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, created_at`,
		c.UserID, c.Location, c.ProfileImage,
	).Scan(&c.ID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("consumer profile already exists")
		return r.GetConsumerByUserID(ctx, c.UserID)
	}
	if err != nil {
		log.Error("failed to create consumer profile", zap.Error(err))
		return nil, err
	}

	log.Info("consumer profile created", zap.String("consumer_id", c.ID))
	return c, nil
}

func (r *repository) UpdateConsumer(ctx context.Context, userID string, location, profileImage *string) (*Consumer, error) {
	_, err := r.db.ExecContext(ctx, `
		UPDATE consumers
		SET location = COALESCE($2, location),
			profile_image = COALESCE($3, profile_image)
		WHERE user_id = $1`,
		userID, location, profileImage,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update consumer profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return r.GetConsumerByUserID(ctx, userID)
}

func (r *repository) ConsumersByUserIDs(ctx context.Context, userIDs []string) ([]Consumer, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+consumerColumns+`
		FROM consumers c
		INNER JOIN users u ON u.id = c.user_id
		WHERE c.user_id = ANY($1)`, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Consumer
	for rows.Next() {
		c, err := scanConsumer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repository) SearchConsumers(ctx context.Context, term string, limit int) ([]Consumer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+consumerColumns+`
		FROM consumers c
		INNER JOIN users u ON u.id = c.user_id
		WHERE u.username ILIKE '%' || $1 || '%'
		ORDER BY u.username
		LIMIT $2`, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Consumer
	for rows.Next() {
		c, err := scanConsumer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
