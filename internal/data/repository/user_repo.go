package repository

import (
	"context"
	"errors"
	"fmt"

	"user-service/internal/data/entity"
	"user-service/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAllActive(ctx context.Context) ([]*entity.User, error)
	CountActive(ctx context.Context) (int64, error)
	Save(ctx context.Context, user *entity.User) (*entity.User, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

const userColumns = `id, username, email, password, first_name, last_name,
		       phone_number, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.PhoneNumber,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := ur.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		ur.log.Error("Failed to check username",
			zap.Error(err),
			zap.String("username", username),
		)
		return false, fmt.Errorf("exists by username %s: %w", username, err)
	}

	return exists, nil
}

func (ur *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := ur.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		ur.log.Error("Failed to check email",
			zap.Error(err),
			zap.String("email", email),
		)
		return false, fmt.Errorf("exists by email %s: %w", email, err)
	}

	return exists, nil
}

// FindByID returns nil, nil when no user has the id.
func (ur *userRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return nil, fmt.Errorf("find user by ID %d: %w", id, err)
	}

	return user, nil
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return user, nil
}

// FindAllActive lists every active user ordered by id.
func (ur *userRepository) FindAllActive(ctx context.Context) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE is_active = TRUE
		ORDER BY id ASC`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to get active users", zap.Error(err))
		return nil, fmt.Errorf("find active users: %w", err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountActive(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE is_active = TRUE`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting active users", zap.Error(err))
		return 0, fmt.Errorf("count active users: %w", err)
	}

	return count, nil
}

// Save inserts the user when it has no id yet and updates it otherwise.
// The returned copy carries the id and timestamps assigned by the database.
func (ur *userRepository) Save(ctx context.Context, user *entity.User) (*entity.User, error) {
	saved := *user

	var err error
	if user.IsNew() {
		err = ur.insert(ctx, &saved)
	} else {
		err = ur.update(ctx, &saved)
	}
	if err != nil {
		return nil, err
	}

	return &saved, nil
}

func (ur *userRepository) insert(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, email, password, first_name, last_name,
		                   phone_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			ur.log.Warn("Unique constraint rejected insert",
				zap.Error(err),
				zap.String("username", user.Username),
			)
			return dup
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password = $4, first_name = $5,
		    last_name = $6, phone_number = $7, is_active = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := ur.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.IsActive,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			ur.log.Warn("Unique constraint rejected update",
				zap.Error(err),
				zap.Int64("user_id", user.ID),
			)
			return dup
		}
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
		)
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	return nil
}
