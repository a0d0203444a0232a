package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/internal/domain/user"
	pkgerrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// UserRepoPG implements the user Repository using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"type:varchar(50);not null"`
	Email string `gorm:"type:varchar(50);not null;unique"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// EnsureSchema creates the users table when it does not exist yet.
// An existing table is left untouched.
func (r *UserRepoPG) EnsureSchema(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	if db.Migrator().HasTable(&UserSchema{}) {
		return nil
	}

	if err := db.Migrator().CreateTable(&UserSchema{}); err != nil {
		return pkgerrors.NewInternalError("failed to create users table", err)
	}

	r.log.Info("users table created")
	return nil
}

// Ping runs a trivial query to check that storage answers.
func (r *UserRepoPG) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}

// Create inserts a new user and returns it with its generated ID.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, r.translate(ctx, err, "failed to create user", zap.String("email", u.Email))
	}

	return toDomain(&model), nil
}

// List returns all users ordered by ID.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, r.translate(ctx, err, "failed to list users")
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *toDomain(&models[i])
	}

	return users, nil
}

// Update replaces name and email of the user with u.ID in one statement.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	res := r.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{"name": u.Name, "email": u.Email})
	if res.Error != nil {
		return nil, r.translate(ctx, res.Error, "failed to update user", zap.Int64("id", u.ID))
	}
	if res.RowsAffected == 0 {
		return nil, pkgerrors.NewNotFoundError("user", "user not found")
	}

	return &user.User{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// Delete removes a user by ID.
func (r *UserRepoPG) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if res.Error != nil {
		return r.translate(ctx, res.Error, "failed to delete user", zap.Int64("id", id))
	}
	if res.RowsAffected == 0 {
		return pkgerrors.NewNotFoundError("user", "user not found")
	}

	return nil
}

// translate maps a storage error to its typed counterpart and logs the
// failures that are not the caller's fault.
func (r *UserRepoPG) translate(ctx context.Context, err error, msg string, fields ...zap.Field) error {
	if isUniqueViolation(err) {
		return pkgerrors.NewAlreadyExistsError("user", "email already exists")
	}

	log := logger.WithContext(ctx, r.log)
	log.Error(msg, append(fields, zap.Error(err))...)
	return pkgerrors.NewInternalError(msg, err)
}

func toDomain(m *UserSchema) *user.User {
	return &user.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
	}
}
