package repo

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tasteboard/recipebox/internal/models"
)

// dummyHash is a bcrypt hash compared against when the username does not
// exist, so login takes the same time whether or not the user is real.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User (password stored as bcrypt hash)
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, password, bio, imageURL string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, password_hash, bio, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, bio, image_url
	`

	user := &models.User{PasswordHash: string(hash)}

	err = r.DB.QueryRowContext(ctx, query, username, string(hash), bio, imageURL).
		Scan(&user.ID, &user.Username, &user.Bio, &user.ImageURL)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, bio, image_url
		FROM users
		WHERE id = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Bio, &user.ImageURL)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, bio, image_url
		FROM users
		WHERE username = $1
	`

	user := &models.User{}

	err := r.DB.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Bio, &user.ImageURL)

	if err != nil {
		return nil, err
	}

	return user, nil
}

// ==========================
// Authenticate (never errors on mismatch; user may be nil)
// ==========================
func (r *UserRepo) Authenticate(user *models.User, password string) bool {
	hash := dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	ok := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	return ok && user != nil
}
