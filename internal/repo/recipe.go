package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tasteboard/recipebox/internal/models"
)

// ==========================
// RecipeRepo
// ==========================
type RecipeRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{DB: db}
}

// ==========================
// Create Recipe (owned by ownerID)
// ==========================
func (r *RecipeRepo) Create(ctx context.Context, ownerID int, title, instructions string, minutesToComplete *int) (*models.Recipe, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if instructions == "" {
		return nil, fmt.Errorf("%w: instructions are required", ErrValidation)
	}
	if len(instructions) < models.MinInstructionsLen {
		return nil, fmt.Errorf("%w: instructions must be at least %d characters", ErrValidation, models.MinInstructionsLen)
	}

	query := `
		INSERT INTO recipes (title, instructions, minutes_to_complete, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, instructions, minutes_to_complete, user_id
	`

	recipe := &models.Recipe{}

	err := r.DB.QueryRowContext(ctx, query, title, instructions, minutesToComplete, ownerID).
		Scan(&recipe.ID, &recipe.Title, &recipe.Instructions, &recipe.MinutesToComplete, &recipe.UserID)

	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// ==========================
// List By Owner
// ==========================
func (r *RecipeRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Recipe, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, instructions, minutes_to_complete, user_id
		FROM recipes
		WHERE user_id = $1
		ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		var rec models.Recipe
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Instructions, &rec.MinutesToComplete, &rec.UserID); err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}

	return recipes, rows.Err()
}
