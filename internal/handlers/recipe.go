package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tasteboard/recipebox/internal/metrics"
	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/models"
	"github.com/tasteboard/recipebox/internal/repo"
)

type RecipeHandler struct {
	Repo *repo.RecipeRepo
}

//
// ==========================
// List Recipes (caller's own only)
// ==========================
//

func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recipes, err := h.Repo.ListByOwner(r.Context(), userID)
	if err != nil {
		slog.Error("recipes: list", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recipes)
}

//
// ==========================
// Create Recipe
// ==========================
//

func (h *RecipeHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input struct {
		Title             string `json:"title" validate:"required"`
		Instructions      string `json:"instructions" validate:"required,min=20"`
		MinutesToComplete *int   `json:"minutes_to_complete" validate:"omitempty,gte=0"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Title":
					fields["title"] = "required"
				case "Instructions":
					if fe.Tag() == "min" {
						fields["instructions"] = "must be at least 20 characters"
					} else {
						fields["instructions"] = "required"
					}
				case "MinutesToComplete":
					fields["minutes_to_complete"] = "must be zero or greater"
				}
			}
		}
		JSONValidationError(w, "validation failed", fields, http.StatusUnprocessableEntity)
		return
	}

	recipe, err := h.Repo.Create(r.Context(), userID, input.Title, input.Instructions, input.MinutesToComplete)
	if err != nil {
		if errors.Is(err, repo.ErrValidation) {
			JSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		// Constraint violations and other persistence failures roll back to no
		// row; surface as 422 without internal detail.
		slog.Error("recipes: create", "error", err)
		JSONError(w, ErrMessageUnprocessable, http.StatusUnprocessableEntity)
		return
	}

	metrics.RecipesCreatedTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(recipe)
}
