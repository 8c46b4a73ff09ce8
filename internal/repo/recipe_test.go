package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const testInstructions = "Boil water and steep the leaves for three minutes."

func TestRecipeRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	minutes := 5
	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("Tea", testInstructions, &minutes, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "Tea", testInstructions, 5, 1))

	repo := NewRecipeRepo(db)
	recipe, err := repo.Create(context.Background(), 1, "Tea", testInstructions, &minutes)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if recipe.ID != 1 || recipe.Title != "Tea" || recipe.UserID != 1 {
		t.Errorf("unexpected recipe: %+v", recipe)
	}
	if recipe.MinutesToComplete == nil || *recipe.MinutesToComplete != 5 {
		t.Errorf("unexpected minutes: %v", recipe.MinutesToComplete)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeRepo_Create_NoMinutes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("Tea", testInstructions, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(2, "Tea", testInstructions, nil, 1))

	repo := NewRecipeRepo(db)
	recipe, err := repo.Create(context.Background(), 1, "Tea", testInstructions, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if recipe.MinutesToComplete != nil {
		t.Errorf("expected nil minutes, got: %v", *recipe.MinutesToComplete)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeRepo_Create_Validation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewRecipeRepo(db)

	cases := []struct {
		name         string
		title        string
		instructions string
	}{
		{"missing title", "", testInstructions},
		{"missing instructions", "Tea", ""},
		{"short instructions", "Tea", "Boil water."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), 1, tc.title, tc.instructions, nil)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got: %v", err)
			}
		})
	}

	// Nothing may have reached the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeRepo_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "Tea", testInstructions, 5, 1).
			AddRow(3, "Toast", testInstructions, nil, 1))

	repo := NewRecipeRepo(db)
	recipes, err := repo.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	for _, r := range recipes {
		if r.UserID != 1 {
			t.Errorf("recipe %d owned by %d, want 1", r.ID, r.UserID)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeRepo_ListByOwner_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}))

	repo := NewRecipeRepo(db)
	recipes, err := repo.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(recipes) != 0 {
		t.Errorf("expected no recipes, got %d", len(recipes))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
