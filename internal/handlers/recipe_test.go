package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/repo"
)

const testInstructions = "Boil water and steep the leaves for three minutes."

func authedRequest(method, target string, body []byte, userID int) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestRecipeHandler_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "Tea", testInstructions, 5, 1))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	rr := httptest.NewRecorder()
	h.ListRecipes(rr, authedRequest("GET", "/recipes", nil, 1))

	if rr.Code != http.StatusOK {
		t.Errorf("ListRecipes status: got %d, want 200", rr.Code)
	}
	var recipes []struct {
		ID     int `json:"id"`
		UserID int `json:"user_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&recipes); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(recipes) != 1 || recipes[0].UserID != 1 {
		t.Errorf("unexpected recipes: %+v", recipes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_List_EmptyIsArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, instructions, minutes_to_complete, user_id`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	rr := httptest.NewRecorder()
	h.ListRecipes(rr, authedRequest("GET", "/recipes", nil, 2))

	if rr.Code != http.StatusOK {
		t.Errorf("ListRecipes status: got %d, want 200", rr.Code)
	}
	if got := rr.Body.String(); got != "[]\n" {
		t.Errorf("empty list must encode as [], got: %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_List_NoSession(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	req := httptest.NewRequest("GET", "/recipes", nil)
	rr := httptest.NewRecorder()
	h.ListRecipes(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("ListRecipes status: got %d, want 401", rr.Code)
	}
}

func TestRecipeHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO recipes \(title, instructions, minutes_to_complete, user_id\)`).
		WithArgs("Tea", testInstructions, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "instructions", "minutes_to_complete", "user_id"}).
			AddRow(1, "Tea", testInstructions, nil, 1))

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "Tea", "instructions": testInstructions})
	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, authedRequest("POST", "/recipes", body, 1))

	if rr.Code != http.StatusCreated {
		t.Errorf("CreateRecipe status: got %d, want 201", rr.Code)
	}
	var out struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		UserID int    `json:"user_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != 1 || out.Title != "Tea" || out.UserID != 1 {
		t.Errorf("unexpected recipe: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Create_MissingFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	cases := []struct {
		name    string
		payload map[string]string
	}{
		{"missing title", map[string]string{"instructions": testInstructions}},
		{"missing instructions", map[string]string{"title": "Tea"}},
		{"short instructions", map[string]string{"title": "Tea", "instructions": "too short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			rr := httptest.NewRecorder()
			h.CreateRecipe(rr, authedRequest("POST", "/recipes", body, 1))

			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("CreateRecipe status: got %d, want 422", rr.Code)
			}
		})
	}

	// Nothing may have been persisted.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRecipeHandler_Create_NoSession(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "Tea", "instructions": testInstructions})
	req := httptest.NewRequest("POST", "/recipes", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("CreateRecipe status: got %d, want 401", rr.Code)
	}
}

func TestRecipeHandler_Create_BadJSON(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &RecipeHandler{Repo: repo.NewRecipeRepo(db)}

	rr := httptest.NewRecorder()
	h.CreateRecipe(rr, authedRequest("POST", "/recipes", []byte("not json"), 1))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("CreateRecipe status: got %d, want 400", rr.Code)
	}
}
