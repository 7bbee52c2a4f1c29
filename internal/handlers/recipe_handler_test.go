package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foodplate/foodplate-backend/internal/config"
	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/handlers"
	"github.com/foodplate/foodplate-backend/internal/models"
	"github.com/foodplate/foodplate-backend/internal/routes"
	"github.com/foodplate/foodplate-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

type testServer struct {
	app  *fiber.App
	db   *gorm.DB
	auth *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Subscription{},
		&models.Favorite{},
		&models.CartEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 24 * time.Hour,
		MediaDir:         t.TempDir(),
	}

	images, err := services.NewImageStore(cfg.MediaDir)
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	relationService := services.NewRelationService(db, userService)
	recipeService := services.NewRecipeService(db, images)
	shoppingListService := services.NewShoppingListService(db)
	referenceService := services.NewReferenceService(db)

	app := fiber.New()
	routes.Setup(
		app,
		cfg,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService, relationService),
		handlers.NewRecipeHandler(recipeService, relationService, shoppingListService),
		handlers.NewTagHandler(referenceService),
		handlers.NewIngredientHandler(referenceService),
		handlers.NewHealthHandler(),
	)

	return &testServer{app: app, db: db, auth: authService}
}

// registerUser creates an account through the service layer and returns
// an access token plus the user id.
func (s *testServer) registerUser(t *testing.T, username string) (string, uint) {
	t.Helper()
	resp, err := s.auth.Register(&dto.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("Register(%q) error = %v", username, err)
	}
	return resp.AccessToken, resp.User.ID
}

func (s *testServer) seedReference(t *testing.T) (tagID, ingredientID uint) {
	t.Helper()
	tag := models.Tag{Name: "Dinner", Color: "#49B64E", Slug: "dinner"}
	if err := s.db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to seed tag: %v", err)
	}
	ing := models.Ingredient{Name: "Salt", MeasurementUnit: "g"}
	if err := s.db.Create(&ing).Error; err != nil {
		t.Fatalf("failed to seed ingredient: %v", err)
	}
	return tag.ID, ing.ID
}

func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func recipeBody(name string, tagID, ingredientID uint) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Mix and serve.",
		"cooking_time": 10,
		"image":        testImage,
		"tags":         []uint{tagID},
		"ingredients":  []map[string]interface{}{{"id": ingredientID, "amount": 5}},
	}
}

func decodeRecipe(t *testing.T, resp *http.Response) dto.RecipeResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.RecipeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode recipe response: %v", err)
	}
	return out
}

func TestRecipeEndpoints_CreateGetDelete(t *testing.T) {
	srv := newTestServer(t)
	token, _ := srv.registerUser(t, "author")
	tagID, ingredientID := srv.seedReference(t)

	resp := srv.request(t, http.MethodPost, "/api/recipes", token, recipeBody("Soup", tagID, ingredientID))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("POST /api/recipes status = %d, want 201", resp.StatusCode)
	}
	recipe := decodeRecipe(t, resp)
	if recipe.Name != "Soup" || !strings.HasPrefix(recipe.Image, "/media/") {
		t.Errorf("created recipe = %q image %q", recipe.Name, recipe.Image)
	}

	// Anonymous read works.
	resp = srv.request(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipe.ID), "", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("GET /api/recipes/:id status = %d, want 200", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", recipe.ID), token, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("DELETE /api/recipes/:id status = %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", recipe.ID), "", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("GET deleted recipe status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecipeEndpoints_ValidationAndAuthz(t *testing.T) {
	srv := newTestServer(t)
	authorToken, _ := srv.registerUser(t, "author")
	otherToken, _ := srv.registerUser(t, "other")
	tagID, ingredientID := srv.seedReference(t)

	// No token.
	resp := srv.request(t, http.MethodPost, "/api/recipes", "", recipeBody("Soup", tagID, ingredientID))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("unauthenticated POST status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	// Out-of-range cooking time.
	body := recipeBody("Soup", tagID, ingredientID)
	body["cooking_time"] = 0
	resp = srv.request(t, http.MethodPost, "/api/recipes", authorToken, body)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("invalid POST status = %d, want 400", resp.StatusCode)
	}
	var verr dto.ValidationErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&verr); err != nil {
		t.Fatalf("failed to decode validation response: %v", err)
	}
	resp.Body.Close()
	if _, ok := verr.Fields["cooking_time"]; !ok {
		t.Errorf("validation fields = %v, want cooking_time entry", verr.Fields)
	}

	resp = srv.request(t, http.MethodPost, "/api/recipes", authorToken, recipeBody("Soup", tagID, ingredientID))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("POST /api/recipes status = %d, want 201", resp.StatusCode)
	}
	recipe := decodeRecipe(t, resp)

	// Only the author may modify.
	resp = srv.request(t, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", recipe.ID), otherToken, recipeBody("Stolen", tagID, ingredientID))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("PATCH by non-author status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", recipe.ID), otherToken, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("DELETE by non-author status = %d, want 403", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRecipeEndpoints_FavoriteAndCart(t *testing.T) {
	srv := newTestServer(t)
	authorToken, _ := srv.registerUser(t, "author")
	fanToken, _ := srv.registerUser(t, "fan")
	tagID, ingredientID := srv.seedReference(t)

	resp := srv.request(t, http.MethodPost, "/api/recipes", authorToken, recipeBody("Soup", tagID, ingredientID))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("POST /api/recipes status = %d, want 201", resp.StatusCode)
	}
	recipe := decodeRecipe(t, resp)
	favoriteURL := fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID)
	cartURL := fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID)

	resp = srv.request(t, http.MethodPost, favoriteURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("POST favorite status = %d, want 201", resp.StatusCode)
	}
	var mini dto.RecipeMini
	if err := json.NewDecoder(resp.Body).Decode(&mini); err != nil {
		t.Fatalf("failed to decode mini: %v", err)
	}
	resp.Body.Close()
	if mini.ID != recipe.ID || mini.Name != "Soup" {
		t.Errorf("favorite mini = %+v", mini)
	}

	// Duplicate favorite is rejected.
	resp = srv.request(t, http.MethodPost, favoriteURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("duplicate favorite status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodDelete, favoriteURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("DELETE favorite status = %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodDelete, favoriteURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("repeated DELETE favorite status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	// Cart and the downloaded list.
	resp = srv.request(t, http.MethodPost, cartURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("POST shopping_cart status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodGet, "/api/recipes/download_shopping_cart", fanToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET download_shopping_cart status = %d, want 200", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("failed to read shopping list: %v", err)
	}
	if got := string(data); got != "Shopping list:\nSalt - 5, g" {
		t.Errorf("shopping list = %q", got)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("shopping list content type = %q", ct)
	}
}

func TestSubscriptionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	fanToken, _ := srv.registerUser(t, "fan")
	_, authorID := srv.registerUser(t, "author")
	subscribeURL := fmt.Sprintf("/api/users/%d/subscribe", authorID)

	resp := srv.request(t, http.MethodPost, subscribeURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusCreated {
		t.Errorf("POST subscribe status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp = srv.request(t, http.MethodGet, "/api/users/subscriptions", fanToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET subscriptions status = %d, want 200", resp.StatusCode)
	}
	var page struct {
		Count   int64                  `json:"count"`
		Results []dto.SubscribedAuthor `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("failed to decode subscriptions page: %v", err)
	}
	resp.Body.Close()
	if page.Count != 1 || len(page.Results) != 1 || page.Results[0].Username != "author" {
		t.Errorf("subscriptions page = %+v", page)
	}

	resp = srv.request(t, http.MethodDelete, subscribeURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("DELETE subscribe status = %d, want 204", resp.StatusCode)
	}
	resp.Body.Close()

	// Removing an absent subscription is a 404.
	resp = srv.request(t, http.MethodDelete, subscribeURL, fanToken, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("repeated DELETE subscribe status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}
