package services

import (
	"fmt"
	"testing"

	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// A second pooled connection would see a different empty :memory: DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

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
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestImageStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := NewImageStore(t.TempDir())
	if err != nil {
		t.Fatalf("image store: %v", err)
	}
	return store
}

// testImage is a valid base64 data URI; content is irrelevant to the store.
const testImage = "data:image/png;base64,ZmFrZS1wbmctYnl0ZXM="

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "irrelevant",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &user
}

func seedTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("seed tag %s: %v", slug, err)
	}
	return &tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("seed ingredient %s: %v", name, err)
	}
	return &ing
}

// seedRecipe creates a recipe through the service so tags and lines go
// through the same write path production uses.
func seedRecipe(t *testing.T, svc *RecipeService, authorID uint, name string, tagIDs []uint, lines []dto.IngredientInput) uint {
	t.Helper()
	resp, err := svc.Create(authorID, recipeInput(name, tagIDs, lines))
	if err != nil {
		t.Fatalf("seed recipe %s: %v", name, err)
	}
	return resp.ID
}

func recipeInput(name string, tagIDs []uint, lines []dto.IngredientInput) *dto.RecipeInput {
	return &dto.RecipeInput{
		Name:        name,
		Text:        fmt.Sprintf("How to cook %s", name),
		Image:       testImage,
		CookingTime: 30,
		Tags:        tagIDs,
		Ingredients: lines,
	}
}
