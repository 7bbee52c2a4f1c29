package services

import (
	"reflect"
	"strings"
	"testing"

	"github.com/foodplate/foodplate-backend/internal/dto"
)

func TestShoppingListService_Aggregate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	relations := NewRelationService(db, users)
	recipes := NewRecipeService(db, newTestImageStore(t))
	lists := NewShoppingListService(db)

	shopper := seedUser(t, db, "shopper")
	author := seedUser(t, db, "author")
	tag := seedTag(t, db, "dinner")

	salt := seedIngredient(t, db, "Salt", "g")
	flour := seedIngredient(t, db, "Flour", "kg")

	r1 := seedRecipe(t, recipes, author.ID, "Soup", []uint{tag.ID},
		[]dto.IngredientInput{{ID: salt.ID, Amount: 5}, {ID: flour.ID, Amount: 2}})
	r2 := seedRecipe(t, recipes, author.ID, "Bread", []uint{tag.ID},
		[]dto.IngredientInput{{ID: salt.ID, Amount: 3}})
	// Not in the cart; must not contribute.
	seedRecipe(t, recipes, author.ID, "Cake", []uint{tag.ID},
		[]dto.IngredientInput{{ID: flour.ID, Amount: 9}})

	for _, id := range []uint{r1, r2} {
		if _, err := relations.AddCartEntry(shopper.ID, id); err != nil {
			t.Fatalf("AddCartEntry(%d) error = %v", id, err)
		}
	}

	items, err := lists.Aggregate(shopper.ID)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	want := []ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "kg", Amount: 2},
		{Name: "Salt", MeasurementUnit: "g", Amount: 8},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("Aggregate() = %v, want %v", items, want)
	}

	report := lists.Render(items)
	wantReport := "Shopping list:\nFlour - 2, kg\nSalt - 8, g"
	if report != wantReport {
		t.Errorf("Render() = %q, want %q", report, wantReport)
	}
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	db := newTestDB(t)
	lists := NewShoppingListService(db)
	shopper := seedUser(t, db, "shopper")

	items, err := lists.Aggregate(shopper.ID)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Aggregate() = %v, want empty", items)
	}

	report := lists.Render(items)
	if report != "Shopping list:" {
		t.Errorf("Render() = %q, want header only", report)
	}
	if strings.Contains(report, "\n") {
		t.Errorf("empty report has extra lines: %q", report)
	}
}
