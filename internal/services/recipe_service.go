package services

import (
	"errors"
	"fmt"

	"github.com/foodplate/foodplate-backend/internal/dto"
	"github.com/foodplate/foodplate-backend/internal/models"
	"gorm.io/gorm"
)

// RecipeService validates and writes recipes and serves the filtered
// listing. A viewer ID of 0 means an anonymous requester throughout.
type RecipeService struct {
	db     *gorm.DB
	images *ImageStore
}

func NewRecipeService(db *gorm.DB, images *ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

func (s *RecipeService) Create(authorID uint, input *dto.RecipeInput) (*dto.RecipeResponse, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if input.Image == "" {
		return nil, newValidationError("image", "image is required")
	}

	imagePath, err := s.images.Save(input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       imagePath,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return s.writeAssociations(tx, &recipe, input)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(authorID, recipe.ID)
}

func (s *RecipeService) Update(actorID, recipeID uint, input *dto.RecipeInput) (*dto.RecipeResponse, error) {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return nil, ErrRecipeNotFound
	}
	if recipe.AuthorID != actorID {
		return nil, ErrNotOwner
	}

	if err := s.validate(input); err != nil {
		return nil, err
	}

	imagePath := recipe.Image
	if input.Image != "" {
		var err error
		if imagePath, err = s.images.Save(input.Image); err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"image":        imagePath,
			"cooking_time": input.CookingTime,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		// Drop every existing line before inserting the new set; the new
		// lines must be exactly what was sent, never a merge.
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear ingredient lines: %w", err)
		}
		return s.writeAssociations(tx, &recipe, input)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(actorID, recipe.ID)
}

func (s *RecipeService) Delete(actorID, recipeID uint) error {
	var recipe models.Recipe
	if err := s.db.First(&recipe, recipeID).Error; err != nil {
		return ErrRecipeNotFound
	}
	if recipe.AuthorID != actorID {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func (s *RecipeService) Get(viewerID, recipeID uint) (*dto.RecipeResponse, error) {
	var recipe models.Recipe
	err := s.db.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").
		First(&recipe, recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	rendered, err := s.render(viewerID, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &rendered[0], nil
}

// List applies the AND-combined filter set. The favorited / in-cart filters
// are no-ops for anonymous viewers even when set.
func (s *RecipeService) List(viewerID uint, filter dto.RecipeFilter) ([]dto.RecipeResponse, int64, error) {
	query := s.db.Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs))
	}
	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.Favorited && viewerID != 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}
	if filter.InShoppingCart && viewerID != 0 {
		query = query.Where("recipes.id IN (?)",
			s.db.Model(&models.CartEntry{}).Select("recipe_id").Where("user_id = ?", viewerID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient").
		Order("recipes.name, recipes.id").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	rendered, err := s.render(viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return rendered, total, nil
}

func (s *RecipeService) validate(input *dto.RecipeInput) error {
	if input.Name == "" {
		return newValidationError("name", "name is required")
	}
	if input.Text == "" {
		return newValidationError("text", "text is required")
	}
	if input.CookingTime < MinCookingTime || input.CookingTime > MaxCookingTime {
		return newValidationError("cooking_time",
			fmt.Sprintf("cooking time must be between %d and %d minutes", MinCookingTime, MaxCookingTime))
	}

	if len(input.Tags) == 0 {
		return newValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]struct{}, len(input.Tags))
	for _, id := range input.Tags {
		if _, dup := seenTags[id]; dup {
			return newValidationError("tags", "tags must not repeat")
		}
		seenTags[id] = struct{}{}
	}
	var tagCount int64
	if err := s.db.Model(&models.Tag{}).Where("id IN ?", input.Tags).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount != int64(len(input.Tags)) {
		return newValidationError("tags", "unknown tag id")
	}

	if len(input.Ingredients) == 0 {
		return newValidationError("ingredients", "at least one ingredient is required")
	}
	ids := make([]uint, 0, len(input.Ingredients))
	seen := make(map[uint]struct{}, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if _, dup := seen[line.ID]; dup {
			return newValidationError("ingredients", "ingredients must not repeat")
		}
		seen[line.ID] = struct{}{}
		if line.Amount < MinAmount || line.Amount > MaxAmount {
			return newValidationError("ingredients",
				fmt.Sprintf("amount must be between %d and %d", MinAmount, MaxAmount))
		}
		ids = append(ids, line.ID)
	}
	var ingredientCount int64
	if err := s.db.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if ingredientCount != int64(len(ids)) {
		return newValidationError("ingredients", "unknown ingredient id")
	}

	return nil
}

// writeAssociations replaces the tag set wholesale and inserts the new
// ingredient lines. Callers run it inside the same transaction as the
// recipe row write.
func (s *RecipeService) writeAssociations(tx *gorm.DB, recipe *models.Recipe, input *dto.RecipeInput) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", input.Tags).Find(&tags).Error; err != nil {
		return err
	}
	if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}

	lines := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	if err := tx.Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to insert ingredient lines: %w", err)
	}
	return nil
}

// render builds responses with the viewer-relative flags resolved in three
// batched id-set queries instead of per-row lookups.
func (s *RecipeService) render(viewerID uint, recipes []models.Recipe) ([]dto.RecipeResponse, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.idSet(&models.Favorite{}, "recipe_id", viewerID, "user_id = ?", recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := s.idSet(&models.CartEntry{}, "recipe_id", viewerID, "user_id = ?", recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := s.idSet(&models.Subscription{}, "following_id", viewerID, "follower_id = ?", authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		ingredients := make([]dto.IngredientAmount, 0, len(r.Ingredients))
		for _, line := range r.Ingredients {
			ingredients = append(ingredients, dto.IngredientAmount{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		_, isSubscribed := followed[r.AuthorID]
		_, isFavorited := favorited[r.ID]
		_, isInCart := inCart[r.ID]
		out = append(out, dto.RecipeResponse{
			ID:   r.ID,
			Tags: tags,
			Author: dto.Profile{
				ID:           r.Author.ID,
				Email:        r.Author.Email,
				Username:     r.Author.Username,
				FirstName:    r.Author.FirstName,
				LastName:     r.Author.LastName,
				IsSubscribed: isSubscribed,
			},
			Ingredients:      ingredients,
			Name:             r.Name,
			Image:            MediaURL(r.Image),
			Text:             r.Text,
			CookingTime:      r.CookingTime,
			IsFavorited:      isFavorited,
			IsInShoppingCart: isInCart,
		})
	}
	return out, nil
}

// idSet loads the subset of candidate ids the viewer has a relation row
// for. Anonymous viewers always get an empty set.
func (s *RecipeService) idSet(model interface{}, column string, viewerID uint, viewerCond string, candidates []uint) (map[uint]struct{}, error) {
	set := make(map[uint]struct{})
	if viewerID == 0 || len(candidates) == 0 {
		return set, nil
	}
	var ids []uint
	err := s.db.Model(model).
		Where(viewerCond, viewerID).
		Where(column+" IN ?", candidates).
		Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// MediaURL maps a stored image path to its public URL.
func MediaURL(path string) string {
	if path == "" {
		return ""
	}
	return "/media/" + path
}
