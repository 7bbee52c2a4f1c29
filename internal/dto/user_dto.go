package dto

// Profile is a user as seen by a viewer; is_subscribed is relative to the
// requesting identity and always false for anonymous viewers.
type Profile struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscribedAuthor is a followed author together with a capped preview of
// their recipes.
type SubscribedAuthor struct {
	Profile
	Recipes      []RecipeMini `json:"recipes"`
	RecipesCount int64        `json:"recipes_count"`
}
