package domain

// User represents a Doggy Date account as returned by the GraphQL API
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageURL,omitempty"`
	Dogs            []Dog  `json:"dogs"`
}

// Dog represents a pet profile owned by a user
type Dog struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Age             int32  `json:"age"`
	Breed           string `json:"breed"`
	ProfileImageURL string `json:"profileImageURL,omitempty"`
}

// Credentials holds what the login form collects
type Credentials struct {
	Email string `json:"email" validate:"required,email"`
}
