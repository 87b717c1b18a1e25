package domain

// RegistrationInput holds the raw registration form fields.
// DogAge stays a string until submit so partial input can be kept.
type RegistrationInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	DogName   string `json:"dogName"`
	DogAge    string `json:"dogAge"`
	DogBreed  string `json:"dogBreed"`
}

// DisplayName joins first and last name
func (in RegistrationInput) DisplayName() string {
	switch {
	case in.FirstName == "":
		return in.LastName
	case in.LastName == "":
		return in.FirstName
	}
	return in.FirstName + " " + in.LastName
}

// ValidationFlags caches the result of the last blur check per field
type ValidationFlags struct {
	ValidEmail bool `json:"validEmail"`
	ValidAge   bool `json:"validAge"`
}
