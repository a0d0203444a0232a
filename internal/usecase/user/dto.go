package user

// UserInput carries the name/email pair of a create or update request.
// Nil means the field was absent from the request body.
type UserInput struct {
	Name  *string
	Email *string
}

// CreateUserRequest represents the request payload for creating a new user.
type CreateUserRequest struct {
	UserInput
}

// UpdateUserRequest represents the request payload for replacing a user's name and email.
type UpdateUserRequest struct {
	ID int64
	UserInput
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
}
