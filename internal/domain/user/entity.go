package user

// User represents a user entity in the system.
type User struct {
	ID    int64  // ID is assigned by storage on creation and never changes
	Name  string // Name is the trimmed display name, 1-50 characters
	Email string // Email is unique across all users, 1-50 characters
}
