package user

type CreateUserRequest struct {
	ClerkID  string `json:"clerkId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type UpdateProfileRequest struct {
	Username   string `json:"username,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	WeeklyGoal int    `json:"weeklyGoal,omitempty"`
}
