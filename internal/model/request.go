package model

// MinicourseInput is the payload for creating or updating a minicourse.
// Vacancies is only honoured on create; capacity edits go through
// UpdateMinicourseCapacity to keep the seat counter consistent.
type MinicourseInput struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Instructor         string  `json:"instructor"`
	InstructorPhotoURL string  `json:"instructor_photo_url"`
	Location           string  `json:"location"`
	Date               string  `json:"date"`
	Time               string  `json:"time"`
	Type               string  `json:"type"`
	Theme              string  `json:"theme"`
	Price              float64 `json:"price"`
	ImageURL           string  `json:"image_url"`
	PaymentURL         string  `json:"payment_url"`
	Vacancies          int     `json:"vacancies"`
}

// RegisterRequest is the payload for registering for a minicourse.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

// NewsInput is the payload for creating or updating a news post.
type NewsInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Summary   string `json:"summary"`
	ImageURL  string `json:"image_url"`
	VideoURL  string `json:"video_url"`
	ImageSize string `json:"image_size"`
}

// ScheduleInput is the payload for creating or updating a schedule entry.
type ScheduleInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// SubscribeRequest is the payload for a general congress subscription.
type SubscribeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CPF         string `json:"cpf"`
	Phone       string `json:"phone"`
	Institution string `json:"institution"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PaymentUpdate is the payload for admin payment toggles.
type PaymentUpdate struct {
	IsPaid bool `json:"is_paid"`
}

// PublishUpdate is the payload for admin publish toggles.
type PublishUpdate struct {
	Published bool `json:"published"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
