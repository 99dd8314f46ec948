package inquiry

import "time"

// InterestOptions are the topics a prospect can tick on the contact form.
var InterestOptions = []string{
	"General English",
	"Business English",
	"IELTS Preparation",
	"TOEFL Preparation",
	"Conversation Practice",
	"Grammar & Writing",
	"Pronunciation",
	"Kids English",
	"Academic English",
	"Exam Preparation",
}

type (
	Inquiry struct {
		ID               string    `json:"id"`
		VisitorID        string    `json:"visitor_id,omitempty"`
		Locale           string    `json:"locale"`
		Name             string    `json:"name"`
		Email            string    `json:"email"`
		Phone            string    `json:"phone,omitempty"`
		Subject          string    `json:"subject"`
		Message          string    `json:"message"`
		PreferredContact string    `json:"preferred_contact"`
		EnglishLevel     string    `json:"english_level"`
		Interests        []string  `json:"interests"`
		Newsletter       bool      `json:"newsletter"`
		CreatedAt        time.Time `json:"created_at"`
	}

	NewInquiry struct {
		Name             string   `json:"name" validate:"required,notblank,max=100"`
		Email            string   `json:"email" validate:"required,email,max=254"`
		Phone            string   `json:"phone" validate:"omitempty,phone"`
		Subject          string   `json:"subject" validate:"required,notblank,max=200"`
		Message          string   `json:"message" validate:"required,notblank,max=5000"`
		PreferredContact string   `json:"preferred_contact" validate:"required,oneof=email phone telegram"`
		EnglishLevel     string   `json:"english_level" validate:"omitempty,oneof=beginner intermediate advanced"`
		Interests        []string `json:"interests" validate:"max=10,dive,required"`
		Newsletter       bool     `json:"newsletter"`
	}

	// QueryFilter applies AND on its non-zero fields.
	QueryFilter struct {
		Since  time.Time
		Search string // case-insensitive match on name, email or subject
		Limit  int
	}
)
