package user

import (
	"fmt"
	"time"
)

// Gender is the self-reported participant gender.
type Gender string

const (
	// GenderMale is a male participant.
	GenderMale Gender = "male"
	// GenderFemale is a female participant.
	GenderFemale Gender = "female"
	// GenderOther covers every other answer.
	GenderOther Gender = "other"
)

// IsValid checks if the gender is supported.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Default participation sources.
const (
	SourceURL         = "url"
	SourceObservation = "observation"
)

const maxFreeText = 128

// Profile holds the demographic answers given at registration.
type Profile struct {
	Age        int
	Gender     Gender
	Education  string
	Occupation string
	// From is the public token of the participant who shared the link, if any.
	From   string
	Source string
	Task   string
}

// User is a registered survey participant (immutable value object).
type User struct {
	token        string
	public       string
	profile      Profile
	registeredAt int64
}

// Validate checks the profile answers.
func (p Profile) Validate() error {
	if p.Age < 1 || p.Age > 150 {
		return fmt.Errorf("age must be between 1 and 150, got %d", p.Age)
	}
	if !p.Gender.IsValid() {
		return fmt.Errorf("invalid gender %q", p.Gender)
	}
	if len(p.Education) > maxFreeText || len(p.Occupation) > maxFreeText {
		return fmt.Errorf("education and occupation are limited to %d bytes", maxFreeText)
	}
	if p.Task == "" {
		return fmt.Errorf("task is required")
	}
	return nil
}

// New validates the profile and creates a User with the issued tokens.
func New(token, public string, p Profile) (User, error) {
	if token == "" || public == "" {
		return User{}, fmt.Errorf("tokens are required")
	}
	if token == public {
		return User{}, fmt.Errorf("private and public tokens must differ")
	}
	if err := p.Validate(); err != nil {
		return User{}, err
	}
	if p.Source == "" {
		p.Source = SourceURL
	}
	return User{
		token:        token,
		public:       public,
		profile:      p,
		registeredAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(token, public string, p Profile, registeredAt int64) User {
	return User{token: token, public: public, profile: p, registeredAt: registeredAt}
}

// Token returns the private token used to act as the user.
func (u User) Token() string { return u.token }

// Public returns the shareable token that identifies the user without granting access.
func (u User) Public() string { return u.public }

// Profile returns the demographic answers.
func (u User) Profile() Profile { return u.profile }

// Task returns the task assigned to the user.
func (u User) Task() string { return u.profile.Task }

// RegisteredAt returns the registration timestamp (unix millis).
func (u User) RegisteredAt() int64 { return u.registeredAt }
