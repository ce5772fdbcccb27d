package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with that email already exists")
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Hearts    []int64   `json:"hearts"`
	CreatedAt time.Time `json:"created_at"`
}

// password keeps the plaintext out of JSON and pairs it with its bcrypt
// hash.
type password struct {
	text *string
	hash []byte
}

func (p *password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	p.text = &text
	p.hash = hash

	return nil
}

func (p *password) Compare(text string) error {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(text))
}

type Store interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ToggleHeart flips the membership of spotID in the user's heart set
	// as one atomic statement and returns the updated set.
	ToggleHeart(ctx context.Context, userID, spotID int64) ([]int64, error)
	GetHearts(ctx context.Context, userID int64) ([]int64, error)
}
