package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound         = errors.New("profile not found")
	ErrExists           = errors.New("user exists")
	ErrUsernameTaken    = errors.New("Username is already taken")
	ErrWrongCredentials = errors.New("Invalid login credentials")
)

type Service interface {
	SignUp(ctx context.Context, in SignUpReq) (*Profile, error)
	SignIn(ctx context.Context, email, password string) (*Profile, error)
	Get(ctx context.Context, id string) (*Profile, error)
}

type service struct{ repo Repository }

func NewService(r Repository) Service { return &service{repo: r} }

func (s *service) SignUp(ctx context.Context, in SignUpReq) (*Profile, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.repo.UsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("hash fail")
	}
	p := &Profile{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		FullName: strings.TrimSpace(in.FullName),
		PassHash: string(hash),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Profile, error) {
	p, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrWrongCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PassHash), []byte(password)) != nil {
		return nil, ErrWrongCredentials
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}
