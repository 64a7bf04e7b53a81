package service

import "fmt"

// UserService loads and saves users.
type UserService struct {
	repo Repository
}

type Repository interface {
	Find(id string) (string, error)
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetUser(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	return s.repo.Find(id)
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	return nil
}
