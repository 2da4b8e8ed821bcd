package dto

import "github.com/vibast-solutions/ms-go-catalog/app/entity"

type RegisterResult struct {
	User *entity.User
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

type ConfirmResult struct {
	User         *entity.User
	Confirmation *entity.Confirmation
}
