package http

import "github.com/vibast-solutions/ms-go-catalog/app/entity"

type MessageResponse struct {
	Message string `json:"message"`
}

// UnauthorizedResponse is the body for 401s raised by the token gate.
type UnauthorizedResponse struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type UserResponse struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Activated bool   `json:"activated"`
}

func NewUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Activated: user.Activated,
	}
}

type ConfirmationResponse struct {
	ID        string `json:"id"`
	UserID    uint64 `json:"user_id"`
	ExpireAt  int64  `json:"expire_at"`
	Confirmed bool   `json:"confirmed"`
}

func NewConfirmationResponse(confirmation *entity.Confirmation) ConfirmationResponse {
	return ConfirmationResponse{
		ID:        confirmation.ID,
		UserID:    confirmation.UserID,
		ExpireAt:  confirmation.ExpireAt.Unix(),
		Confirmed: confirmation.Confirmed,
	}
}

type ConfirmationListResponse struct {
	CurrentTime   int64                  `json:"current_time"`
	Confirmations []ConfirmationResponse `json:"confirmation"`
}

type ItemResponse struct {
	ID      uint64  `json:"id"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	StoreID uint64  `json:"store_id"`
}

func NewItemResponse(item *entity.Item) ItemResponse {
	return ItemResponse{
		ID:      item.ID,
		Name:    item.Name,
		Price:   item.Price,
		StoreID: item.StoreID,
	}
}

func NewItemResponses(items []*entity.Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewItemResponse(item))
	}
	return responses
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

type StoreResponse struct {
	ID    uint64         `json:"id"`
	Name  string         `json:"name"`
	Items []ItemResponse `json:"items,omitempty"`
}

type StoreListResponse struct {
	Stores []StoreResponse `json:"stores"`
}
