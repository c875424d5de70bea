package response

import "github.com/vietanh2810/campsite-api/internal/domain"

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

type TokenResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Healthcheck struct {
	Status string `json:"status"`
}
