package dto

import "github.com/BloggingApp/post-web/internal/model"

type AccountsResponse struct {
	Accounts []model.Account `json:"accounts"`
}
