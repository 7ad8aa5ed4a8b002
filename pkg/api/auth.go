package api

import "time"

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginRsp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SessionRsp struct {
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}
