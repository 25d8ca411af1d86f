package api

import (
	"context"
	"fmt"
	"net/http"

	"taskmaster/internal/model"
)

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the bearer token the client persists and the user it
// identifies.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type UserInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar,omitempty"`
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	var user model.User
	err := c.do(ctx, call{
		op:       "users.register",
		fallback: "Error registering user",
		method:   http.MethodPost,
		path:     "/user/register",
		body:     input,
		into:     &user,
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, call{
		op:       "users.login",
		fallback: "Error logging in",
		method:   http.MethodPost,
		path:     "/user/login",
		body:     input,
		into:     &result,
	})
	if err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (c *Client) FindUser(ctx context.Context, userID int64) (model.User, error) {
	var user model.User
	err := c.do(ctx, call{
		op:       "users.find",
		fallback: "Error fetching user",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/user/find/%d", userID),
		into:     &user,
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, call{
		op:       "users.me",
		fallback: "Error fetching profile",
		method:   http.MethodGet,
		path:     "/user/getUser",
		into:     &user,
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID int64, input UserInput) (model.User, error) {
	var user model.User
	err := c.do(ctx, call{
		op:       "users.update",
		fallback: "Error updating profile",
		method:   http.MethodPut,
		path:     fmt.Sprintf("/user/update/%d", userID),
		body:     input,
		into:     &user,
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
