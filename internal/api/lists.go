package api

import (
	"context"
	"fmt"
	"net/http"

	"taskmaster/internal/model"
)

type ListInput struct {
	Title    string `json:"title"`
	Color    string `json:"color"`
	AuthorID int64  `json:"authorId"`
}

func (c *Client) GetLists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	err := c.do(ctx, call{
		op:       "lists.get",
		fallback: "Error fetching lists",
		method:   http.MethodGet,
		path:     "/lists/",
		into:     &lists,
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) CreateList(ctx context.Context, input ListInput) (model.List, error) {
	var list model.List
	err := c.do(ctx, call{
		op:       "lists.create",
		fallback: "Error creating list",
		method:   http.MethodPost,
		path:     "/lists/",
		body:     input,
		into:     &list,
	})
	if err != nil {
		return model.List{}, err
	}
	return list, nil
}

// GetListData fetches one list together with its tasks in a single payload.
func (c *Client) GetListData(ctx context.Context, listID int64) (model.ListData, error) {
	var data model.ListData
	err := c.do(ctx, call{
		op:       "lists.getOne",
		fallback: "Error fetching list",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/lists/%d", listID),
		into:     &data,
	})
	if err != nil {
		return model.ListData{}, err
	}
	return data, nil
}

func (c *Client) UpdateList(ctx context.Context, listID int64, input ListInput) (model.List, error) {
	var list model.List
	err := c.do(ctx, call{
		op:       "lists.update",
		fallback: "Error updating list",
		method:   http.MethodPut,
		path:     fmt.Sprintf("/lists/%d", listID),
		body:     input,
		into:     &list,
	})
	if err != nil {
		return model.List{}, err
	}
	return list, nil
}

func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	return c.do(ctx, call{
		op:       "lists.delete",
		fallback: "Error deleting list",
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/lists/%d", listID),
	})
}
