package api

import (
	"context"
	"net/http"

	"taskmaster/internal/model"
)

func (c *Client) GetSettings(ctx context.Context) (model.Settings, error) {
	var settings model.Settings
	err := c.do(ctx, call{
		op:       "settings.get",
		fallback: "Error fetching settings",
		method:   http.MethodGet,
		path:     "/settings/",
		into:     &settings,
	})
	if err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// UpdateSettings replaces the whole settings document; settings are never
// partially created, the backend seeds defaults at registration.
func (c *Client) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	var updated model.Settings
	err := c.do(ctx, call{
		op:       "settings.update",
		fallback: "Error updating settings",
		method:   http.MethodPut,
		path:     "/settings/",
		body:     settings,
		into:     &updated,
	})
	if err != nil {
		return model.Settings{}, err
	}
	return updated, nil
}
