// Package handler defines the HTTP layer. Handlers bind requests,
// delegate to the service and repository layers and translate domain
// errors into the status taxonomy: validation and conflicts map to 400,
// missing authentication to 401, ownership failures to 403, missing
// entities to 404 and everything unexpected to 500.
package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-booking/internal/model"
)

// errNoIdentity signals a missing or malformed identity claim in the
// request context.
var errNoIdentity = errors.New("no identity in context")

// requesterID extracts the authenticated user's document id set by the
// JWT middleware.
func requesterID(c echo.Context) (string, error) {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v, nil
	}
	return "", errNoIdentity
}

// requesterEmail extracts the authenticated user's email claim.
func requesterEmail(c echo.Context) (string, error) {
	if v, ok := c.Get("email").(string); ok && v != "" {
		return v, nil
	}
	return "", errNoIdentity
}

// serializeUser standardizes user output across endpoints; the password
// hash never leaves the model layer.
func serializeUser(u model.User) echo.Map {
	return echo.Map{
		"id":                  u.ID.Hex(),
		"email":               u.Email,
		"full_name":           u.FullName,
		"phone":               u.Phone,
		"city":                u.City,
		"avatar_url":          u.AvatarURL,
		"role":                u.Role,
		"favorite_categories": u.FavoriteCategories,
		"favorite_events":     u.FavoriteEvents,
	}
}
