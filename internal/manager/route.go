package manager

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRoute marks a malformed id in a route. Screens render a terminal
// invalid-id state and issue no request.
var ErrInvalidRoute = errors.New("invalid route")

// AccountRoute builds the route login navigates to.
func AccountRoute(userID int64) string {
	return fmt.Sprintf("/accounts/%d", userID)
}

// ParseAccountRoute extracts the user id from an /accounts/{id} route.
func ParseAccountRoute(route string) (int64, error) {
	return parseIDRoute(route, "accounts")
}

// ParseListRoute extracts the list id from a /lists/{id} route.
func ParseListRoute(route string) (int64, error) {
	return parseIDRoute(route, "lists")
}

func parseIDRoute(route, prefix string) (int64, error) {
	trimmed := strings.Trim(route, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || parts[0] != prefix {
		return 0, ErrInvalidRoute
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRoute
	}
	return id, nil
}
