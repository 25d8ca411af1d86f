package manager

import (
	"strconv"

	"taskmaster/internal/cache"
)

// Canonical read keys. Every screen subscribes to exactly one of these per
// resource shape and derives its filtered views locally.

func TasksKey(userID int64) cache.Key {
	return cache.NewKey("tasks", strconv.FormatInt(userID, 10))
}

func ListDataKey(listID int64) cache.Key {
	return cache.NewKey("listData", strconv.FormatInt(listID, 10))
}

func ListsKey(userID int64) cache.Key {
	return cache.NewKey("lists", strconv.FormatInt(userID, 10))
}

func SettingsKey(userID int64) cache.Key {
	return cache.NewKey("settings", strconv.FormatInt(userID, 10))
}

func UserKey(userID int64) cache.Key {
	return cache.NewKey("user", strconv.FormatInt(userID, 10))
}
