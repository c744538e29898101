package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL appends the database name to a base postgres URL and
// forces sslmode=disable unless the URL already carries one. An empty name
// leaves the base URL untouched, which lets deployments put the full path in
// DATABASE_URL directly.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base := strings.TrimRight(baseURL, "/")

	var url string
	if host, query, found := strings.Cut(base, "?"); found {
		url = fmt.Sprintf("%s/%s?%s", host, databaseName, query)
	} else {
		url = fmt.Sprintf("%s/%s", base, databaseName)
	}

	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return url + "&sslmode=disable"
	}
	return url + "?sslmode=disable"
}
