package search

import "strconv"

// KeyPath extends parent with an object key. Top-level keys carry no
// leading separator.
func KeyPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "/" + key
}

// IndexPath extends parent with an array index.
func IndexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
