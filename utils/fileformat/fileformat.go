package fileformat

import (
	"path"
	"strings"

	"github.com/twinj/uuid"
)

// UniqueFormat builds a collision-free storage key for an uploaded file
// while keeping the original extension.
func UniqueFormat(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return uuid.NewV4().String() + ext
}
