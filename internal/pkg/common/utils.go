package common

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// NormalizeName 項目名稱正規化（小寫、去除前後空白），僅用於比對
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
