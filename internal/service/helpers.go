package service

import (
	"strconv"
	"strings"
)

func clean(s string) string {
	return strings.TrimSpace(s)
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	return &v
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
