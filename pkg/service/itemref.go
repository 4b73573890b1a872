package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zfogg/otakulist/pkg/api"
)

// resolveItemRef maps a user reference to an item id. A reference is
// either a 1-based position ("3" or "#3") or an item id.
func resolveItemRef(items []api.ListItem, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("item reference required")
	}

	if num, ok := parsePosition(ref); ok {
		if num < 1 || num > len(items) {
			return "", fmt.Errorf("no item at position %d (list has %d)", num, len(items))
		}
		return items[num-1].ID, nil
	}

	for _, it := range items {
		if it.ID == ref {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("no item %q in list", ref)
}

func parsePosition(ref string) (int, bool) {
	digits := strings.TrimPrefix(ref, "#")
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	num, err := strconv.Atoi(digits)
	return num, err == nil
}
