package main

import (
	"fmt"
	"strconv"
)

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", raw)
	}
	return id, nil
}
