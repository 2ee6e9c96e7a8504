package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseOptionalGt parses the integer query parameter key and requires it to be greater than floor.
// It returns def when the parameter is absent and writes a 400 response when it is invalid.
func ParseOptionalGt(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string, floor int64, def int) (int, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def, true
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n <= floor {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s number: %s", key, value))
		return 0, false
	}
	return int(n), true
}
