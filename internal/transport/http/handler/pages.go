package handler

import (
	"net/http"
	"os"
)

// Pages serves the static front end from dir. Role checks happen in the
// route guard before this handler runs.
func Pages(dir string) http.Handler {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "page not found")
		})
	}
	return http.FileServer(http.Dir(dir))
}
