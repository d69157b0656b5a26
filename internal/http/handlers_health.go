package httpx

import "net/http"

// healthHandler answers liveness probes. No dependencies are checked here;
// readiness of the database is handled at startup by the migration runner.
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
