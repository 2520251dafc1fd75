package server

import (
	"fmt"
	"net/http"
	"runtime"
)

// handleDebugUsers handles GET /api/debug/users — user count and summaries.
// Passwords and recovery phrases are never included.
func (s *Server) handleDebugUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	users := s.app.Users.GetAllUsers(r.Context())

	summaries := make([]map[string]interface{}, len(users))
	for i, u := range users {
		summaries[i] = map[string]interface{}{
			"id":         u.ID,
			"username":   u.Username,
			"created_at": u.CreatedAt,
		}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"user_count": len(users),
			"users":      summaries,
			"message":    fmt.Sprintf("Found %d user(s) in store", len(users)),
		},
	})
}

// handleMemstats handles GET /debug/memstats — heap statistics.
func (s *Server) handleMemstats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"heap_alloc_bytes": m.HeapAlloc,
		"heap_inuse_bytes": m.HeapInuse,
		"heap_idle_bytes":  m.HeapIdle,
		"sys_bytes":        m.Sys,
		"num_gc":           m.NumGC,
		"heap_alloc_mb":    float64(m.HeapAlloc) / 1024 / 1024,
		"heap_inuse_mb":    float64(m.HeapInuse) / 1024 / 1024,
		"heap_idle_mb":     float64(m.HeapIdle) / 1024 / 1024,
		"sys_mb":           float64(m.Sys) / 1024 / 1024,
	})
}
