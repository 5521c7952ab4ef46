package main

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cincodev/cinco-billing/internal/models"
)

// hub holds the shared snapshot the billing instances reconcile against.
// It lives in memory; the instances keep their own durable copies and
// re-seed the hub on their next push after a restart.
type hub struct {
	mu       sync.RWMutex
	snapshot models.SharedSnapshot
}

func (h *hub) get(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.snapshot)
}

func (h *hub) post(w http.ResponseWriter, r *http.Request) {
	var snapshot models.SharedSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	snapshot.LastUpdated = time.Now()

	h.mu.Lock()
	h.snapshot = snapshot
	h.mu.Unlock()

	log.WithFields(log.Fields{
		"sites":          len(snapshot.Sites),
		"tenants":        len(snapshot.Tenants),
		"billingRecords": len(snapshot.BillingRecords),
	}).Info("Snapshot updated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (h *hub) handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.post(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	h := &hub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/shared-data", h.handle)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	port := os.Getenv("SHARED_DATA_PORT")
	if port == "" {
		port = "9090"
	}
	log.WithField("port", port).Info("Shared data hub listening")
	log.Fatal(http.ListenAndServe(":"+port, mux))
}
