package installers

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/solgrid/fieldmatch/core/marketplace"
)

// NewHandler returns an HTTP handler exposing the installer registry via
// GET /api/installers.
func NewHandler(dir *marketplace.Directory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		list := dir.Installers()
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		if onlyAvailable := r.URL.Query().Get("available"); onlyAvailable == "true" {
			filtered := list[:0]
			for _, ins := range list {
				if !ins.Blacklisted && ins.CapacityAvailable > 0 {
					filtered = append(filtered, ins)
				}
			}
			list = filtered
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(list); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
