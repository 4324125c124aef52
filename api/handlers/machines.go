package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/machinepulse/machinepulse/internal/history"
	"github.com/machinepulse/machinepulse/pkg/models"
)

// FleetManager exposes the orchestrator operations the API needs.
type FleetManager interface {
	MachineStatus(machineID string) (bool, error)
	ListRunning() []string
	SubscribeAllEvents() <-chan *models.Event
}

type MachineHandler struct {
	store        *history.Store
	fleetManager FleetManager
}

func NewMachineHandler(store *history.Store, fleetManager FleetManager) *MachineHandler {
	return &MachineHandler{
		store:        store,
		fleetManager: fleetManager,
	}
}

// List godoc returns all tracked machines with their latest observation.
func (h *MachineHandler) List(c *gin.Context) {
	ids := h.store.ListMachines()

	machines := make([]gin.H, 0, len(ids))
	for _, id := range ids {
		entry := gin.H{"machine_id": id}
		if obs, ok := h.store.Latest(id); ok {
			entry["health"] = obs.Health
			entry["anomaly"] = obs.Anomaly
			entry["rul"] = obs.RUL
			entry["updated_at"] = obs.Timestamp
		}
		machines = append(machines, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"machines": machines,
		"count":    len(machines),
	})
}

// GetHistory returns the machine's stored history, newest last. An
// optional limit query parameter truncates to the most recent N entries.
func (h *MachineHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")

	hist := h.store.GetHistory(id)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	n := hist.Len()
	if limit > 0 && limit < n {
		offset := n - limit
		hist.Health = hist.Health[offset:]
		hist.Anomaly = hist.Anomaly[offset:]
		hist.RUL = hist.RUL[offset:]
		hist.Timestamps = hist.Timestamps[offset:]
		hist.Features = hist.Features[offset:]
	}

	c.JSON(http.StatusOK, gin.H{
		"machine_id": id,
		"count":      hist.Len(),
		"health":     hist.Health,
		"anomaly":    hist.Anomaly,
		"rul":        hist.RUL,
		"timestamps": hist.Timestamps,
		"features":   hist.Features,
	})
}

// GetLatest returns the most recent observation for the machine.
func (h *MachineHandler) GetLatest(c *gin.Context) {
	id := c.Param("id")

	obs, ok := h.store.Latest(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no observations for machine " + id})
		return
	}

	c.JSON(http.StatusOK, obs)
}

// GetStatus reports whether the machine's monitoring pipeline is running
// and how much history it has accumulated.
func (h *MachineHandler) GetStatus(c *gin.Context) {
	id := c.Param("id")

	running := false
	if h.fleetManager != nil {
		if r, err := h.fleetManager.MachineStatus(id); err == nil {
			running = r
		}
	}

	hist := h.store.GetHistory(id)
	if hist.Len() == 0 && !running {
		c.JSON(http.StatusNotFound, gin.H{"error": "machine not found: " + id})
		return
	}

	status := gin.H{
		"machine_id":   id,
		"monitoring":   running,
		"observations": hist.Len(),
	}
	if health, ok := hist.LatestHealth(); ok {
		status["health"] = health
		status["anomaly"] = hist.Anomaly[len(hist.Anomaly)-1]
		status["rul"] = hist.RUL[len(hist.RUL)-1]
	}

	c.JSON(http.StatusOK, status)
}
