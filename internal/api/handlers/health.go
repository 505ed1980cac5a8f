package handlers

import (
	"sync"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/amiyamandal-dev/newscms/internal/ipfs"
	"github.com/amiyamandal-dev/newscms/internal/search"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	mongoClient *mongo.Client
	ipfsClient  *ipfs.Client
	searchIndex *search.BleveIndex
	logger      *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mongoClient *mongo.Client, ipfsClient *ipfs.Client, searchIndex *search.BleveIndex, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		ipfsClient:  ipfsClient,
		searchIndex: searchIndex,
		logger:      log.WithComponent("health-handler"),
	}
}

// Health returns basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
	})
}

// Readiness checks if the service is ready to handle requests
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		dbHealthy     bool
		ipfsHealthy   bool
		searchHealthy bool
		searchCount   uint64
		wg            sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		dbHealthy = h.mongoClient.Ping(ctx, nil) == nil
	}()

	go func() {
		defer wg.Done()
		ipfsHealthy = h.ipfsClient.IsHealthy(ctx)
	}()

	go func() {
		defer wg.Done()
		var err error
		searchCount, err = h.searchIndex.Count()
		searchHealthy = err == nil
	}()

	wg.Wait()

	checks := map[string]interface{}{
		"mongodb": map[string]interface{}{
			"healthy":  dbHealthy,
			"required": true,
		},
		"ipfs": map[string]interface{}{
			"healthy":  ipfsHealthy,
			"required": false,
			"note":     "Optional - image uploads unavailable if offline",
		},
		"search": map[string]interface{}{
			"healthy":        searchHealthy,
			"required":       true,
			"document_count": searchCount,
		},
	}

	// Only required services gate readiness
	ready := dbHealthy && searchHealthy

	status := "ready"
	code := 200
	if !ready {
		status = "not ready"
		code = 503
	}

	body := gin.H{
		"status": status,
		"checks": checks,
	}

	if !ipfsHealthy {
		body["warnings"] = []string{"IPFS not available - article image uploads disabled"}
	}

	c.JSON(code, body)
}

// Liveness checks if the service is alive
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "alive",
	})
}
