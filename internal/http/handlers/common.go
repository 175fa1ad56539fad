package handlers

import (
	"net/http"
	"sync"

	intconfig "aerodesk/internal/config"
	"aerodesk/internal/http/middleware"
	"aerodesk/internal/services"
	"aerodesk/internal/supplier"

	"github.com/gin-gonic/gin"
)

var (
	setupMu       sync.RWMutex
	env           intconfig.Env
	offerSearcher services.OfferSearcher
)

// Setup stores runtime config and the supplier client for the handler funcs.
// Call once from main before mounting the router.
func Setup(e intconfig.Env) {
	setupMu.Lock()
	defer setupMu.Unlock()
	env = e
	offerSearcher = supplier.New(supplier.Config{
		BaseURL:      e.SupplierBaseURL,
		ClientID:     e.SupplierClientID,
		ClientSecret: e.SupplierClientSecret,
	})
}

func currentEnv() intconfig.Env {
	setupMu.RLock()
	defer setupMu.RUnlock()
	return env
}

func searcher() services.OfferSearcher {
	setupMu.RLock()
	defer setupMu.RUnlock()
	if offerSearcher == nil {
		return supplier.New(supplier.Config{})
	}
	return offerSearcher
}

// SetOfferSearcher swaps the supplier client, for tests.
func SetOfferSearcher(s services.OfferSearcher) {
	setupMu.Lock()
	defer setupMu.Unlock()
	offerSearcher = s
}

func jwtSecret() []byte {
	return []byte(currentEnv().JWTSecret)
}

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "body kosong", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
		return false
	}
	return true
}
