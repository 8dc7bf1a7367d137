package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/service"
)

// LoggingServiceKey is the gin context key holding the service.LoggingService.
const LoggingServiceKey = "logging_service"

// AuditEvent describes a write worth keeping in the audit trail.
type AuditEvent struct {
	Action     string
	EntityType string
	EntityID   string
	Message    string
	Fields     map[string]interface{}
}

// AuditLog records a successful action.
func AuditLog(sink service.LoggingService, c *gin.Context, ev AuditEvent) {
	dispatch(sink, auditEntry(c, "info", ev))
}

// AuditLogError records a failed action together with its error.
func AuditLogError(sink service.LoggingService, c *gin.Context, ev AuditEvent, err error) {
	entry := auditEntry(c, "error", ev)
	if err != nil {
		entry.Error = err.Error()
	}
	dispatch(sink, entry)
}

// LoggingServiceFrom returns the logging service stored on the context.
func LoggingServiceFrom(c *gin.Context) service.LoggingService {
	if v, ok := c.Get(LoggingServiceKey); ok {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}

func auditEntry(c *gin.Context, level string, ev AuditEvent) *model.LogEntry {
	return &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    ev.Message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		ActionType: ev.Action,
		EntityType: ev.EntityType,
		EntityID:   ev.EntityID,
		Fields:     ev.Fields,
	}
}
