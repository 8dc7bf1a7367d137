package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types recorded for catalog and packing list writes.
const (
	ActionProductCreated     = "product_created"
	ActionProductUpdated     = "product_updated"
	ActionProductDeleted     = "product_deleted"
	ActionHSCodeCreated      = "hs_code_created"
	ActionHSCodeDeleted      = "hs_code_deleted"
	ActionPackingListCreated = "packing_list_created"
	ActionPackingListUpdated = "packing_list_updated"
	ActionPackingListDeleted = "packing_list_deleted"
	ActionPackingListStatus  = "packing_list_status_changed"
	ActionPackingListExport  = "packing_list_exported"
)

// LogEntry is a request or audit record persisted by the logging service.
// Fields carries action specific context.
type LogEntry struct {
	ID         primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
	Level      string                 `bson:"level" json:"level"`
	Message    string                 `bson:"message" json:"message"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path       string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	Error      string                 `bson:"error,omitempty" json:"error,omitempty"`
	ActionType string                 `bson:"action_type,omitempty" json:"action_type,omitempty"`
	EntityType string                 `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID   string                 `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField sets a single context field.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithEntity tags the entry with the entity it refers to.
func (e *LogEntry) WithEntity(entityType, id string) *LogEntry {
	e.EntityType = entityType
	e.EntityID = id
	return e
}

// LogQueryOptions filters stored log entries.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	ActionType string
	EntityID   string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}
