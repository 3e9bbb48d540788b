package logging

import (
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// AUDIT EVENT TYPES
// =============================================================================

// AuditEventType names one structured turn event.
type AuditEventType string

const (
	AuditSessionStart  AuditEventType = "session_start"
	AuditTurnStart     AuditEventType = "turn_start"
	AuditStyleResolved AuditEventType = "style_resolved"
	AuditTurnEnd       AuditEventType = "turn_end"
	AuditChatSaved     AuditEventType = "chat_saved"
	AuditChatDeleted   AuditEventType = "chat_deleted"
)

// AuditEvent is a structured audit entry. Zero-valued fields are omitted.
type AuditEvent struct {
	EventType  AuditEventType
	ChatID     string
	Turn       int
	Target     string
	Success    bool
	DurationMs int64
	Fields     map[string]interface{}
}

// AuditLogger writes audit events to the audit category, scoped to a chat.
type AuditLogger struct {
	chatID string
}

// Audit returns an unscoped audit logger
func Audit() *AuditLogger {
	return &AuditLogger{}
}

// AuditWithChat creates an audit logger scoped to a chat
func AuditWithChat(chatID string) *AuditLogger {
	return &AuditLogger{chatID: chatID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsCategoryEnabled(CategoryAudit) {
		return
	}
	if event.ChatID == "" {
		event.ChatID = a.chatID
	}

	mu.RLock()
	logger := base.Named(string(CategoryAudit))
	mu.RUnlock()

	fields := []zap.Field{zap.String("event", string(event.EventType))}
	if event.ChatID != "" {
		fields = append(fields, zap.String("chat", event.ChatID))
	}
	if event.Turn > 0 {
		fields = append(fields, zap.Int("turn", event.Turn))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	fields = append(fields, zap.Bool("success", event.Success))
	if event.DurationMs > 0 {
		fields = append(fields, zap.Int64("dur_ms", event.DurationMs))
	}
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	logger.Info(string(event.EventType), fields...)
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// SessionStart logs the creation of a conversation
func (a *AuditLogger) SessionStart() {
	a.Log(AuditEvent{EventType: AuditSessionStart, Success: true})
}

// TurnStart logs an incoming user message
func (a *AuditLogger) TurnStart(turn int, inputLen int) {
	a.Log(AuditEvent{
		EventType: AuditTurnStart,
		Turn:      turn,
		Success:   true,
		Fields:    map[string]interface{}{"input_len": inputLen},
	})
}

// StyleResolved logs which keyword won and the resulting format
func (a *AuditLogger) StyleResolved(turn int, keyword, format string, multiplier float64) {
	a.Log(AuditEvent{
		EventType: AuditStyleResolved,
		Turn:      turn,
		Target:    keyword,
		Success:   true,
		Fields: map[string]interface{}{
			"format":     format,
			"multiplier": multiplier,
		},
	})
}

// TurnEnd logs a completed reply
func (a *AuditLogger) TurnEnd(turn int, words int, hasCode bool, elapsed time.Duration) {
	a.Log(AuditEvent{
		EventType:  AuditTurnEnd,
		Turn:       turn,
		Success:    true,
		DurationMs: elapsed.Milliseconds(),
		Fields: map[string]interface{}{
			"words":    words,
			"has_code": hasCode,
		},
	})
}

// ChatSaved logs a persisted chat
func (a *AuditLogger) ChatSaved(backend string, messages int, err error) {
	ev := AuditEvent{
		EventType: AuditChatSaved,
		Target:    backend,
		Success:   err == nil,
		Fields:    map[string]interface{}{"messages": messages},
	}
	if err != nil {
		ev.Fields["error"] = err.Error()
	}
	a.Log(ev)
}

// ChatDeleted logs a removed chat
func (a *AuditLogger) ChatDeleted(backend string, err error) {
	ev := AuditEvent{EventType: AuditChatDeleted, Target: backend, Success: err == nil}
	if err != nil {
		ev.Fields = map[string]interface{}{"error": err.Error()}
	}
	a.Log(ev)
}
