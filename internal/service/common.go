package service

import (
	"encoding/json"
	"fmt"
	"time"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/ws"
	"go-sealindo/pkg/validator"
)

// validationError menerjemahkan hasil validator menjadi apperr per-field.
func validationError(errs []*validator.ErrorResponse) *apperr.Error {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = fmt.Sprintf("%s failed on '%s'", e.FailedField, e.Tag)
	}
	return apperr.Validation(fields...)
}

// broadcast mengirim event stock_update ke semua klien websocket. Dipanggil
// setelah commit; hub nil (test) berarti no-op.
func broadcast(hub *ws.Hub, action string, data map[string]interface{}, actorID string) {
	if hub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":    "stock_update",
			"action":  action,
			"data":    data,
			"user_id": actorID,
			"at":      time.Now(),
		}
		msg, _ := json.Marshal(payload)
		hub.Broadcast <- msg
	}()
}
