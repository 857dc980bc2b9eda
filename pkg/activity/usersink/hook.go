package usersink

import (
	"context"

	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-admin-console/pkg/activity"
)

// Sink is the go-users activity log surface this hook writes to.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook forwards console audit events to a go-users activity sink.
type Hook struct {
	Sink Sink
}

// Notify maps the event onto a types.ActivityRecord and logs it. Events
// without a verb are skipped; identifiers that do not parse as UUIDs are
// left zero.
func (h Hook) Notify(ctx context.Context, evt Event) error {
	if h.Sink == nil || !evt.Valid() {
		return nil
	}
	record := types.ActivityRecord{
		ActorID:    parseUUID(evt.ActorID),
		UserID:     parseUUID(evt.UserID),
		TenantID:   parseUUID(evt.TenantID),
		Verb:       evt.Verb,
		ObjectType: evt.ObjectType,
		ObjectID:   evt.ObjectID,
		Channel:    evt.Channel,
		OccurredAt: evt.OccurredAt,
		Data:       recordData(evt),
	}
	return h.Sink.Log(ctx, record)
}

// Event aliases the activity event so callers wiring the hook do not need a
// second import.
type Event = activity.Event

func recordData(evt Event) map[string]any {
	data := map[string]any{}
	for k, v := range evt.Metadata {
		data[k] = v
	}
	if evt.DefinitionCode != "" {
		data["definition_code"] = evt.DefinitionCode
	}
	if len(evt.Recipients) > 0 {
		data["recipients"] = evt.Recipients
	}
	if len(data) == 0 {
		return nil
	}
	return data
}

func parseUUID(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}
	}
	return id
}
