package console

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-admin-console/pkg/activity"
)

func TestSetOrderStatusEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	svc, err := NewService(Options{
		Client:         newFakeStoreClient(),
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ctx := ContextWithActivity(context.Background(), ActivityContext{
		ActorID:  "actor-1",
		UserID:   "user-1",
		TenantID: "tenant-1",
	})
	if err := svc.SetOrderStatus(ctx, "ord-1001", "completed"); err != nil {
		t.Fatalf("SetOrderStatus: %v", err)
	}

	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != "console.order.status" || event.ObjectType != "order" || event.ObjectID != "ord-1001" {
		t.Fatalf("unexpected event payload: %+v", event)
	}
	if event.ActorID != "actor-1" || event.UserID != "user-1" || event.TenantID != "tenant-1" {
		t.Fatalf("unexpected actor context: %+v", event)
	}
	if event.Metadata["status"] != "completed" {
		t.Fatalf("expected status metadata, got %+v", event.Metadata)
	}
	if event.Channel != "console" {
		t.Fatalf("expected console channel, got %q", event.Channel)
	}
}

func TestDeleteProductEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	svc, err := NewService(Options{
		Client:         newFakeStoreClient(),
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), "p1"); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 activity event, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != "console.product.delete" || capture.Events[0].ObjectID != "p1" {
		t.Fatalf("unexpected event: %+v", capture.Events[0])
	}
}

func TestFailedMutationEmitsNothing(t *testing.T) {
	capture := &activity.CaptureHook{}
	client := newFakeStoreClient()
	client.mutationErr = errors.New("rejected")
	svc, err := NewService(Options{
		Client:         client,
		ActivityHooks:  activity.Hooks{capture},
		ActivityConfig: activity.Config{Enabled: true},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), "p1"); err == nil {
		t.Fatal("expected mutation error")
	}
	if len(capture.Events) != 0 {
		t.Fatalf("failed mutation must not emit activity, got %d events", len(capture.Events))
	}
}
