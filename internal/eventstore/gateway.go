// Package eventstore is the single boundary through which events are read
// and written. Every document path is scoped by the owning user's id, so a
// cross-user read or write is not representable.
package eventstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/xlab/closer"
	"github.com/ysaito/personal-calendar/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Gateway struct {
	client *firestore.Client
}

func NewGateway(ctx context.Context, projectID string) (*Gateway, error) {
	var fbConf *firebase.Config
	if projectID != "" {
		fbConf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConf)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining firestore client: %w", err)
	}

	closer.Bind(func() {
		_ = client.Close()
	})

	return &Gateway{client: client}, nil
}

// List returns all events of the user ordered by start ascending. No events
// is an empty slice, not an error.
func (g *Gateway) List(ctx context.Context, uid string) ([]*model.Event, error) {
	iter := g.events(uid).OrderBy(fieldStartAt, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	res := make([]*model.Event, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError("list", err)
		}

		var dto eventDTO
		if err := snap.DataTo(&dto); err != nil {
			return nil, storeError("list", fmt.Errorf("decode document %s: %w", snap.Ref.ID, err))
		}

		res = append(res, mapToEvent(snap.Ref.ID, &dto))
	}

	return res, nil
}

func (g *Gateway) Create(ctx context.Context, uid string, event *model.EventCreate) (string, error) {
	ref, _, err := g.events(uid).Add(ctx, mapFromCreate(event))
	if err != nil {
		return "", storeError("create", err)
	}

	return ref.ID, nil
}

// Update overwrites all event fields except id and createdAt and refreshes
// updatedAt with the server clock.
func (g *Gateway) Update(ctx context.Context, uid, id string, event *model.EventCreate) error {
	if _, err := g.events(uid).Doc(id).Update(ctx, fieldUpdates(event)); err != nil {
		return storeError("update", err)
	}

	return nil
}

// Move rewrites only the scheduling fields. The drag path deliberately
// leaves allDay as the caller reports it and drops endAt when the new
// position has none.
func (g *Gateway) Move(ctx context.Context, uid, id string, move *model.EventMove) error {
	if _, err := g.events(uid).Doc(id).Update(ctx, moveUpdates(move)); err != nil {
		return storeError("move", err)
	}

	return nil
}

// Remove deletes the event. Removing an id that does not exist for the user
// is an error, not a no-op.
func (g *Gateway) Remove(ctx context.Context, uid, id string) error {
	if _, err := g.events(uid).Doc(id).Delete(ctx, firestore.Exists); err != nil {
		return storeError("remove", err)
	}

	return nil
}

func (g *Gateway) events(uid string) *firestore.CollectionRef {
	return g.client.Collection(usersCollection).Doc(uid).Collection(eventsCollection)
}

func storeError(op string, err error) error {
	if status.Code(err) == codes.NotFound {
		err = fmt.Errorf("%w: %v", model.ErrNoRecord, err)
	}

	return &model.StoreError{Op: op, Err: err}
}
