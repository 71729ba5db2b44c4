package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	Client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{Client: client}
}

func (f *Firestore) Create(ctx context.Context, collection string, doc map[string]any) (string, error) {
	ref, _, err := f.Client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (f *Firestore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: partial[k]})
	}

	_, err := f.Client.Collection(collection).Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("firestore update %s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("firestore update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.Client.Collection(collection).Doc(id).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("firestore delete %s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("firestore delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (f *Firestore) Get(ctx context.Context, collection, id string) (Document, error) {
	ds, err := f.Client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, fmt.Errorf("firestore get %s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	return Document{ID: ds.Ref.ID, Data: ds.Data()}, nil
}

func (f *Firestore) query(q Query) firestore.Query {
	col := f.Client.Collection(q.Collection)
	if q.OrderBy == "" {
		return col.Query
	}
	dir := firestore.Asc
	if q.Direction == Desc {
		dir = firestore.Desc
	}
	return col.OrderBy(q.OrderBy, dir)
}

func (f *Firestore) Query(ctx context.Context, q Query) ([]Document, error) {
	it := f.query(q).Documents(ctx)
	docs, err := readAll(it)
	if err != nil {
		return nil, fmt.Errorf("firestore query %s: %w", q.Collection, err)
	}
	return docs, nil
}

func (f *Firestore) Subscribe(ctx context.Context, q Query, onChange func([]Document), onError func(error)) func() {
	ctx, cancel := context.WithCancel(ctx)
	it := f.query(q).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					return
				}
				onError(fmt.Errorf("firestore listen %s: %w", q.Collection, err))
				return
			}

			docs, err := readAll(snap.Documents)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				onError(fmt.Errorf("firestore snapshot %s: %w", q.Collection, err))
				return
			}
			onChange(docs)
		}
	}()

	return cancel
}

func readAll(it *firestore.DocumentIterator) ([]Document, error) {
	defer it.Stop()

	docs := make([]Document, 0)
	for {
		ds, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: ds.Ref.ID, Data: ds.Data()})
	}
	return docs, nil
}
