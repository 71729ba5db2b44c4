package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRow struct {
	Collection string `gorm:"primaryKey;size:128"`
	ID         string `gorm:"primaryKey;size:64"`
	Data       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

type subscriber struct {
	query Query
	wake  chan struct{}
}

// Gorm keeps documents as JSON rows. Change notifications are produced in
// process; attach a PGRelay to also see writes from other processes.
type Gorm struct {
	DB *gorm.DB

	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
	relay  *PGRelay
}

func NewGorm(db *gorm.DB) (*Gorm, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents: %w", err)
	}
	return &Gorm{DB: db, subs: make(map[uint64]*subscriber)}, nil
}

// normalize round-trips v through JSON so stored and queried shapes agree.
func normalize(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gorm) Create(ctx context.Context, collection string, doc map[string]any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	row := documentRow{Collection: collection, ID: uuid.NewString(), Data: string(raw)}
	if err := g.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	g.changed(ctx, collection)
	return row.ID, nil
}

func (g *Gorm) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	patch, err := normalize(partial)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	err = g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row documentRow
		if err := tx.Where("collection = ? AND id = ?", collection, id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		data := map[string]any{}
		if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
			return fmt.Errorf("decode stored document: %w", err)
		}
		for k, v := range patch {
			data[k] = v
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}

		return tx.Model(&documentRow{}).
			Where("collection = ? AND id = ?", collection, id).
			Update("data", string(raw)).Error
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	g.changed(ctx, collection)
	return nil
}

func (g *Gorm) Delete(ctx context.Context, collection, id string) error {
	res := g.DB.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).Delete(&documentRow{})
	if res.Error != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
	}

	g.changed(ctx, collection)
	return nil
}

func (g *Gorm) Get(ctx context.Context, collection, id string) (Document, error) {
	var row documentRow
	err := g.DB.WithContext(ctx).Where("collection = ? AND id = ?", collection, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	data := map[string]any{}
	if err := json.Unmarshal([]byte(row.Data), &data); err != nil {
		return Document{}, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return Document{ID: row.ID, Data: data}, nil
}

func (g *Gorm) Query(ctx context.Context, q Query) ([]Document, error) {
	var rows []documentRow
	if err := g.DB.WithContext(ctx).
		Where("collection = ?", q.Collection).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", q.Collection, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, r := range rows {
		data := map[string]any{}
		if err := json.Unmarshal([]byte(r.Data), &data); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", q.Collection, r.ID, err)
		}
		docs = append(docs, Document{ID: r.ID, Data: data})
	}

	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(lookup(docs[i].Data, q.OrderBy), lookup(docs[j].Data, q.OrderBy))
			if q.Direction == Desc {
				return c > 0
			}
			return c < 0
		})
	}
	return docs, nil
}

func (g *Gorm) Subscribe(ctx context.Context, q Query, onChange func([]Document), onError func(error)) func() {
	sub := &subscriber{query: q, wake: make(chan struct{}, 1)}
	sub.wake <- struct{}{}

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = sub
	g.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer g.remove(id)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.wake:
			}

			docs, err := g.Query(ctx, q)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				onError(err)
				return
			}
			onChange(docs)
		}
	}()

	return cancel
}

func (g *Gorm) remove(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subs, id)
}

func (g *Gorm) changed(ctx context.Context, collection string) {
	g.notify(collection)
	g.mu.Lock()
	relay := g.relay
	g.mu.Unlock()
	if relay != nil {
		relay.publish(ctx, collection)
	}
}

// notifyAll wakes every subscriber.
func (g *Gorm) notifyAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.subs {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// notify wakes subscribers of collection. Pending wakes coalesce.
func (g *Gorm) notify(collection string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.subs {
		if s.query.Collection != collection {
			continue
		}
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}
