package decks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dtroode/pitchdeck-server/internal/logger"
	"github.com/dtroode/pitchdeck-server/internal/model"
)

const (
	// IndexKey is the well-known key of the deck index.
	IndexKey = "decks_index"
	// RecordKeyPrefix prefixes the id of each stored deck.
	RecordKeyPrefix = "deck_"
)

// RecordKey returns the key a deck with the given id is stored under.
func RecordKey(id string) string {
	return RecordKeyPrefix + id
}

var _ model.DeckStore = (*Repository)(nil)

// Repository stores decks and the deck index in a KVStore.
// Concurrent saves of the same deck id are not coordinated: the last write wins.
type Repository struct {
	kv     model.KVStore
	logger *logger.Logger
}

func NewRepository(kv model.KVStore, logger *logger.Logger) *Repository {
	return &Repository{
		kv:     kv,
		logger: logger,
	}
}

// Save writes the deck record and moves its index entry to the front, atomically.
func (r *Repository) Save(ctx context.Context, deck model.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	record, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}

	err = r.kv.Update(ctx, func(tx model.KVTx) error {
		if err := tx.Put(ctx, RecordKey(deck.ID), record); err != nil {
			return err
		}
		return r.prepend(ctx, tx, deck.Entry())
	})
	if err != nil {
		return fmt.Errorf("failed to save deck %s: %w", deck.ID, err)
	}

	return nil
}

// Prepend inserts entry at the front of the index, replacing any entry with the same id.
func (r *Repository) Prepend(ctx context.Context, entry model.IndexEntry) error {
	return r.kv.Update(ctx, func(tx model.KVTx) error {
		return r.prepend(ctx, tx, entry)
	})
}

func (r *Repository) prepend(ctx context.Context, tx model.KVTx, entry model.IndexEntry) error {
	raw, err := tx.Get(ctx, IndexKey)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	current := r.decodeIndex(raw)
	updated := make([]model.IndexEntry, 0, len(current)+1)
	updated = append(updated, entry)
	for _, e := range current {
		if e.ID != entry.ID {
			updated = append(updated, e)
		}
	}

	encoded, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to encode deck index: %w", err)
	}
	return tx.Put(ctx, IndexKey, encoded)
}

// Load returns the deck stored under id. It returns model.ErrNotFound when no
// record exists and model.ErrCorruptRecord when the record cannot be decoded.
func (r *Repository) Load(ctx context.Context, id string) (model.Deck, error) {
	raw, err := r.kv.Get(ctx, RecordKey(id))
	if err != nil {
		return model.Deck{}, err
	}

	var deck model.Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return model.Deck{}, fmt.Errorf("%w: deck %s: %v", model.ErrCorruptRecord, id, err)
	}
	if deck.ID != id {
		return model.Deck{}, fmt.Errorf("%w: deck stored under %s has id %q", model.ErrCorruptRecord, id, deck.ID)
	}

	return deck, nil
}

// List returns the deck index, most recent first. A missing or unreadable
// index yields an empty list.
func (r *Repository) List(ctx context.Context) ([]model.IndexEntry, error) {
	raw, err := r.kv.Get(ctx, IndexKey)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			r.logger.Warn("failed to read deck index", "error", err)
		}
		return []model.IndexEntry{}, nil
	}
	return r.decodeIndex(raw), nil
}

func (r *Repository) decodeIndex(raw []byte) []model.IndexEntry {
	if len(raw) == 0 {
		return []model.IndexEntry{}
	}
	var entries []model.IndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.logger.Warn("deck index is corrupt, treating as empty", "error", err)
		return []model.IndexEntry{}
	}
	if entries == nil {
		entries = []model.IndexEntry{}
	}
	return entries
}
