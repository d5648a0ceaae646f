package personalization

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/prefeitura-rio/app-personalizacao/internal/logger"
	"github.com/prefeitura-rio/app-personalizacao/internal/models"
)

const (
	// SnapshotKey chave única do snapshot persistido
	SnapshotKey = "personalization_recommendations"
	// DefaultSnapshotTTL validade do snapshot
	DefaultSnapshotTTL = 30 * time.Minute
)

// SnapshotStore persiste a última recomendação recebida pelo cliente
type SnapshotStore interface {
	Load(userID string) (*models.Payload, bool)
	Save(userID string, payload *models.Payload) error
	Clear() error
}

// snapshot formato persistido: {payload, createdAt, userId}
type snapshot struct {
	Payload   *models.Payload `json:"payload"`
	CreatedAt int64           `json:"createdAt"`
	UserID    string          `json:"userId"`
}

// BadgerSnapshotStore snapshot persistido no BadgerDB
type BadgerSnapshotStore struct {
	db  *badger.DB
	ttl time.Duration
	log logger.Logger
	now func() time.Time
}

// OpenBadger abre o banco do snapshot. dir vazio usa armazenamento em memória.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// NewBadgerSnapshotStore cria o store sobre um banco aberto
func NewBadgerSnapshotStore(db *badger.DB, ttl time.Duration, log logger.Logger) *BadgerSnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &BadgerSnapshotStore{db: db, ttl: ttl, log: log, now: time.Now}
}

// Load retorna o snapshot se ainda válido e do mesmo usuário.
// Snapshots expirados, de outro usuário ou corrompidos são removidos.
func (s *BadgerSnapshotStore) Load(userID string) (*models.Payload, bool) {
	var snap snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(SnapshotKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false
	}
	if err != nil || snap.Payload == nil {
		s.log.Warn("Snapshot de recomendações ilegível, removendo", logger.Error(err))
		_ = s.Clear()
		return nil, false
	}

	if s.now().Sub(time.UnixMilli(snap.CreatedAt)) > s.ttl || snap.UserID != models.CacheKey(userID) {
		s.log.Debug("Snapshot expirado ou de outro usuário, removendo",
			logger.String("cached_user_id", snap.UserID),
			logger.String("user_id", models.CacheKey(userID)))
		_ = s.Clear()
		return nil, false
	}

	return snap.Payload, true
}

// Save grava o snapshot do usuário
func (s *BadgerSnapshotStore) Save(userID string, payload *models.Payload) error {
	data, err := json.Marshal(snapshot{
		Payload:   payload,
		CreatedAt: s.now().UnixMilli(),
		UserID:    models.CacheKey(userID),
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(SnapshotKey), data).WithTTL(s.ttl))
	})
}

// Clear remove o snapshot
func (s *BadgerSnapshotStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(SnapshotKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		return nil
	})
}
