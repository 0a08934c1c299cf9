// Package history persists chat transcripts, one ordered message list per
// subject, under a single key of the local key-value store.
package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/diogo/chatull/internal/kvstore"
	"github.com/diogo/chatull/internal/models"
)

// ChatsKey is the storage key holding every transcript
const ChatsKey = "chats"

// record is the stored shape of a message. The field names are part of the
// storage format and must not change without a migration.
type record struct {
	Text       string `json:"text_"`
	IsQuestion bool   `json:"is_question_"`
}

// Store is the transcript repository. It is append-only.
type Store struct {
	kv     kvstore.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used to report unreadable data
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a transcript store over kv
func NewStore(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds msg at the end of the subject's transcript. An empty subject
// means nothing is selected and the call is a no-op.
func (s *Store) Append(subject string, msg models.Message) error {
	if subject == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.readRaw()
	if err != nil {
		return err
	}

	var items []json.RawMessage
	if existing, ok := chats[subject]; ok {
		if gjson.ParseBytes(existing).IsArray() {
			if err := json.Unmarshal(existing, &items); err != nil {
				return fmt.Errorf("failed to decode transcript: %w", err)
			}
		} else {
			s.logger.Warn("replacing transcript that is not an array", zap.String("subject", subject))
		}
	}

	item, err := json.Marshal(record{Text: msg.Text, IsQuestion: msg.IsQuestion})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	transcript, err := json.Marshal(append(items, item))
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	chats[subject] = transcript

	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to marshal transcripts: %w", err)
	}
	if err := s.kv.Set(ChatsKey, data); err != nil {
		return fmt.Errorf("failed to save transcripts: %w", err)
	}
	return nil
}

// Load returns the subject's transcript in insertion order. The boolean
// reports whether the subject has a stored transcript at all.
func (s *Store) Load(subject string) ([]models.Message, bool, error) {
	if subject == "" {
		return nil, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.readChats()
	if err != nil {
		return nil, false, err
	}

	records, ok := chats[subject]
	if !ok {
		return nil, false, nil
	}

	messages := make([]models.Message, 0, len(records))
	for _, r := range records {
		messages = append(messages, models.NewMessage(r.Text, r.IsQuestion))
	}
	return messages, true, nil
}

// Subjects returns every subject with a stored transcript, sorted by name
func (s *Store) Subjects() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.readChats()
	if err != nil {
		return nil, err
	}

	subjects := make([]string, 0, len(chats))
	for subject := range chats {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// readRaw decodes the stored blob into one raw value per subject, leaving
// the values untouched. Missing or malformed data reads as an empty object;
// only storage failures are returned as errors.
func (s *Store) readRaw() (map[string]json.RawMessage, error) {
	chats := make(map[string]json.RawMessage)

	data, ok, err := s.kv.Get(ChatsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts: %w", err)
	}
	if !ok || len(data) == 0 {
		return chats, nil
	}

	if !gjson.ValidBytes(data) {
		s.logger.Warn("stored transcripts are not valid JSON, starting empty",
			zap.String("key", ChatsKey), zap.Int("bytes", len(data)))
		return chats, nil
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		s.logger.Warn("stored transcripts are not a JSON object, starting empty",
			zap.String("key", ChatsKey), zap.String("type", root.Type.String()))
		return chats, nil
	}

	if err := json.Unmarshal(data, &chats); err != nil {
		s.logger.Warn("stored transcripts could not be decoded, starting empty", zap.Error(err))
		return make(map[string]json.RawMessage), nil
	}
	return chats, nil
}

// readChats returns the transcripts that decode as message lists. Values
// that are not arrays are skipped.
func (s *Store) readChats() (map[string][]record, error) {
	raw, err := s.readRaw()
	if err != nil {
		return nil, err
	}

	chats := make(map[string][]record, len(raw))
	for subject, value := range raw {
		parsed := gjson.ParseBytes(value)
		if !parsed.IsArray() {
			s.logger.Warn("skipping transcript that is not an array", zap.String("subject", subject))
			continue
		}

		items := parsed.Array()
		records := make([]record, 0, len(items))
		for _, item := range items {
			records = append(records, record{
				Text:       item.Get("text_").String(),
				IsQuestion: item.Get("is_question_").Bool(),
			})
		}
		chats[subject] = records
	}
	return chats, nil
}
