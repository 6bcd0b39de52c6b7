package fakeapi

import (
	"sort"
	"sync"
	"time"

	"github.com/markdave123-py/chatdesk/internal/models"
)

// timestampLayout matches the naive ISO timestamps the real backend emits.
const timestampLayout = "2006-01-02T15:04:05.000000"

type document struct {
	info models.DocumentInfo
	data []byte
}

// Store is the in-memory state of the fake backend.
type Store struct {
	mu            sync.Mutex
	conversations map[string][]models.ChatMessage
	documents     map[int64]*document
	nextDocID     int64
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[string][]models.ChatMessage),
		documents:     make(map[int64]*document),
		nextDocID:     1,
		now:           time.Now,
	}
}

func (s *Store) timestamp() string {
	return s.now().Format(timestampLayout)
}

func (s *Store) AddMessage(conversationID string, msg models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msg)
}

// Messages returns a copy of the conversation, empty for unknown ids.
func (s *Store) Messages(conversationID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.conversations[conversationID]))
	copy(out, s.conversations[conversationID])
	return out
}

func (s *Store) ClearConversation(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
}

func (s *Store) InsertDocument(filename string, data []byte) models.DocumentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := models.DocumentInfo{
		ID:              s.nextDocID,
		Filename:        filename,
		UploadTimestamp: s.timestamp(),
	}
	s.nextDocID++
	s.documents[info.ID] = &document{info: info, data: data}
	return info
}

// Documents lists documents newest first.
func (s *Store) Documents() []models.DocumentInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DocumentInfo, 0, len(s.documents))
	for _, d := range s.documents {
		out = append(out, d.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// DocumentData returns the stored bytes of a document.
func (s *Store) DocumentData(id int64) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, false
	}
	return d.data, true
}

func (s *Store) DeleteDocument(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return false
	}
	delete(s.documents, id)
	return true
}
