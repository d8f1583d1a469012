// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat keeps the in-memory session collection in lockstep with the
// authoritative store.
package chat

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/holachat/holachat/internal/auth"
	"github.com/holachat/holachat/internal/cache"
	"github.com/holachat/holachat/internal/model"
	"github.com/holachat/holachat/internal/store"
)

// =============================================================================
// SYNCHRONIZER
// =============================================================================

// Synchronizer owns the session collection: an ordered list of sessions
// (most recently updated first) with at most one selected. All mutations go
// through the authoritative store before they are reflected in memory, so the
// collection never shows a write the store rejected.
type Synchronizer struct {
	mu    sync.Mutex
	store store.SessionStore
	snap  *cache.SnapshotCache
	gate  *auth.Gate

	sessions  []*model.ChatSession
	currentID string

	// appendLocks serializes message writes per session so concurrent
	// appends reach the store in call order.
	appendLocks map[string]*sync.Mutex

	onChange func()
	onStatus func(string)
}

// NewSynchronizer creates a synchronizer over the given store, snapshot
// cache, and identity gate. The cache may be nil; the collection then starts
// empty until Load hears back from the store.
func NewSynchronizer(st store.SessionStore, snap *cache.SnapshotCache, gate *auth.Gate) *Synchronizer {
	return &Synchronizer{
		store:       st,
		snap:        snap,
		gate:        gate,
		appendLocks: make(map[string]*sync.Mutex),
	}
}

// OnChange registers the sink notified after every collection change.
// The callback runs without the synchronizer lock held.
func (s *Synchronizer) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// OnStatus registers the sink for transient status lines about failed store
// writes. Those failures are never fatal, but they shouldn't be invisible.
func (s *Synchronizer) OnStatus(fn func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStatus = fn
}

// =============================================================================
// LOAD
// =============================================================================

// Load hydrates the collection for the signed-in identity. While the gate is
// still resolving it does nothing; with no identity it resets. Otherwise it
// paints the cached snapshot first, then fetches the authoritative session
// list and all messages in one batch, and replaces the collection wholesale:
// the store always wins over the cache. An empty account gets exactly one
// fresh session.
func (s *Synchronizer) Load(ctx context.Context) error {
	if s.gate.Loading() {
		return nil
	}
	owner := s.ownerID()
	if owner == "" {
		s.Reset()
		return nil
	}

	// Cache paint: show something immediately while the store answers.
	if s.snap != nil {
		if cached, err := s.snap.Read(owner); err == nil {
			s.mu.Lock()
			s.sessions = cached
			if s.currentID == "" && len(cached) > 0 {
				s.currentID = cached[0].ID
			}
			s.mu.Unlock()
			s.notify()
		} else if !errors.Is(err, cache.ErrNoSnapshot) {
			log.Printf("[chat] cache read: %v", err)
		}
	}

	records, err := s.store.ListSessions(ctx, owner)
	if err != nil {
		log.Printf("[chat] list sessions: %v", err)
		s.status("couldn't load sessions from the store")
		return err
	}

	if len(records) == 0 {
		rec, err := s.store.InsertSession(ctx, owner, model.DefaultTitle)
		if err != nil {
			log.Printf("[chat] create initial session: %v", err)
			s.status("couldn't create a session")
			return err
		}
		records = []store.SessionRecord{rec}
	}

	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	msgRecords, err := s.store.ListMessages(ctx, ids)
	if err != nil {
		log.Printf("[chat] list messages: %v", err)
		s.status("couldn't load messages from the store")
		return err
	}

	bySession := make(map[string][]*model.Message)
	for _, rec := range msgRecords {
		bySession[rec.SessionID] = append(bySession[rec.SessionID], messageFromRecord(rec))
	}

	sessions := make([]*model.ChatSession, 0, len(records))
	for _, rec := range records {
		sess := sessionFromRecord(rec)
		if msgs := bySession[rec.ID]; msgs != nil {
			sess.Messages = msgs
		}
		sessions = append(sessions, sess)
	}

	s.mu.Lock()
	s.sessions = sessions
	if s.findLocked(s.currentID) == nil {
		s.currentID = sessions[0].ID
	}
	s.mu.Unlock()

	s.writeSnapshot(owner)
	s.notify()
	return nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateSession inserts a fresh session at the front of the collection and
// selects it. When the currently selected session has no messages yet it is
// reused instead, so mashing "new chat" never piles up empty sessions.
// Without a signed-in identity this is a logged no-op.
func (s *Synchronizer) CreateSession(ctx context.Context) error {
	owner := s.ownerID()
	if owner == "" {
		log.Printf("[chat] create session: not signed in")
		return nil
	}

	s.mu.Lock()
	if cur := s.findLocked(s.currentID); cur != nil && cur.IsEmpty() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	rec, err := s.store.InsertSession(ctx, owner, model.DefaultTitle)
	if err != nil {
		log.Printf("[chat] create session: %v", err)
		s.status("couldn't create a session")
		return err
	}

	sess := sessionFromRecord(rec)
	s.mu.Lock()
	s.sessions = append([]*model.ChatSession{sess}, s.sessions...)
	s.currentID = sess.ID
	s.mu.Unlock()

	s.writeSnapshot(owner)
	s.notify()
	return nil
}

// SwitchSession changes the selection to the given session. It touches no
// message history and never hits the store; it returns false if the session
// isn't in the collection.
func (s *Synchronizer) SwitchSession(id string) bool {
	s.mu.Lock()
	if s.findLocked(id) == nil {
		s.mu.Unlock()
		return false
	}
	changed := s.currentID != id
	s.currentID = id
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return true
}

// AppendMessage appends a message to the currently selected session.
// Without a selection or identity it is a silent no-op.
func (s *Synchronizer) AppendMessage(ctx context.Context, role model.Role, content string) error {
	return s.AppendMessageTo(ctx, s.CurrentID(), role, content)
}

// AppendMessageTo appends a message to a specific session. Provider replies
// go through here so a response always completes into the session that asked
// for it, even if the user has switched away.
//
// The store write happens first; only a successful write is reflected in
// memory. The first user message of a session also derives the session title,
// which is persisted in the background since it is cosmetic.
func (s *Synchronizer) AppendMessageTo(ctx context.Context, sessionID string, role model.Role, content string) error {
	if sessionID == "" || s.ownerID() == "" {
		return nil
	}

	lock := s.appendLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.InsertMessage(ctx, sessionID, role.String(), content)
	if err != nil {
		log.Printf("[chat] append message: %v", err)
		s.status("message not saved")
		return err
	}

	var derivedTitle string
	s.mu.Lock()
	sess := s.findLocked(sessionID)
	if sess == nil {
		// Deleted while the write was in flight; the row is gone with it.
		s.mu.Unlock()
		log.Printf("[chat] append message: session %s no longer present", sessionID)
		return nil
	}
	sess.AddMessage(messageFromRecord(rec))
	s.moveToFrontLocked(sessionID)
	if role == model.RoleUser && sess.MessageCount() == 1 && sess.Title == model.DefaultTitle {
		derivedTitle = model.DeriveTitle(content)
		sess.Title = derivedTitle
	}
	s.mu.Unlock()

	if derivedTitle != "" {
		go func() {
			if err := s.store.UpdateSessionTitle(context.Background(), sessionID, derivedTitle); err != nil {
				log.Printf("[chat] update title: %v", err)
			}
		}()
	}

	s.writeSnapshot(s.ownerID())
	s.notify()
	return nil
}

// DeleteSession removes a session from the store and the collection. If the
// selected session was removed, the new first session is selected; deleting
// the last session synthesizes a fresh one so the collection is never empty.
func (s *Synchronizer) DeleteSession(ctx context.Context, id string) error {
	owner := s.ownerID()
	if owner == "" {
		return nil
	}

	if err := s.store.DeleteSession(ctx, id); err != nil {
		log.Printf("[chat] delete session: %v", err)
		s.status("couldn't delete the session")
		return err
	}

	s.mu.Lock()
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	s.sessions = kept
	delete(s.appendLocks, id)
	removedCurrent := s.currentID == id
	if removedCurrent {
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		} else {
			s.currentID = ""
		}
	}
	empty := len(s.sessions) == 0
	s.mu.Unlock()

	if empty {
		return s.CreateSession(ctx)
	}

	s.writeSnapshot(owner)
	s.notify()
	return nil
}

// Reset drops the in-memory collection and the cached snapshot. Called when
// the identity goes away.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.sessions = nil
	s.currentID = ""
	s.appendLocks = make(map[string]*sync.Mutex)
	s.mu.Unlock()

	if s.snap != nil {
		if err := s.snap.Clear(); err != nil {
			log.Printf("[chat] clear cache: %v", err)
		}
	}
	s.notify()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sessions returns the ordered collection. The returned slice is a copy but
// shares the session values; callers treat them as read-only.
func (s *Synchronizer) Sessions() []*model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.ChatSession, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Current returns the selected session, or nil when nothing is selected.
func (s *Synchronizer) Current() *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(s.currentID)
}

// CurrentID returns the selected session's ID, or "".
func (s *Synchronizer) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Synchronizer) ownerID() string {
	if id := s.gate.Current(); id != nil {
		return id.ID
	}
	return ""
}

// findLocked returns the session with the given ID. Caller holds s.mu.
func (s *Synchronizer) findLocked(id string) *model.ChatSession {
	if id == "" {
		return nil
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// moveToFrontLocked keeps the most-recently-updated ordering after an
// append. Caller holds s.mu.
func (s *Synchronizer) moveToFrontLocked(id string) {
	for i, sess := range s.sessions {
		if sess.ID == id {
			if i > 0 {
				copy(s.sessions[1:i+1], s.sessions[:i])
				s.sessions[0] = sess
			}
			return
		}
	}
}

// appendLock returns the per-session mutex, creating it on first use.
func (s *Synchronizer) appendLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.appendLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.appendLocks[sessionID] = lock
	}
	return lock
}

func (s *Synchronizer) writeSnapshot(owner string) {
	if s.snap == nil || owner == "" {
		return
	}
	s.mu.Lock()
	sessions := make([]*model.ChatSession, len(s.sessions))
	copy(sessions, s.sessions)
	s.mu.Unlock()

	if err := s.snap.Write(owner, sessions); err != nil {
		log.Printf("[chat] cache write: %v", err)
	}
}

func (s *Synchronizer) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *Synchronizer) status(msg string) {
	s.mu.Lock()
	fn := s.onStatus
	s.mu.Unlock()
	if fn != nil {
		fn(msg)
	}
}

// sessionFromRecord converts a store row into the in-memory session shape.
func sessionFromRecord(rec store.SessionRecord) *model.ChatSession {
	return &model.ChatSession{
		ID:        rec.ID,
		Title:     rec.Title,
		Messages:  make([]*model.Message, 0),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// messageFromRecord converts a store row into the in-memory message shape.
func messageFromRecord(rec store.MessageRecord) *model.Message {
	return &model.Message{
		ID:        rec.ID,
		Role:      model.Role(rec.Role),
		Content:   rec.Content,
		Timestamp: rec.CreatedAt,
	}
}
