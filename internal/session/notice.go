package session

import (
	"time"

	"github.com/google/uuid"
)

// NoticeKind distinguishes success from error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient user-facing notification. Instead of scheduling a
// removal timer per notice, each entry carries an expiry timestamp and the
// board prunes lazily whenever active notices are requested.
type Notice struct {
	ID        string
	Kind      NoticeKind
	Message   string
	ExpiresAt time.Time
}

// noticeBoard accumulates notices for one session. Not safe for concurrent
// use; the owning session serializes access.
type noticeBoard struct {
	ttl     time.Duration
	notices []Notice
}

func newNoticeBoard(ttl time.Duration) *noticeBoard {
	return &noticeBoard{ttl: ttl}
}

func (b *noticeBoard) push(now time.Time, kind NoticeKind, message string) {
	b.notices = append(b.notices, Notice{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		ExpiresAt: now.Add(b.ttl),
	})
}

// active drops expired notices and returns the survivors in push order.
// The result is a copy: frames hand it to callers that read it outside the
// session lock, so it must not alias the board's backing array.
func (b *noticeBoard) active(now time.Time) []Notice {
	kept := b.notices[:0]
	for _, n := range b.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	b.notices = kept

	out := make([]Notice, len(kept))
	copy(out, kept)
	return out
}
