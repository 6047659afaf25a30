// Package idx mints and parses the prefixed ULIDs used as primary keys,
// for example "role_01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV". IDs of one kind sort by
// creation time.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero is the empty ID.
const Zero ID = ""

// Prefix is the entity kind in front of the separator.
type Prefix string

const (
	PrefixBusiness     Prefix = "biz"
	PrefixUser         Prefix = "usr"
	PrefixRole         Prefix = "role"
	PrefixRefreshToken Prefix = "rt"
	PrefixRequest      Prefix = "req"
)

const sep = "_"

var ErrInvalid = errors.New("idx: invalid id")

// entropy is shared by every caller. MonotonicEntropy is not safe for
// concurrent use, so reads go through mu.
var (
	mu      sync.Mutex
	entropy = sync.OnceValue(func() *ulid.MonotonicEntropy {
		return ulid.Monotonic(rand.Reader, 0)
	})
)

// New mints an ID of kind p stamped with the current time.
func New(p Prefix) ID {
	return NewAt(p, time.Now().UTC())
}

// NewAt mints an ID of kind p stamped with t. IDs minted within the same
// millisecond still increase.
func NewAt(p Prefix, t time.Time) ID {
	src := entropy()
	mu.Lock()
	u := ulid.MustNew(ulid.Timestamp(t), src)
	mu.Unlock()
	return ID(string(p) + sep + u.String())
}

// Parse accepts s only when it is a well formed ID of kind p.
func Parse(p Prefix, s string) (ID, error) {
	s = strings.TrimSpace(s)
	kind, body, ok := strings.Cut(s, sep)
	if !ok || Prefix(kind) != p {
		return Zero, ErrInvalid
	}
	if _, err := ulid.ParseStrict(body); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

// MustParse is Parse for literals in tests.
func MustParse(p Prefix, s string) ID {
	id, err := Parse(p, s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) IsZero() bool   { return id == Zero }
func (id ID) String() string { return string(id) }

// Prefix is the kind of id, empty when it has no separator.
func (id ID) Prefix() Prefix {
	kind, _, _ := strings.Cut(string(id), sep)
	if kind == string(id) {
		return ""
	}
	return Prefix(kind)
}

// Time is the creation time embedded in id, or the zero time when id does
// not parse.
func (id ID) Time() time.Time {
	_, body, ok := strings.Cut(string(id), sep)
	if !ok {
		return time.Time{}
	}
	u, err := ulid.ParseStrict(body)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}

// Compare orders IDs lexically, which for one kind is creation order.
func Compare(a, b ID) int { return strings.Compare(string(a), string(b)) }
