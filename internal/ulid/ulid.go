// Package ulid wraps github.com/oklog/ulid/v2 with prefixed identifiers and
// database/json integration. Prefixes make an ID's entity readable at a
// glance ("proj-01H..." vs "asmt-01H...") while the ULID part keeps primary
// keys lexicographically sortable by creation time.
package ulid

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes used across gitsage.
const (
	PrefixProject    = "proj"
	PrefixAssessment = "asmt"
	PrefixSuggestion = "sugg"

	// PrefixSeparator sits between the prefix and the ULID body.
	PrefixSeparator = "-"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex

	// Nil is the zero ULID, useful for presence checks.
	Nil = ULID{}
)

// ULID wraps ulid.ULID with an optional entity prefix.
type ULID struct {
	ulid.ULID
	prefix string
}

// Generate creates a new unprefixed ULID at the current time.
func Generate() ULID {
	return NewWithTime(time.Now())
}

// GenerateWithPrefix creates a new ULID at the current time carrying the
// given entity prefix.
func GenerateWithPrefix(prefix string) ULID {
	id := NewWithTime(time.Now())
	id.prefix = prefix
	return id
}

// NewWithTime creates a ULID for a specific timestamp. Entropy is monotonic,
// so IDs created within the same millisecond still sort in creation order.
func NewWithTime(t time.Time) ULID {
	entropyLock.Lock()
	id := ulid.MustNew(ulid.Timestamp(t), entropy)
	entropyLock.Unlock()
	return ULID{ULID: id}
}

// Parse accepts both plain ULIDs and prefixed ones ("proj-01AN4Z07BY...").
func Parse(id string) (ULID, error) {
	raw := id
	var prefix string
	if i := strings.Index(id, PrefixSeparator); i >= 0 {
		prefix = id[:i]
		raw = id[i+1:]
	}

	parsed, err := ulid.Parse(raw)
	if err != nil {
		return ULID{}, fmt.Errorf("parsing ulid %q: %w", id, err)
	}
	return ULID{ULID: parsed, prefix: prefix}, nil
}

// Validate reports whether id is a well-formed plain or prefixed ULID.
func Validate(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// IsZero reports whether the ULID is the zero value.
func (u ULID) IsZero() bool {
	return u.ULID == (ulid.ULID{})
}

// Prefix returns the entity prefix, which may be empty.
func (u ULID) Prefix() string {
	return u.prefix
}

// String renders the ULID as "prefix-body", or just the body when there is
// no prefix.
func (u ULID) String() string {
	if u.prefix != "" {
		return u.prefix + PrefixSeparator + u.ULID.String()
	}
	return u.ULID.String()
}

// RawString renders the ULID body without any prefix.
func (u ULID) RawString() string {
	return u.ULID.String()
}

// Time returns the timestamp embedded in the ULID.
func (u ULID) Time() time.Time {
	return ulid.Time(u.ULID.Time())
}

// MarshalJSON renders the ULID as a JSON string.
func (u ULID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON parses a JSON string into the ULID.
func (u *ULID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Value stores the ULID as its string form.
func (u ULID) Value() (driver.Value, error) {
	return u.String(), nil
}

// Scan reads a ULID from a string or byte slice column.
func (u *ULID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		parsed, err := Parse(src)
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	case []byte:
		parsed, err := Parse(string(src))
		if err != nil {
			return err
		}
		*u = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into ULID", src)
}

// ProjectID generates a new project identifier.
func ProjectID() string {
	return GenerateWithPrefix(PrefixProject).String()
}

// AssessmentID generates a new impact assessment identifier.
func AssessmentID() string {
	return GenerateWithPrefix(PrefixAssessment).String()
}

// SuggestionID generates a new commit suggestion identifier.
func SuggestionID() string {
	return GenerateWithPrefix(PrefixSuggestion).String()
}
