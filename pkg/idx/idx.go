package idx

import (
	"crypto/rand"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ID is a ULID in its canonical 26 character form. Users, groups and
// memberships are all keyed by it.
type ID string

// Zero is the empty ID. It never identifies a stored row.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	genOnce sync.Once
	genMu   sync.Mutex
	entropy *ulid.MonotonicEntropy
)

func initEntropy() {
	entropy = ulid.Monotonic(rand.Reader, 0)
}

// New returns a new ID for the current UTC time. IDs created within the
// same millisecond stay strictly increasing.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at t. Tests use it to control ordering.
func NewAt(t time.Time) ID {
	genOnce.Do(initEntropy)

	genMu.Lock()
	defer genMu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Parse validates s as a ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return Zero, ErrInvalid
	}
	return ID(u.String()), nil
}

// MustParse parses or panics. Useful for hard-coded IDs in tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) IsZero() bool { return id == Zero }

func (id ID) String() string { return string(id) }

// Time extracts the embedded timestamp, or the zero time for invalid IDs.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// Compare orders IDs lexically, which for ULIDs is creation order.
func Compare(a, b ID) int {
	return strings.Compare(string(a), string(b))
}

// Value implements driver.Valuer.
func (id ID) Value() (driver.Value, error) {
	return string(id), nil
}

// Scan implements sql.Scanner.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*id = ID(v)
	case []byte:
		*id = ID(v)
	case nil:
		*id = Zero
	default:
		return fmt.Errorf("idx: cannot scan %T into ID", src)
	}
	return nil
}
