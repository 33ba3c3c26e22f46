package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/booking/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.Len(t, id.String(), 26)
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(s)
		require.ErrorIs(t, err, idx.ErrInvalid, s)
	}
	require.Panics(t, func() { idx.MustParse("nope") })
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())

	require.Equal(t, -1, idx.Compare(a, b))
	require.Equal(t, 1, idx.Compare(b, a))
	require.Equal(t, 0, idx.Compare(a, a))

	// Same millisecond still orders.
	now := time.Now().UTC()
	c, d := idx.NewAt(now), idx.NewAt(now)
	require.Equal(t, -1, idx.Compare(c, d))
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	require.WithinDuration(t, tm, idx.NewAt(tm).Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}

func TestScanAndValue(t *testing.T) {
	id := idx.New()

	v, err := id.Value()
	require.NoError(t, err)
	require.Equal(t, id.String(), v)

	var got idx.ID
	require.NoError(t, got.Scan([]byte(id.String())))
	require.Equal(t, id, got)

	require.NoError(t, got.Scan(nil))
	require.True(t, got.IsZero())

	require.Error(t, got.Scan(42))
}
