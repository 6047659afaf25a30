package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New(idx.PrefixRole)
	require.NotEmpty(t, id.String())
	require.Equal(t, idx.PrefixRole, id.Prefix())

	parsed, err := idx.Parse(idx.PrefixRole, id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
	require.False(t, id.IsZero())
}

func TestParse_WrongPrefix(t *testing.T) {
	id := idx.New(idx.PrefixUser)

	_, err := idx.Parse(idx.PrefixRole, id.String())
	require.ErrorIs(t, err, idx.ErrInvalid)

	_, err = idx.Parse(idx.PrefixUser, "usr_nope")
	require.ErrorIs(t, err, idx.ErrInvalid)

	_, err = idx.Parse(idx.PrefixUser, "")
	require.ErrorIs(t, err, idx.ErrInvalid)
}

func TestOrdering(t *testing.T) {
	a := idx.NewAt(idx.PrefixRole, time.Unix(1, 0).UTC())
	b := idx.NewAt(idx.PrefixRole, time.Unix(2, 0).UTC())

	require.Equal(t, -1, idx.Compare(a, b))
	require.Equal(t, 1, idx.Compare(b, a))
	require.Equal(t, 0, idx.Compare(a, a))
}

func TestTimeExtraction(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(idx.PrefixBusiness, tm)

	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
	require.True(t, idx.Zero.Time().IsZero())
}

func TestMustParse(t *testing.T) {
	id := idx.MustParse(idx.PrefixRole, "role_01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
	require.Equal(t, idx.PrefixRole, id.Prefix())

	require.Panics(t, func() { idx.MustParse(idx.PrefixRole, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV") })
}

func TestNew_ConcurrentUnique(t *testing.T) {
	const workers, each = 8, 200

	var (
		mu   sync.Mutex
		seen = make(map[idx.ID]struct{}, workers*each)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				id := idx.New(idx.PrefixUser)
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, workers*each)
}
