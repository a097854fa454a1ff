package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu    sync.Mutex
	mono  io.Reader
	epoch = time.Unix(0, 0)
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID stamped with t. Trades imported from a broker are
// stamped with their entry time so journal ids sort in trading order. Times
// outside the ULID range (before 1970, after year 10889) are clamped to it.
func NewAt(t time.Time) string {
	ms := stamp(t)

	mu.Lock()
	defer mu.Unlock()

	v, err := ulid.New(ms, mono)
	if err != nil {
		// Monotonic entropy only fails when a millisecond overflows; fall back
		// to fresh entropy rather than returning an empty id.
		v = ulid.MustNew(ms, cryptoRand.Reader)
	}
	return v.String()
}

func stamp(t time.Time) uint64 {
	if t.Before(epoch) {
		return 0
	}
	if t.After(ulid.Time(ulid.MaxTime())) {
		return ulid.MaxTime()
	}
	return ulid.Timestamp(t)
}

// Time extracts the timestamp encoded in a ULID string.
func Time(s string) (time.Time, error) {
	v, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(v.Time()), nil
}
