package session

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NewClientToken returns a random UUID, or a session_<random>_<unix ms>
// token when the system random source fails.
func NewClientToken() string {
	id, err := uuid.NewRandom()
	if err != nil {
		return fallbackToken(time.Now())
	}
	return id.String()
}

func fallbackToken(now time.Time) string {
	return "session_" + strconv.FormatUint(rand.Uint64(), 36) + "_" + strconv.FormatInt(now.UnixMilli(), 10)
}
