package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	trackingPrefix    = "ZAP"
	trackingSuffixLen = 6
)

// NewTrackingID returns ZAP, the booking time in unix milliseconds, and six
// random upper-case characters.
func NewTrackingID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:trackingSuffixLen]
	return trackingPrefix + strconv.FormatInt(now.UnixMilli(), 10) + strings.ToUpper(suffix)
}
