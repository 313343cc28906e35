package auth

import (
	"time"
)

var CheckClaims = checkClaims

func OverloadTimeNow(o func() time.Time) func() {
	timeNowRef := timeNow
	timeNow = o
	return func() { timeNow = timeNowRef }
}
