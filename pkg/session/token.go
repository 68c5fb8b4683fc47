package session

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var segmentParser = jwt.NewParser()

// ExpiresAt decodes the exp claim of token without verifying its signature.
// Anything malformed (segment count, base64url, JSON, exp) yields false.
func ExpiresAt(token string) (time.Time, bool) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return time.Time{}, false
	}

	payload, err := segmentParser.DecodeSegment(segments[1])
	if err != nil {
		return time.Time{}, false
	}

	var claims jwt.MapClaims
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&claims); err != nil {
		return time.Time{}, false
	}

	// GetExpirationTime rejects non-numeric exp values but truncates to
	// jwt.TimePrecision, so the fractional part is read from the raw claim.
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return time.Time{}, false
	}
	number, ok := claims["exp"].(json.Number)
	if !ok {
		return time.Time{}, false
	}
	seconds, err := number.Float64()
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, false
	}
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)), true
}

// IsValid reports whether the exp claim of token is strictly after now taken
// in whole seconds. The signature is not checked; the backend remains the authority on that.
func IsValid(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && exp.After(time.Unix(now.Unix(), 0))
}
