// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateSecureOTP returns a random numeric code of the given length
func GenerateSecureOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		out[i] = byte('0' + n.Int64())
	}
	return string(out), nil
}

// HashOTP returns the hex SHA-256 digest stored in place of the raw code
func HashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}

// ValidateOTPAttempts limits reset attempts to 5 per hour per member.
// A nil Redis client disables the check.
func ValidateOTPAttempts(memberID string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	key := fmt.Sprintf("otp_attempts:%s", memberID)
	attempts, err := rdb.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), key, 1*time.Hour)
	}

	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}

// ClearOTPAttempts removes the attempt counter after a successful reset
func ClearOTPAttempts(memberID string, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	rdb.Del(context.Background(), fmt.Sprintf("otp_attempts:%s", memberID))
}
