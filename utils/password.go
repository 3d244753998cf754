// utils/password.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const passwordCharset = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random password of the given length drawn
// from an unambiguous character set
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = 10
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[n.Int64()]
	}
	return string(out), nil
}

// GenerateMemberID allocates an unused 6-digit public member id. It
// retries on collision against the users collection.
func GenerateMemberID(ctx context.Context, users *mongo.Collection) (string, error) {
	for attempt := 0; attempt < 20; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%06d", 100000+n.Int64())

		count, err := users.CountDocuments(ctx, bson.M{"userId": candidate})
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", errors.New("could not allocate a unique member id")
}
