// Package idgen provides identifier generators for records rebuilt from a
// shared link. Decoders never trust identifiers carried in a URL for records
// that only need to be unique within one session, so they mint new ones.
package idgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers. Generators must be safe for
// concurrent use.
type Generator func() string

// NanoID returns a Generator of random base-36 identifiers of the given length.
func NanoID(length int) Generator {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	return func() string {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		for i := range buf {
			buf[i] = alphabet[int(buf[i])%len(alphabet)]
		}
		return string(buf)
	}
}

// UUIDv7 returns a Generator of RFC 9562 version 7 UUID strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed prepends prefix to every identifier produced by gen.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Sequence returns a Generator of "<prefix>1", "<prefix>2", ... Useful where
// output must be reproducible, such as fixtures and tests.
func Sequence(prefix string) Generator {
	var n atomic.Int64
	return func() string {
		return prefix + strconv.FormatInt(n.Add(1), 10)
	}
}

// Default is used by decoders that were not given a Generator.
var Default Generator = NanoID(9)

// Generator names accepted by ByName.
const (
	NameNanoID   = "nanoid"
	NameUUIDv7   = "uuidv7"
	NameSequence = "sequence"
)

// ErrUnknown is returned by ByName for a name it does not know.
var ErrUnknown = errors.New("idgen: unknown generator")

// ByName returns the named generator. The empty name is Default.
func ByName(name string) (Generator, error) {
	switch name {
	case "":
		return Default, nil
	case NameNanoID:
		return NanoID(9), nil
	case NameUUIDv7:
		return UUIDv7(), nil
	case NameSequence:
		return Sequence(""), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// Or returns gen, or Default when gen is nil.
func Or(gen Generator) Generator {
	if gen == nil {
		return Default
	}
	return gen
}
