// Package ident derives the stable identifiers used for Parameter Store paths
// and DynamoDB keys. An identifier has the form {client_tag}-{label}-{hash8},
// where the label encodes the entity kind ("cid" for clients, "con" for
// connections, "pipe" for pipelines, the environment tag for environments) and
// hash8 is a truncated digest of the entity's seed fields. The same seed
// always produces the same identifier, which is what makes repeated
// deployments overwrite rather than duplicate remote state.
package ident

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "github.com/specdata/deploy-master/internal/errors"
)

// Entity kind labels. Environments use their own tag as the label.
const (
	LabelClient     = "cid"
	LabelConnection = "con"
	LabelPipeline   = "pipe"
)

// hashLen is the number of hex characters kept from the digest. Eight hex
// characters give 32 bits per namespace, plenty for the tens of entities a
// client configuration holds; the Registry catches the unlucky case.
const hashLen = 8

// New derives a deterministic identifier from the client tag, the entity
// label, and the entity's seed fields. Seed fields are joined with a NUL
// separator before hashing so ("ab","c") and ("a","bc") do not collide.
func New(tag, label string, seed ...string) string {
	sum := md5.Sum([]byte(strings.Join(seed, "\x00")))
	return fmt.Sprintf("%s-%s-%s", tag, label, hex.EncodeToString(sum[:])[:hashLen])
}

// Registry hands out identifiers for a single run and rejects the case where
// two distinct seeds truncate to the same identifier. Requesting the same
// seed twice returns the same identifier.
type Registry struct {
	seeds map[string]string // id -> seed key
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{seeds: make(map[string]string)}
}

// New derives an identifier and records it. It fails if the identifier was
// already assigned to a different seed in this run.
func (r *Registry) New(tag, label string, seed ...string) (string, error) {
	id := New(tag, label, seed...)
	if err := r.claim(id, strings.Join(seed, "\x00")); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Registry) claim(id, seedKey string) error {
	if prev, ok := r.seeds[id]; ok && prev != seedKey {
		return fmt.Errorf("%w: id %q already assigned to a different entity", apperrors.ErrIdentifierCollision, id)
	}
	r.seeds[id] = seedKey
	return nil
}
