package revision

import (
	"github.com/opencontainers/go-digest"

	"github.com/joshuapare/ptkit/pkg/ptf"
)

// Identity holds content digests of a session. Two sessions with equal
// Cleartext digests compare as unchanged.
type Identity struct {
	Raw       digest.Digest
	Cleartext digest.Digest
}

// Identify computes the digests of r.
func Identify(r *ptf.Reader) (Identity, error) {
	clear, err := r.Cleartext()
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		Raw:       digest.FromBytes(r.Raw()),
		Cleartext: digest.FromBytes(clear),
	}, nil
}
