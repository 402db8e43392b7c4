package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator mints ids for users, accounts, transactions, goals, cards
// and assets. ULIDs sort by creation time, so listing by id keeps entries
// made within the same second in insertion order.
type ULIDGenerator struct{}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a 26-character Crockford base32 ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
