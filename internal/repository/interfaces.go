package repository

import (
	"github.com/projectarcadia/portal/internal/model"
)

// MemberRepository is the auth-path view of the member table: hot reads
// behind a short cache, with explicit invalidation after writes.
type MemberRepository interface {
	Start() error
	Stop()
	Get(username string) *model.Member
	Invalidate(username string)
}
