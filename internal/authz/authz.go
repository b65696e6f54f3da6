// Package authz is the external policy port: who may validate credits and
// who may certify facilities. Governance of these lists is deliberately
// outside the registry; the engine only asks yes/no questions.
package authz

import (
	"context"

	id "terraspark/pkg/domain"
)

// Policy answers authorization questions before validate and certify run.
type Policy interface {
	IsAuthorizedValidator(ctx context.Context, identity id.AccountID) bool
	IsAuthorizedToCertify(ctx context.Context, identity id.AccountID) bool
}

// AllowAll authorizes every identity. Development wiring; preserves the
// original "anyone may validate" behavior when no policy is configured.
type AllowAll struct{}

func (AllowAll) IsAuthorizedValidator(context.Context, id.AccountID) bool { return true }
func (AllowAll) IsAuthorizedToCertify(context.Context, id.AccountID) bool { return true }

// StaticPolicy authorizes from fixed allowlists. An empty list leaves the
// corresponding operation open rather than locking everyone out, so partial
// configuration stays usable.
type StaticPolicy struct {
	validators map[id.AccountID]struct{}
	certifiers map[id.AccountID]struct{}
}

// NewStaticPolicy builds a policy from allowlisted account IDs. Entries that
// fail to parse are skipped.
func NewStaticPolicy(validators, certifiers []string) *StaticPolicy {
	return &StaticPolicy{
		validators: toSet(validators),
		certifiers: toSet(certifiers),
	}
}

func toSet(raw []string) map[id.AccountID]struct{} {
	if len(raw) == 0 {
		return nil
	}
	set := make(map[id.AccountID]struct{}, len(raw))
	for _, s := range raw {
		account, err := id.ParseAccountID(s)
		if err != nil {
			continue
		}
		set[account] = struct{}{}
	}
	return set
}

func (p *StaticPolicy) IsAuthorizedValidator(_ context.Context, identity id.AccountID) bool {
	if p.validators == nil {
		return true
	}
	_, ok := p.validators[identity]
	return ok
}

func (p *StaticPolicy) IsAuthorizedToCertify(_ context.Context, identity id.AccountID) bool {
	if p.certifiers == nil {
		return true
	}
	_, ok := p.certifiers[identity]
	return ok
}
