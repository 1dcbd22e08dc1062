package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/SscSPs/trust_ledger_app/internal/apperrors"
	"github.com/SscSPs/trust_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/trust_ledger_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// complianceGuard blocks writes that would take a client or case below zero.
//
// The owning client and case rows are locked before their balances are read, and the caller
// inserts the entry in the same transaction, so two concurrent withdrawals against one client
// are serialised instead of both passing the check.
type complianceGuard struct {
	BaseService
}

func newComplianceGuard(base BaseService) *complianceGuard {
	return &complianceGuard{BaseService: base}
}

// owners holds the resolved client and case of an entry.
type owners struct {
	client *domain.Client
	kase   *domain.Case
}

// resolveOwners loads the entry's client, case and vendor, row-locking client then case when lock
// is set. A dangling reference or a case owned by another client is a validation error.
func resolveOwners(ctx context.Context, tx portsrepo.PartyRepository, entry domain.LedgerEntry, lock bool) (owners, error) {
	var o owners
	verr := &apperrors.ValidationError{}

	if entry.ClientID != nil {
		find := tx.FindClientByID
		if lock {
			find = tx.FindClientByIDForUpdate
		}
		client, err := find(ctx, *entry.ClientID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			verr.Add("clientID", "unknown client "+*entry.ClientID)
		case err != nil:
			return o, err
		default:
			o.client = client
		}
	}

	if entry.CaseID != nil {
		find := tx.FindCaseByID
		if lock {
			find = tx.FindCaseByIDForUpdate
		}
		kase, err := find(ctx, *entry.CaseID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			verr.Add("caseID", "unknown case "+*entry.CaseID)
		case err != nil:
			return o, err
		default:
			o.kase = kase
		}
	}

	if o.client != nil && o.kase != nil && o.kase.ClientID != o.client.ClientID {
		verr.Add("caseID", "case "+o.kase.CaseID+" does not belong to client "+o.client.ClientID)
	}

	if entry.VendorID != nil {
		if _, err := tx.FindVendorByID(ctx, *entry.VendorID); errors.Is(err, apperrors.ErrNotFound) {
			verr.Add("vendorID", "unknown vendor "+*entry.VendorID)
		} else if err != nil {
			return o, err
		}
	}

	return o, errOrNil(verr)
}

// Check validates a write against the locked balances it lowers. previous is the stored version of
// an entry being edited, nil for a new entry. Every client or case whose balance the write would
// reduce is checked, including one a credit is moved away from, and must not end below zero.
func (g *complianceGuard) Check(ctx context.Context, tx portsrepo.TxStore, entry domain.LedgerEntry, previous *domain.LedgerEntry) error {
	if _, err := resolveOwners(ctx, tx, entry, false); err != nil {
		return err
	}

	for _, sc := range loweredScopes(entry, previous) {
		if err := g.lockScope(ctx, tx, sc); err != nil {
			return err
		}
	}
	for _, sc := range loweredScopes(entry, previous) {
		if err := g.checkScope(ctx, tx, sc); err != nil {
			return err
		}
	}
	return nil
}

// scopeChange is the net effect of a write on one client or case balance.
type scopeChange struct {
	scope domain.BalanceScope
	id    string
	delta decimal.Decimal
}

// loweredScopes returns the scopes whose balance the write reduces, clients before cases and each
// group sorted by id, which is the order their rows are locked in.
func loweredScopes(entry domain.LedgerEntry, previous *domain.LedgerEntry) []scopeChange {
	versions := []domain.LedgerEntry{entry}
	if previous != nil {
		versions = append(versions, *previous)
	}

	var out []scopeChange
	for _, scope := range []domain.BalanceScope{domain.ScopeClient, domain.ScopeCase} {
		ids := make(map[string]bool)
		for _, v := range versions {
			if id := ownerID(v, scope); id != "" {
				ids[id] = true
			}
		}
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)

		for _, id := range sorted {
			delta := decimal.Zero
			if entry.BelongsTo(scope, id) {
				delta = delta.Add(entry.Contribution())
			}
			if previous != nil && previous.BelongsTo(scope, id) {
				delta = delta.Sub(previous.Contribution())
			}
			if delta.IsNegative() {
				out = append(out, scopeChange{scope: scope, id: id, delta: delta})
			}
		}
	}
	return out
}

func ownerID(e domain.LedgerEntry, scope domain.BalanceScope) string {
	switch scope {
	case domain.ScopeClient:
		return derefOr(e.ClientID, "")
	case domain.ScopeCase:
		return derefOr(e.CaseID, "")
	}
	return ""
}

func (g *complianceGuard) lockScope(ctx context.Context, tx portsrepo.PartyRepository, sc scopeChange) error {
	var err error
	if sc.scope == domain.ScopeClient {
		_, err = tx.FindClientByIDForUpdate(ctx, sc.id)
	} else {
		_, err = tx.FindCaseByIDForUpdate(ctx, sc.id)
	}
	return err
}

func (g *complianceGuard) checkScope(ctx context.Context, tx portsrepo.BalanceRepository, sc scopeChange) error {
	available, err := tx.SumBalance(ctx, sc.scope, sc.id)
	if err != nil {
		return err
	}
	requested := sc.delta.Neg()
	if requested.LessThanOrEqual(available) {
		return nil
	}

	g.LogWarn(ctx, "Compliance guard rejected write",
		slog.String("scope", string(sc.scope)),
		slog.String("id", sc.id),
		slog.String("available", available.StringFixed(2)),
		slog.String("requested", requested.StringFixed(2)))
	return &apperrors.InsufficientFundsError{
		EntityKind: string(sc.scope),
		EntityID:   sc.id,
		Available:  available,
		Requested:  requested,
		Shortfall:  requested.Sub(available),
	}
}
