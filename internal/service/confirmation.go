package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository"
)

// ConfirmEntity confirms the whole reserve, or one of its lines. Confirming
// the last unconfirmed line promotes the reserve to CONFIRMED.
func (s *ReserveService) ConfirmEntity(ctx context.Context, entityType domain.EntityType, reserveID, entityID uint) (domain.Reserve, error) {
	var (
		out      domain.Reserve
		promoted bool
	)
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}
		before := r.Status

		switch entityType {
		case domain.EntityTypeReserve:
			if err = tx.ConfirmAllLines(ctx, r.ID); err != nil {
				return fmt.Errorf("tx.ConfirmAllLines -> %w", err)
			}
			markAllConfirmed(&r)
			r.Status = domain.ReserveConfirmed
		case domain.EntityTypeTent, domain.EntityTypeProduct, domain.EntityTypeExperience:
			if !markLineConfirmed(&r, entityType, entityID) {
				return domain.NotFound(domain.EntityLineItem, entityID)
			}
			if err = tx.ConfirmLine(ctx, entityType, r.ID, entityID); err != nil {
				return fmt.Errorf("tx.ConfirmLine -> %w", err)
			}
			if r.AllLinesConfirmed() {
				r.Status = domain.ReserveConfirmed
			}
		default:
			return domain.BadRequest(domain.EntityReserve, "unknown entity type", entityType)
		}

		if r.Status != before {
			if err = tx.UpdateReserveHeader(ctx, r); err != nil {
				return fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
			}
			promoted = r.Status == domain.ReserveConfirmed
		}
		out = r

		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	if promoted {
		s.effects.confirmed(ctx, out)
	}

	return out, nil
}

func markAllConfirmed(r *domain.Reserve) {
	for i := range r.Tents {
		r.Tents[i].Confirmed = true
	}
	for i := range r.Products {
		r.Products[i].Confirmed = true
	}
	for i := range r.Experiences {
		r.Experiences[i].Confirmed = true
	}
}

func markLineConfirmed(r *domain.Reserve, kind domain.EntityType, lineID uint) bool {
	switch kind {
	case domain.EntityTypeTent:
		for i := range r.Tents {
			if r.Tents[i].ID == lineID {
				r.Tents[i].Confirmed = true
				return true
			}
		}
	case domain.EntityTypeProduct:
		for i := range r.Products {
			if r.Products[i].ID == lineID {
				r.Products[i].Confirmed = true
				return true
			}
		}
	case domain.EntityTypeExperience:
		for i := range r.Experiences {
			if r.Experiences[i].ID == lineID {
				r.Experiences[i].Confirmed = true
				return true
			}
		}
	}

	return false
}

// CancelReserve releases the reserve's tents and gives product quantities
// back to stock. Discount code and promotion stock is not restored.
func (s *ReserveService) CancelReserve(ctx context.Context, reserveID uint, reason string) (domain.Reserve, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "cancel reason is required", reserveID)
	}

	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}

		if err = releaseProducts(ctx, tx, r.Products); err != nil {
			return err
		}

		r.Status = domain.ReserveCanceled
		r.CanceledReason = &reason
		if err = tx.UpdateReserveHeader(ctx, r); err != nil {
			return fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
		}
		out = r

		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.effects.canceled(ctx, out)

	return out, nil
}

func (s *ReserveService) CompleteReserve(ctx context.Context, reserveID uint) (domain.Reserve, error) {
	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if r.Status != domain.ReserveConfirmed {
			return domain.BadRequest(domain.EntityReserve, "only confirmed reserves can be completed", r.ID)
		}

		r.Status = domain.ReserveComplete
		if err = tx.UpdateReserveHeader(ctx, r); err != nil {
			return fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
		}
		out = r

		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	// COMPLETE no longer blocks, so the tents are free again.
	s.effects.updated(ctx, tentRanges(out))

	return out, nil
}
