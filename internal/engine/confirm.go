package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amlakhub/listingbot/internal/gateway"
	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/resolver"
	"github.com/amlakhub/listingbot/internal/state"
	"github.com/amlakhub/listingbot/internal/store"
	"github.com/amlakhub/listingbot/internal/taxonomy"
)

var confirmWords = map[string]bool{
	"تایید": true,
	"تأیید": true,
	"بله":   true,
	"اره":   true,
	"آره":   true,
	"ok":    true,
	"yes":   true,
}

var cancelWords = map[string]bool{
	"انصراف": true,
	"لغو":    true,
	"cancel": true,
}

// handleConfirming runs one turn of the confirm/edit sub-flow: confirm
// finalizes, cancel discards, ویرایش opens the edit grammar, and anything
// else is parsed as an edit request or bounced back to the choice set.
func (e *Engine) handleConfirming(ctx context.Context, userID, chatID int64, conv state.Conversation, raw string) error {
	clean, _ := taxonomy.DecodeButton(raw)
	word := strings.ToLower(strings.TrimSpace(clean))

	switch {
	case confirmWords[word]:
		return e.finalize(ctx, userID, chatID, conv)
	case cancelWords[word]:
		e.state.Clear(userID)
		e.send(ctx, chatID, msgCancelled, nil)
		return nil
	case word == "ویرایش" || word == "edit":
		e.state.SetMode(userID, listing.Editing)
		e.state.SetPending(userID, "")
		e.send(ctx, chatID, msgEditHelp, nil)
		return nil
	}

	// A bare label was chosen while editing; this input answers it.
	if conv.Mode == listing.Editing && conv.Pending != "" {
		d, ok := taxonomy.ByName(conv.Pending)
		if ok {
			targeted := &listing.Record{}
			if !d.Assign(targeted, clean) {
				e.send(ctx, chatID, d.Invalid+"\n\n"+d.QuestionFor(&conv.Record), d.Keyboard)
				return nil
			}
			e.state.SetPending(userID, "")
			merged := e.state.Merge(userID, targeted)
			return e.resummarize(ctx, userID, chatID, &merged.Record)
		}
	}

	// «label: value» works in both confirming and editing.
	if f, value, ok := taxonomy.ParseEdit(clean); ok {
		d, known := taxonomy.ByName(f)
		if !known {
			e.send(ctx, chatID, msgEditHelp, nil)
			return nil
		}
		targeted := &listing.Record{}
		if !d.Assign(targeted, value) {
			e.send(ctx, chatID, d.Invalid, nil)
			return nil
		}
		merged := e.state.Merge(userID, targeted)
		return e.resummarize(ctx, userID, chatID, &merged.Record)
	}

	if conv.Mode == listing.Editing {
		// A bare label starts a targeted re-ask for that one field.
		if f, ok := taxonomy.FieldByLabel(clean); ok {
			if d, known := taxonomy.ByName(f); known {
				e.state.SetPending(userID, f)
				e.send(ctx, chatID, d.QuestionFor(&conv.Record), d.Keyboard)
				return nil
			}
		}
		e.send(ctx, chatID, msgEditHelp, nil)
		return nil
	}

	// Unrecognized input while confirming: re-show the choices, nothing moves.
	e.send(ctx, chatID, conv.Record.Summary()+"\n\n"+msgConfirmHelp, confirmKeyboard)
	return nil
}

// resummarize re-runs the resolver after an edit. Changing an early answer
// (say sale to rent) can make new fields required, in which case the
// conversation drops back to collecting; otherwise the updated summary is
// shown for confirmation again.
func (e *Engine) resummarize(ctx context.Context, userID, chatID int64, rec *listing.Record) error {
	return e.apply(ctx, userID, chatID, resolver.Next(rec))
}

// finalize charges one credit and persists the listing. The confirmation
// token makes repeat confirms idempotent, and a failed persist refunds the
// debit and keeps the conversation so the user can try again.
func (e *Engine) finalize(ctx context.Context, userID, chatID int64, conv state.Conversation) error {
	if _, found, err := e.listings.ListingByToken(ctx, conv.Token); err != nil {
		return fmt.Errorf("check confirmation token: %w", err)
	} else if found {
		// Already persisted by an earlier confirm; never charge twice.
		e.state.Clear(userID)
		e.send(ctx, chatID, msgSuccess, nil)
		return nil
	}

	debitTx, err := e.ledger.Debit(ctx, userID, CreditCost)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientCredit) {
			e.send(ctx, chatID, msgInsufficientCredit, nil)
			return nil
		}
		return fmt.Errorf("debit credit: %w", err)
	}
	e.publish(gateway.SubjectCreditDebited, map[string]any{
		"user_id":        userID,
		"amount":         CreditCost,
		"transaction_id": debitTx,
	})

	listingID, err := e.listings.CreateListing(ctx, userID, conv.Token, &conv.Record)
	if errors.Is(err, store.ErrAlreadyFinalized) {
		// Lost a race against an earlier persist of the same token. The
		// listing exists, so this turn's debit buys nothing: give it back.
		if rerr := e.ledger.Credit(ctx, userID, CreditCost, debitTx); rerr != nil {
			e.logger.Error("refund failed", "user_id", userID, "debit_tx", debitTx, "error", rerr)
		}
		e.state.Clear(userID)
		e.send(ctx, chatID, msgSuccess, nil)
		return nil
	}
	if err != nil {
		e.logger.Error("persist failed, refunding", "user_id", userID, "error", err)
		if rerr := e.ledger.Credit(ctx, userID, CreditCost, debitTx); rerr != nil {
			// The debit stands with no listing behind it. Loud log so the
			// ledger can be reconciled by hand.
			e.logger.Error("refund failed", "user_id", userID, "debit_tx", debitTx, "error", rerr)
		} else {
			e.publish(gateway.SubjectCreditRefunded, map[string]any{
				"user_id":        userID,
				"amount":         CreditCost,
				"transaction_id": debitTx,
			})
		}
		// State stays in confirming so another تایید retries cleanly.
		e.send(ctx, chatID, msgRetryLater, confirmKeyboard)
		return nil
	}

	e.state.Clear(userID)
	e.publish(gateway.SubjectListingCreated, map[string]any{
		"listing_id": listingID,
		"user_id":    userID,
	})
	e.send(ctx, chatID, msgSuccess, nil)
	e.logger.Info("listing finalized", "user_id", userID, "listing_id", listingID)
	return nil
}
