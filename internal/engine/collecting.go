package engine

import (
	"context"

	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/resolver"
	"github.com/amlakhub/listingbot/internal/state"
	"github.com/amlakhub/listingbot/internal/taxonomy"
)

var confirmKeyboard = [][]string{{"✅ تایید", "✏️ ویرایش"}, {"❌ انصراف"}}

// handleCollecting runs one slot-filling turn: try the pending field first,
// then let the extractor harvest everything else the user volunteered, then
// ask whatever the resolver says is next.
func (e *Engine) handleCollecting(ctx context.Context, userID, chatID int64, conv state.Conversation, raw string) error {
	clean, isButton := taxonomy.DecodeButton(raw)

	var answered listing.Field
	targeted := &listing.Record{}
	if conv.Pending != "" {
		if d, ok := taxonomy.ByName(conv.Pending); ok && d.Assign(targeted, clean) {
			answered = conv.Pending
		}
	}

	// Button captions are not natural language; skip the LLM for them.
	var extracted *listing.Record
	if !isButton {
		extracted = e.extractor.Extract(ctx, raw)
		if answered != "" {
			// The targeted answer already owns this slot. The extractor
			// must not overrule the validated value.
			extracted.Clear(answered)
		}
	}

	merged := e.state.Merge(userID, extracted)
	if answered != "" {
		e.state.SetPending(userID, "")
		merged = e.state.Merge(userID, targeted)
	}

	if !isButton {
		if inferred := inferDefaults(raw, &merged.Record); inferred != nil {
			merged = e.state.Merge(userID, inferred)
		}
	}

	// The question was answered neither directly nor via extraction:
	// explain what was wrong and ask again. No state advances.
	if conv.Pending != "" && answered == "" {
		if d, ok := taxonomy.ByName(conv.Pending); ok && !d.Present(&merged.Record) {
			e.send(ctx, chatID, d.Invalid+"\n\n"+d.QuestionFor(&merged.Record), d.Keyboard)
			return nil
		}
		e.state.SetPending(userID, "")
	}

	return e.apply(ctx, userID, chatID, resolver.Next(&merged.Record))
}

// apply executes a resolver verdict: ask the next field, or move to the
// confirmation summary when the record is complete.
func (e *Engine) apply(ctx context.Context, userID, chatID int64, action resolver.Action) error {
	if action.Kind == resolver.Complete {
		e.state.SetPending(userID, "")
		conv := e.state.SetMode(userID, listing.Confirming)
		e.send(ctx, chatID, conv.Record.Summary()+"\n\n"+msgConfirmHelp, confirmKeyboard)
		return nil
	}

	e.state.SetMode(userID, listing.Collecting)
	e.state.SetPending(userID, action.Field)
	e.send(ctx, chatID, action.Question, action.Keyboard)
	return nil
}
