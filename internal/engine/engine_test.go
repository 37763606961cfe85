package engine

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/amlakhub/listingbot/internal/gateway"
	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/state"
	"github.com/amlakhub/listingbot/internal/store"
)

type fakeExtractor struct {
	fn func(text string) *listing.Record
}

func (f fakeExtractor) Extract(_ context.Context, text string) *listing.Record {
	if f.fn == nil {
		return &listing.Record{}
	}
	return f.fn(text)
}

type sentMsg struct {
	chatID   int64
	text     string
	keyboard [][]string
}

type fakeSender struct {
	msgs []sentMsg
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string, keyboard [][]string) error {
	f.msgs = append(f.msgs, sentMsg{chatID, text, keyboard})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMsg {
	t.Helper()
	if len(f.msgs) == 0 {
		t.Fatal("no message was sent")
	}
	return f.msgs[len(f.msgs)-1]
}

type fakeListings struct {
	created   int
	createErr error
	lookupErr error
	byToken   map[uuid.UUID]uuid.UUID
}

func (f *fakeListings) CreateListing(_ context.Context, _ int64, token uuid.UUID, _ *listing.Record) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	if f.byToken == nil {
		f.byToken = make(map[uuid.UUID]uuid.UUID)
	}
	id := uuid.New()
	f.byToken[token] = id
	f.created++
	return id, nil
}

func (f *fakeListings) ListingByToken(_ context.Context, token uuid.UUID) (uuid.UUID, bool, error) {
	if f.lookupErr != nil {
		return uuid.Nil, false, f.lookupErr
	}
	id, ok := f.byToken[token]
	return id, ok, nil
}

type fakeLedger struct {
	debitErr  error
	creditErr error
	debits    []uuid.UUID
	refundRef []uuid.UUID
}

func (f *fakeLedger) Debit(_ context.Context, _ int64, _ int64) (uuid.UUID, error) {
	if f.debitErr != nil {
		return uuid.Nil, f.debitErr
	}
	id := uuid.New()
	f.debits = append(f.debits, id)
	return id, nil
}

func (f *fakeLedger) Credit(_ context.Context, _ int64, _ int64, refTxID uuid.UUID) error {
	if f.creditErr != nil {
		return f.creditErr
	}
	f.refundRef = append(f.refundRef, refTxID)
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ any) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func newTestEngine(ext Extractor, listings *fakeListings, ledger *fakeLedger) (*Engine, *fakeSender, *fakePublisher) {
	if ext == nil {
		ext = fakeExtractor{}
	}
	if listings == nil {
		listings = &fakeListings{}
	}
	if ledger == nil {
		ledger = &fakeLedger{}
	}
	sender := &fakeSender{}
	pub := &fakePublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(state.New(), ext, nil, sender, nil, listings, ledger, pub, logger)
	return e, sender, pub
}

func inbound(t *testing.T, e *Engine, userID int64, text string) {
	t.Helper()
	data, err := json.Marshal(gateway.InboundMessage{ChatID: userID, UserID: userID, Text: text})
	if err != nil {
		t.Fatal(err)
	}
	e.HandleInbound(gateway.SubjectInboundMessage, data)
}

// seedVilla fills everything a sale villa needs except the owner phone.
func seedVilla(e *Engine, userID int64) {
	tx, pt := listing.Sale, listing.Villa
	area, beds := 200, 3
	price := int64(8_000_000_000)
	hood, addr, name := "گلسار", "رشت، گلسار، خیابان ۱۰۷", "رضایی"
	e.state.Merge(userID, &listing.Record{
		TransactionType: &tx,
		PropertyType:    &pt,
		Area:            &area,
		BedroomCount:    &beds,
		PriceTotal:      &price,
		Neighborhood:    &hood,
		Address:         &addr,
		OwnerName:       &name,
	})
}

// seedConfirming fills the record completely and parks it at the summary.
func seedConfirming(e *Engine, userID int64) state.Conversation {
	seedVilla(e, userID)
	phone := "09112334550"
	e.state.Merge(userID, &listing.Record{OwnerPhone: &phone, FeaturesAsked: true})
	return e.state.SetMode(userID, listing.Confirming)
}

func TestTargetedAnswerAdvances(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedVilla(e, 7)
	e.state.SetPending(7, listing.FieldOwnerPhone)

	inbound(t, e, 7, "09123456789")

	conv := e.state.Get(7)
	if conv.Record.OwnerPhone == nil || *conv.Record.OwnerPhone != "09123456789" {
		t.Fatalf("owner phone = %v", conv.Record.OwnerPhone)
	}
	if conv.Pending != listing.FieldFeatures {
		t.Errorf("pending = %s, want additional_features", conv.Pending)
	}
	if !strings.Contains(sender.last(t).text, "امکانات") {
		t.Errorf("expected the features question, got %q", sender.last(t).text)
	}
}

func TestInvalidTargetedAnswerRepromptsSameField(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	e.state.Merge(7, &listing.Record{})
	e.state.SetPending(7, listing.FieldArea)

	inbound(t, e, 7, "خیلی بزرگ")

	conv := e.state.Get(7)
	if conv.Pending != listing.FieldArea {
		t.Errorf("pending = %s, want area (no advance)", conv.Pending)
	}
	if conv.Record.Area != nil {
		t.Error("no value should have been written")
	}
	msg := sender.last(t).text
	if !strings.Contains(msg, "متراژ باید عددی") {
		t.Errorf("expected the invalid-area reason, got %q", msg)
	}
	if !strings.Contains(msg, "متراژ ملک چقدر است") {
		t.Errorf("expected the same question again, got %q", msg)
	}
}

// A targeted answer owns its slot: the extractor cannot overrule it, but
// the rest of its harvest still merges.
func TestExtractorCannotOverruleTargetedAnswer(t *testing.T) {
	ext := fakeExtractor{fn: func(string) *listing.Record {
		wrong := 999
		hood := "معلم"
		return &listing.Record{Area: &wrong, Neighborhood: &hood}
	}}
	e, _, _ := newTestEngine(ext, nil, nil)
	e.state.SetPending(7, listing.FieldArea)

	inbound(t, e, 7, "120")

	conv := e.state.Get(7)
	if conv.Record.Area == nil || *conv.Record.Area != 120 {
		t.Fatalf("area = %v, want the validated 120", conv.Record.Area)
	}
	if conv.Record.Neighborhood == nil || *conv.Record.Neighborhood != "معلم" {
		t.Error("volunteered neighborhood should still merge")
	}
}

// A rich first message skips every extracted field and asks the first gap.
func TestExtractedFieldsAreNeverReAsked(t *testing.T) {
	ext := fakeExtractor{fn: func(string) *listing.Record {
		tx, pt := listing.Sale, listing.Apartment
		area := 120
		hood := "گلسار"
		return &listing.Record{
			TransactionType: &tx,
			PropertyType:    &pt,
			Area:            &area,
			Neighborhood:    &hood,
		}
	}}
	e, sender, _ := newTestEngine(ext, nil, nil)

	inbound(t, e, 7, "آپارتمان ۱۲۰ متری در گلسار برای فروش")

	conv := e.state.Get(7)
	if conv.Pending != listing.FieldUsageType {
		t.Errorf("pending = %s, want usage_type", conv.Pending)
	}
	if !strings.Contains(sender.last(t).text, "کاربری") {
		t.Errorf("expected the usage question, got %q", sender.last(t).text)
	}
}

func TestCompletionShowsSummaryAndMintsToken(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedVilla(e, 7)
	e.state.SetPending(7, listing.FieldOwnerPhone)

	inbound(t, e, 7, "09123456789") // asks features
	inbound(t, e, 7, "ندارد")       // completes

	conv := e.state.Get(7)
	if conv.Mode != listing.Confirming {
		t.Fatalf("mode = %s, want confirming", conv.Mode)
	}
	if conv.Token == uuid.Nil {
		t.Error("confirmation token was not minted")
	}
	msg := sender.last(t)
	if !strings.Contains(msg.text, "ویلا") || !strings.Contains(msg.text, "گلسار") {
		t.Errorf("summary missing record data: %q", msg.text)
	}
	if len(msg.keyboard) == 0 {
		t.Error("confirmation should offer choice buttons")
	}
}

func TestConfirmDebitsPersistsAndClears(t *testing.T) {
	listings := &fakeListings{}
	ledger := &fakeLedger{}
	e, sender, pub := newTestEngine(nil, listings, ledger)
	seedConfirming(e, 7)

	inbound(t, e, 7, "✅ تایید")

	if len(ledger.debits) != 1 {
		t.Fatalf("debits = %d, want 1", len(ledger.debits))
	}
	if listings.created != 1 {
		t.Fatalf("listings created = %d, want 1", listings.created)
	}
	if !strings.Contains(sender.last(t).text, "ثبت شد") {
		t.Errorf("expected success message, got %q", sender.last(t).text)
	}

	conv := e.state.Get(7)
	if conv.Mode != listing.Collecting || conv.Record.Area != nil {
		t.Error("conversation should be cleared after success")
	}

	var sawCreated, sawDebited bool
	for _, s := range pub.subjects {
		switch s {
		case gateway.SubjectListingCreated:
			sawCreated = true
		case gateway.SubjectCreditDebited:
			sawDebited = true
		}
	}
	if !sawCreated || !sawDebited {
		t.Errorf("events published = %v", pub.subjects)
	}
}

// A confirm that raced a previous persist must not charge again.
func TestRepeatConfirmIsIdempotent(t *testing.T) {
	listings := &fakeListings{byToken: make(map[uuid.UUID]uuid.UUID)}
	ledger := &fakeLedger{}
	e, sender, _ := newTestEngine(nil, listings, ledger)
	conv := seedConfirming(e, 7)
	listings.byToken[conv.Token] = uuid.New() // already persisted

	inbound(t, e, 7, "تایید")

	if len(ledger.debits) != 0 {
		t.Errorf("debits = %d, want 0", len(ledger.debits))
	}
	if listings.created != 0 {
		t.Errorf("created = %d, want 0", listings.created)
	}
	if !strings.Contains(sender.last(t).text, "ثبت شد") {
		t.Errorf("expected success message, got %q", sender.last(t).text)
	}
}

func TestPersistFailureRefundsOnceAndKeepsState(t *testing.T) {
	listings := &fakeListings{createErr: errors.New("db down")}
	ledger := &fakeLedger{}
	e, sender, pub := newTestEngine(nil, listings, ledger)
	seedConfirming(e, 7)

	inbound(t, e, 7, "تایید")

	if len(ledger.debits) != 1 {
		t.Fatalf("debits = %d, want 1", len(ledger.debits))
	}
	if len(ledger.refundRef) != 1 {
		t.Fatalf("refunds = %d, want exactly 1", len(ledger.refundRef))
	}
	if ledger.refundRef[0] != ledger.debits[0] {
		t.Error("refund must reference the debit transaction")
	}
	if !strings.Contains(sender.last(t).text, "اعتباری کم نشد") {
		t.Errorf("expected retry message, got %q", sender.last(t).text)
	}

	conv := e.state.Get(7)
	if conv.Mode != listing.Confirming {
		t.Errorf("mode = %s, want confirming kept for retry", conv.Mode)
	}

	var sawRefunded bool
	for _, s := range pub.subjects {
		if s == gateway.SubjectCreditRefunded {
			sawRefunded = true
		}
	}
	if !sawRefunded {
		t.Errorf("events published = %v", pub.subjects)
	}

	// The retry succeeds end to end.
	listings.createErr = nil
	inbound(t, e, 7, "تایید")

	if listings.created != 1 {
		t.Errorf("created = %d after retry, want 1", listings.created)
	}
	if len(ledger.refundRef) != 1 {
		t.Errorf("refunds = %d after retry, want still 1", len(ledger.refundRef))
	}
}

// Losing the persist race to an earlier submission of the same token is
// success with this turn's debit handed back, not a retry loop.
func TestPersistRaceRefundsAndSucceeds(t *testing.T) {
	listings := &fakeListings{createErr: store.ErrAlreadyFinalized}
	ledger := &fakeLedger{}
	e, sender, _ := newTestEngine(nil, listings, ledger)
	seedConfirming(e, 7)

	inbound(t, e, 7, "تایید")

	if len(ledger.debits) != 1 || len(ledger.refundRef) != 1 {
		t.Errorf("debits = %d, refunds = %d, want 1 and 1", len(ledger.debits), len(ledger.refundRef))
	}
	if !strings.Contains(sender.last(t).text, "ثبت شد") {
		t.Errorf("expected success message, got %q", sender.last(t).text)
	}
	if conv := e.state.Get(7); conv.Record.Area != nil {
		t.Error("conversation should be cleared")
	}
}

func TestInsufficientCredit(t *testing.T) {
	listings := &fakeListings{}
	ledger := &fakeLedger{debitErr: store.ErrInsufficientCredit}
	e, sender, _ := newTestEngine(nil, listings, ledger)
	seedConfirming(e, 7)

	inbound(t, e, 7, "تایید")

	if listings.created != 0 {
		t.Errorf("created = %d, want 0", listings.created)
	}
	if len(ledger.refundRef) != 0 {
		t.Errorf("refunds = %d, want 0 (nothing was charged)", len(ledger.refundRef))
	}
	if !strings.Contains(sender.last(t).text, "اعتبار شما") {
		t.Errorf("expected insufficient-credit message, got %q", sender.last(t).text)
	}
	if conv := e.state.Get(7); conv.Mode != listing.Confirming {
		t.Error("conversation should survive an insufficient balance")
	}
}

func TestCancelDiscardsConversation(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedConfirming(e, 7)

	inbound(t, e, 7, "❌ انصراف")

	if !strings.Contains(sender.last(t).text, "لغو شد") {
		t.Errorf("expected cancel message, got %q", sender.last(t).text)
	}
	if conv := e.state.Get(7); conv.Record.Area != nil {
		t.Error("record should be gone after cancel")
	}
}

func TestEditInline(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedConfirming(e, 7)

	inbound(t, e, 7, "متراژ: 150")

	conv := e.state.Get(7)
	if conv.Record.Area == nil || *conv.Record.Area != 150 {
		t.Fatalf("area = %v, want 150", conv.Record.Area)
	}
	if conv.Mode != listing.Confirming {
		t.Errorf("mode = %s, want confirming again", conv.Mode)
	}
	if !strings.Contains(sender.last(t).text, "150") {
		t.Errorf("updated summary should show the new area, got %q", sender.last(t).text)
	}
}

func TestEditByBareLabel(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedConfirming(e, 7)

	inbound(t, e, 7, "✏️ ویرایش")
	if conv := e.state.Get(7); conv.Mode != listing.Editing {
		t.Fatalf("mode = %s, want editing", conv.Mode)
	}
	if !strings.Contains(sender.last(t).text, "کدام مورد") {
		t.Errorf("expected edit instructions, got %q", sender.last(t).text)
	}

	inbound(t, e, 7, "متراژ")
	if conv := e.state.Get(7); conv.Pending != listing.FieldArea {
		t.Fatalf("pending = %s, want area", conv.Pending)
	}

	inbound(t, e, 7, "180")
	conv := e.state.Get(7)
	if conv.Record.Area == nil || *conv.Record.Area != 180 {
		t.Fatalf("area = %v, want 180", conv.Record.Area)
	}
	if conv.Mode != listing.Confirming {
		t.Errorf("mode = %s, want back to confirming", conv.Mode)
	}
	if len(sender.last(t).keyboard) == 0 {
		t.Error("updated summary should offer the confirm buttons")
	}
}

// Editing the transaction type to rent reopens the form for the rent field.
func TestEditReopensForm(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedConfirming(e, 7)

	inbound(t, e, 7, "نوع معامله: اجاره")

	conv := e.state.Get(7)
	if conv.Mode != listing.Collecting {
		t.Fatalf("mode = %s, want collecting", conv.Mode)
	}
	if conv.Pending != listing.FieldRent {
		t.Errorf("pending = %s, want rent", conv.Pending)
	}
	if !strings.Contains(sender.last(t).text, "اجاره ماهیانه") {
		t.Errorf("expected the rent question, got %q", sender.last(t).text)
	}
}

func TestUnrecognizedConfirmInputReShowsChoices(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)
	seedConfirming(e, 7)
	before := e.state.Get(7)

	inbound(t, e, 7, "نمیدونم والا")

	after := e.state.Get(7)
	if after.Mode != listing.Confirming || after.Token != before.Token {
		t.Error("nothing should move on unrecognized confirm input")
	}
	msg := sender.last(t)
	if len(msg.keyboard) == 0 {
		t.Error("choices should be shown again")
	}
}

func TestVoiceWithoutTranscriberFailsSoftly(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)

	data, _ := json.Marshal(gateway.InboundMessage{ChatID: 7, UserID: 7, VoiceFileID: "abc"})
	e.HandleInbound(gateway.SubjectInboundMessage, data)

	if !strings.Contains(sender.last(t).text, "پیام صوتی") {
		t.Errorf("expected voice failure message, got %q", sender.last(t).text)
	}
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	e, sender, _ := newTestEngine(nil, nil, nil)

	e.HandleInbound(gateway.SubjectInboundMessage, []byte("{not json"))

	if len(sender.msgs) != 0 {
		t.Errorf("no message should be sent, got %v", sender.msgs)
	}
}
