// Package engine orchestrates one conversation turn: voice transcription,
// button decoding, targeted pending-field answers, LLM extraction merge,
// inference defaults, the slot resolver, and the confirm/edit/finalize
// sub-flow.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amlakhub/listingbot/internal/gateway"
	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/state"
)

// CreditCost is what one finalized listing debits.
const CreditCost int64 = 1

// Extractor maps free text to an untrusted partial record. Failures
// degrade to an empty partial inside the implementation.
type Extractor interface {
	Extract(ctx context.Context, text string) *listing.Record
}

// Transcriber converts a voice blob to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Sender delivers one outbound message; a nil keyboard clears buttons.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]string) error
}

// FileDownloader fetches a chat attachment by file id.
type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Listings is the persistence collaborator. CreateListing must be
// idempotent per confirmation token.
type Listings interface {
	CreateListing(ctx context.Context, ownerID int64, token uuid.UUID, rec *listing.Record) (uuid.UUID, error)
	ListingByToken(ctx context.Context, token uuid.UUID) (uuid.UUID, bool, error)
}

// Ledger is the prepaid credit collaborator. Debit returns
// store.ErrInsufficientCredit when the balance is too low.
type Ledger interface {
	Debit(ctx context.Context, userID int64, amount int64) (uuid.UUID, error)
	Credit(ctx context.Context, userID int64, amount int64, refTxID uuid.UUID) error
}

// Publisher emits lifecycle events; nil disables publishing.
type Publisher interface {
	Publish(subject string, data any) error
}

type Engine struct {
	state     *state.Store
	extractor Extractor
	stt       Transcriber
	sender    Sender
	files     FileDownloader
	listings  Listings
	ledger    Ledger
	events    Publisher
	logger    *slog.Logger

	turnTimeout time.Duration

	// Per-user turn locks: one in-flight turn per user, users independent.
	mu    sync.Mutex
	turns map[int64]*sync.Mutex
}

func New(
	st *state.Store,
	ext Extractor,
	stt Transcriber,
	sender Sender,
	files FileDownloader,
	listings Listings,
	ledger Ledger,
	events Publisher,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		state:       st,
		extractor:   ext,
		stt:         stt,
		sender:      sender,
		files:       files,
		listings:    listings,
		ledger:      ledger,
		events:      events,
		logger:      logger,
		turnTimeout: 60 * time.Second,
		turns:       make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) turnLock(userID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.turns[userID]
	if !ok {
		l = &sync.Mutex{}
		e.turns[userID] = l
	}
	return l
}

// HandleInbound is the NATS handler for gateway.telegram.message.
func (e *Engine) HandleInbound(subject string, data []byte) {
	var msg gateway.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		e.logger.Error("failed to parse inbound message", "error", err)
		return
	}
	if msg.UserID == 0 || msg.ChatID == 0 {
		e.logger.Warn("inbound message missing ids")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.turnTimeout)
	defer cancel()

	lock := e.turnLock(msg.UserID)
	lock.Lock()
	defer lock.Unlock()

	if err := e.processTurn(ctx, msg); err != nil {
		e.logger.Error("turn failed", "user_id", msg.UserID, "error", err)
		e.send(ctx, msg.ChatID, msgUnexpectedError, nil)
	}
}

func (e *Engine) processTurn(ctx context.Context, msg gateway.InboundMessage) error {
	text := msg.Text

	if msg.VoiceFileID != "" {
		transcript, ok := e.transcribeVoice(ctx, msg.VoiceFileID)
		if !ok {
			e.send(ctx, msg.ChatID, msgVoiceFailed, nil)
			return nil
		}
		text = transcript
	}
	if strings.TrimSpace(text) == "" {
		e.send(ctx, msg.ChatID, msgEmptyInput, nil)
		return nil
	}

	conv := e.state.Get(msg.UserID)

	e.logger.Info("processing turn",
		"user_id", msg.UserID,
		"mode", string(conv.Mode),
		"pending", string(conv.Pending),
	)

	switch conv.Mode {
	case listing.Confirming, listing.Editing:
		return e.handleConfirming(ctx, msg.UserID, msg.ChatID, conv, text)
	default:
		return e.handleCollecting(ctx, msg.UserID, msg.ChatID, conv, text)
	}
}

func (e *Engine) transcribeVoice(ctx context.Context, fileID string) (string, bool) {
	if e.files == nil || e.stt == nil {
		return "", false
	}
	audio, err := e.files.DownloadFile(ctx, fileID)
	if err != nil {
		e.logger.Warn("voice download failed", "error", err)
		return "", false
	}
	transcript, err := e.stt.Transcribe(ctx, audio)
	if err != nil {
		e.logger.Warn("transcription failed", "error", err)
		return "", false
	}
	transcript = strings.TrimSpace(transcript)
	return transcript, transcript != ""
}

// send logs delivery failures instead of failing the turn; the user either
// got the message or will re-trigger the same state next turn.
func (e *Engine) send(ctx context.Context, chatID int64, text string, keyboard [][]string) {
	if err := e.sender.SendMessage(ctx, chatID, text, keyboard); err != nil {
		e.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (e *Engine) publish(subject string, data any) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(subject, data); err != nil {
		e.logger.Warn("publish failed", "subject", subject, "error", err)
	}
}
