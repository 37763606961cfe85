// Package extractor turns free-form Persian listing text into a typed
// partial record via an LLM call. The LLM output is untrusted: every value
// passes through the normalizers, unknown keys are dropped, and any failure
// surfaces as an empty partial so a turn can always proceed.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amlakhub/listingbot/internal/listing"
	"github.com/amlakhub/listingbot/internal/normalize"
)

const maxInputLen = 500

// Completer is the LLM call the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

type Extractor struct {
	llm     Completer
	timeout time.Duration
	logger  *slog.Logger
}

func New(llm Completer, timeout time.Duration, logger *slog.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{llm: llm, timeout: timeout, logger: logger}
}

// Extract maps raw text to a partial record. It never fails into the
// caller: timeouts, malformed JSON and hallucinated values all degrade to
// an empty (or partially filled) record.
func (e *Extractor) Extract(ctx context.Context, text string) *listing.Record {
	if len(text) > maxInputLen {
		text = text[:maxInputLen]
	}
	prompt := fmt.Sprintf(extractionUserPrompt, text)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Complete(ctx, systemPrompt, prompt, 600)
	if err != nil {
		e.logger.Warn("extraction call failed", "error", err)
		return &listing.Record{}
	}

	fields := map[string]any{}
	if err := json.Unmarshal([]byte(stripFences(raw)), &fields); err != nil {
		e.logger.Warn("extraction response is not JSON", "error", err, "raw", raw)
		return &listing.Record{}
	}

	rec := coerce(fields, e.logger)
	e.logger.Info("extraction complete", "fields", len(fields))
	return rec
}

// stripFences removes a markdown code fence the model sometimes wraps the
// JSON in despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	var keep []string
	for _, line := range strings.Split(s, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "```") || t == "json" {
			continue
		}
		keep = append(keep, line)
	}
	return strings.Join(keep, "\n")
}

// coerce validates each known key through the matching normalizer and drops
// everything else. Type-mismatched and out-of-vocabulary values are skipped,
// not guessed at.
func coerce(fields map[string]any, logger *slog.Logger) *listing.Record {
	rec := &listing.Record{}
	for key, val := range fields {
		if val == nil {
			continue
		}
		switch key {
		case "transaction_type":
			if v, ok := normalize.Transaction(asString(val)); ok {
				rec.TransactionType = &v
			}
		case "property_type":
			if v, ok := normalize.Property(asString(val)); ok {
				rec.PropertyType = &v
			}
		case "usage_type":
			if v, ok := normalize.Usage(asString(val)); ok {
				rec.UsageType = &v
			}
		case "area":
			setInt(val, &rec.Area)
		case "bedroom_count":
			setInt(val, &rec.BedroomCount)
		case "total_floors":
			setInt(val, &rec.TotalFloors)
		case "floor":
			setInt(val, &rec.Floor)
		case "unit_count":
			setInt(val, &rec.UnitCount)
		case "build_year":
			setInt(val, &rec.BuildYear)
		case "price_total", "price":
			setMoney(val, &rec.PriceTotal)
		case "deposit":
			// The form stores rent deposits in price_total.
			if rec.PriceTotal == nil {
				setMoney(val, &rec.PriceTotal)
			}
		case "rent":
			setMoney(val, &rec.Rent)
		case "has_elevator":
			setBool(val, &rec.HasElevator)
		case "has_parking":
			setBool(val, &rec.HasParking)
		case "has_storage":
			setBool(val, &rec.HasStorage)
		case "owner_name":
			setText(val, &rec.OwnerName)
		case "neighborhood":
			setText(val, &rec.Neighborhood)
		case "address":
			setText(val, &rec.Address)
		case "city":
			setText(val, &rec.City)
		case "owner_phone":
			if v, ok := normalize.Phone(asString(val)); ok {
				rec.OwnerPhone = &v
			}
		default:
			logger.Debug("dropping unknown extracted key", "key", key)
		}
	}
	return rec
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%v", t)
	}
	return ""
}

func setInt(v any, dst **int) {
	switch t := v.(type) {
	case float64:
		if t == float64(int(t)) {
			n := int(t)
			*dst = &n
		}
	case string:
		if n, ok := normalize.Int(t); ok {
			*dst = &n
		}
	}
}

func setMoney(v any, dst **int64) {
	switch t := v.(type) {
	case float64:
		if t >= 0 {
			n := int64(t)
			*dst = &n
		}
	case string:
		if n, ok := normalize.Money(t); ok {
			*dst = &n
		}
	}
}

func setBool(v any, dst **bool) {
	switch t := v.(type) {
	case bool:
		b := t
		*dst = &b
	case string:
		if b, ok := normalize.YesNo(t); ok {
			*dst = &b
		}
	}
}

func setText(v any, dst **string) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			*dst = &s
		}
	}
}
