package announcement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/announcement-relay/internal/domain/notifier"
	"github.com/yanqian/announcement-relay/internal/domain/summarizer"
	apperrors "github.com/yanqian/announcement-relay/pkg/errors"
)

// Service runs one announcement through summarization and delivery.
type Service interface {
	Process(ctx context.Context, req Request) (Response, error)
}

type service struct {
	cfg        Config
	live       LiveSource
	sample     SampleSource
	store      DedupStore
	summarizer summarizer.Service
	notifier   notifier.Service
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService is a wire provider for the announcement domain.
func NewService(
	cfg Config,
	live LiveSource,
	sample SampleSource,
	store DedupStore,
	summarizerSvc summarizer.Service,
	notifierSvc notifier.Service,
	logger *slog.Logger,
) Service {
	return &service{
		cfg:        cfg,
		live:       live,
		sample:     sample,
		store:      store,
		summarizer: summarizerSvc,
		notifier:   notifierSvc,
		logger:     logger.With("component", "announcement.service"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// resolved is the announcement text plus where it came from.
type resolved struct {
	listing  Listing
	text     string
	origin   string
	dedupKey string
}

// Process picks the announcement text, in order of precedence: the sample
// snapshot when requested, caller supplied text, then the live page.
func (s *service) Process(ctx context.Context, req Request) (Response, error) {
	start := s.now()
	runID := s.newID()
	logger := s.logger.With("run_id", runID)

	ann, err := s.resolve(ctx, req)
	if err != nil {
		logger.Error("resolve announcement failed", "error", err)
		return Response{}, err
	}
	logger = logger.With("origin", ann.origin, "company", ann.listing.Company)

	resp := Response{
		RunID:       runID,
		Origin:      ann.origin,
		Company:     ann.listing.Company,
		DocumentURL: ann.listing.DocumentURL,
		Deliveries:  []notifier.Delivery{},
	}

	var held, delivered bool
	if ann.dedupKey != "" {
		claimed, ok := s.reserve(ctx, logger, ann.dedupKey)
		if !claimed {
			resp.Success = true
			resp.Skipped = true
			resp.Message = "Announcement already sent"
			resp.Details = "Duplicate announcement detected; nothing was sent"
			resp.DurationMs = s.now().Sub(start).Milliseconds()
			logger.Info("duplicate announcement skipped")
			return resp, nil
		}
		held = ok
	}
	defer func() {
		if held && !delivered {
			s.release(ctx, logger, ann.dedupKey)
		}
	}()

	summary, err := s.summarize(ctx, logger, &ann, &resp)
	if err != nil {
		return Response{}, err
	}
	resp.Summary = summary

	// Delivery ignores caller cancellation so every recipient gets an
	// attempt and the outcome is recorded.
	deliverCtx := context.WithoutCancel(ctx)
	body := FormatMessage(ann.listing, summary, s.cfg.Footer, s.cfg.MaxMessageLength)
	report, err := s.notifier.Notify(deliverCtx, body)
	if err != nil {
		logger.Error("notify failed", "error", err)
		return Response{}, err
	}
	resp.Deliveries = report.Deliveries
	resp.Sent = report.Sent
	resp.Failed = report.Failed
	resp.Success = report.Sent > 0
	if resp.Success {
		resp.Message = "Announcement processed successfully"
		resp.Details = fmt.Sprintf("WhatsApp message sent to %d of %d recipients", report.Sent, len(report.Deliveries))
		if ann.dedupKey != "" {
			if err := s.store.MarkSent(deliverCtx, ann.dedupKey, s.cfg.DedupTTL); err != nil {
				logger.Warn("failed to record sent announcement", "error", err)
			}
			delivered = true
		}
	} else {
		resp.Message = "Failed to process announcement"
		resp.Details = "No recipient accepted the message"
	}
	resp.DurationMs = s.now().Sub(start).Milliseconds()

	logger.Info("announcement processed", "sent", resp.Sent, "failed", resp.Failed, "duration_ms", resp.DurationMs)
	return resp, nil
}

// summarize fills in live document text and runs the completion. A live
// document without a text layer gets a fixed manual review note instead.
func (s *service) summarize(ctx context.Context, logger *slog.Logger, ann *resolved, resp *Response) (string, error) {
	if ann.origin == OriginScreener {
		text, err := s.live.DocumentText(ctx, ann.listing)
		switch {
		case errors.Is(err, ErrNoDocumentText):
			logger.Warn("document has no text layer, sending manual review note", "document_url", ann.listing.DocumentURL)
			resp.ManualReview = true
			return manualReviewSummary(ann.listing.Company), nil
		case err != nil:
			logger.Error("document text extraction failed", "error", err, "document_url", ann.listing.DocumentURL)
			return "", apperrors.Wrap(apperrors.CodeSource, "failed to extract document text", err)
		}
		ann.text = text
	}

	result, err := s.summarizer.Summarize(ctx, summarizer.Input{Company: ann.listing.Company, Text: ann.text})
	if err != nil {
		logger.Error("summarize failed", "error", err)
		return "", err
	}
	resp.TokenUsage = result.TokenUsage
	return result.Summary, nil
}

func manualReviewSummary(company string) string {
	if company == "" {
		company = "the company"
	}
	return fmt.Sprintf("*Summary*: Corporate announcement from %s. The PDF document has no extractable text and requires manual review.\n\n*Sentiment Analysis*: Neutral - Please review the PDF document for specific details.", company)
}

func (s *service) resolve(ctx context.Context, req Request) (resolved, error) {
	switch {
	case req.UseSampleData:
		listing, err := s.sample.Latest(ctx)
		if err != nil {
			return resolved{}, apperrors.Wrap(apperrors.CodeSource, "failed to load sample announcement", err)
		}
		text, err := s.sample.DocumentText(ctx, listing)
		if err != nil {
			return resolved{}, apperrors.Wrap(apperrors.CodeSource, "failed to load sample announcement", err)
		}
		return resolved{listing: listing, text: text, origin: OriginSample}, nil

	case strings.TrimSpace(req.Text) != "":
		return resolved{
			listing: Listing{Company: strings.TrimSpace(req.Company)},
			text:    req.Text,
			origin:  OriginRequest,
		}, nil

	default:
		listing, err := s.live.Latest(ctx)
		if err != nil {
			return resolved{}, apperrors.Wrap(apperrors.CodeSource, "failed to fetch latest announcement", err)
		}
		ann := resolved{listing: listing, origin: OriginScreener}
		if s.cfg.DedupEnabled && s.store != nil {
			ann.dedupKey = DedupKey(listing.Company, listing.DocumentURL)
		}
		return ann, nil
	}
}

// reserve claims key for this run. claimed is false only for a confirmed
// duplicate; a store failure proceeds without holding the key.
func (s *service) reserve(ctx context.Context, logger *slog.Logger, key string) (claimed, held bool) {
	ok, err := s.store.Reserve(ctx, key, s.cfg.ReserveTTL)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Warn("dedup reservation failed", "error", err)
		}
		return true, false
	}
	return ok, ok
}

func (s *service) release(ctx context.Context, logger *slog.Logger, key string) {
	if err := s.store.Release(context.WithoutCancel(ctx), key); err != nil {
		logger.Warn("failed to release dedup reservation", "error", err)
	}
}
