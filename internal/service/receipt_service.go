package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/middleware"
	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/registry"
	"github.com/mmynk/billscan/internal/session"
	"github.com/mmynk/billscan/internal/storage"
)

// ReceiptService implements the receipt splitting RPCs. Every call except
// CreateSession operates on the session named by the Billscan-Session header.
type ReceiptService struct {
	sessions   *session.Manager
	store      storage.Store
	recognizer ocr.Recognizer
	mode       ocr.Mode
}

// NewReceiptService creates a ReceiptService. recognizer may be nil, in which
// case ScanImage reports Unimplemented.
func NewReceiptService(sessions *session.Manager, store storage.Store, recognizer ocr.Recognizer) *ReceiptService {
	return &ReceiptService{sessions: sessions, store: store, recognizer: recognizer, mode: ocr.DefaultMode}
}

// SetDefaultMode changes the OCR mode used when the caller does not ask for
// the alternate one.
func (s *ReceiptService) SetDefaultMode(mode ocr.Mode) {
	s.mode = mode
}

// withSession runs fn on the caller's session and maps errors to Connect codes.
func (s *ReceiptService) withSession(ctx context.Context, fn func(*session.Session) error) error {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return connect.NewError(connect.CodeInvalidArgument, errMissingSession)
	}
	if err := s.sessions.With(id, fn); err != nil {
		return toConnectError(err)
	}
	return nil
}

// CreateSession starts a new split.
func (s *ReceiptService) CreateSession(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CreateSessionResponse], error) {
	sess := s.sessions.Create()
	resp := connect.NewResponse(&CreateSessionResponse{SessionID: sess.ID})
	resp.Header().Set(middleware.SessionHeader, sess.ID)
	return resp, nil
}

// EndSession discards the caller's session along with its receipt and OCR
// results.
func (s *ReceiptService) EndSession(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[Empty], error) {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingSession)
	}
	if err := s.sessions.Delete(id); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// ParseText parses edited receipt text, replacing the session's receipt.
func (s *ReceiptService) ParseText(ctx context.Context, req *connect.Request[ParseTextRequest]) (*connect.Response[ReceiptResponse], error) {
	var out *ReceiptResponse
	err := s.withSession(ctx, func(sess *session.Session) error {
		receipt := sess.ParseText(req.Msg.Text)
		out = toReceiptResponse(sess.Text, receipt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Receipt parsed",
		"session_id", middleware.GetSessionID(ctx),
		"entries", len(out.Entries),
		"total_cost", out.TotalCost,
	)
	return connect.NewResponse(out), nil
}

// ScanImage runs OCR on an uploaded image and parses the result. The text is
// returned so the user can correct it and call ParseText.
func (s *ReceiptService) ScanImage(ctx context.Context, req *connect.Request[ScanImageRequest]) (*connect.Response[ReceiptResponse], error) {
	if s.recognizer == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errNoRecognizer)
	}
	if len(req.Msg.Image) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, ocr.ErrEmptyImage)
	}

	opts := ocr.Options{Mode: s.mode, Crop: req.Msg.Crop.rect()}
	if req.Msg.Alternate {
		opts.Mode = opts.Mode.Alternate()
	}
	if err := opts.Validate(); err != nil {
		return nil, toConnectError(err)
	}

	// Recognition runs outside the session lock; the cache is safe for
	// concurrent use.
	var scanner *ocr.Cache
	err := s.withSession(ctx, func(sess *session.Session) error {
		scanner = sess.Scanner(s.recognizer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	text, err := scanner.Recognize(ctx, req.Msg.Image, opts)
	if err != nil {
		slog.Error("ScanImage recognition failed", "mode", int(opts.Mode), "cropped", opts.Crop != nil, "error", err)
		return nil, toConnectError(err)
	}

	var out *ReceiptResponse
	err = s.withSession(ctx, func(sess *session.Session) error {
		out = toReceiptResponse(text, sess.ParseText(text))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

// SetParticipants replaces the session's participants, from a name list, free
// text split on commas and newlines, or a saved roster.
func (s *ReceiptService) SetParticipants(ctx context.Context, req *connect.Request[SetParticipantsRequest]) (*connect.Response[ParticipantsResponse], error) {
	names := req.Msg.Names
	switch {
	case len(names) > 0:
	case req.Msg.Raw != "":
		names = registry.ParseNames(req.Msg.Raw)
	case req.Msg.RosterID != "":
		roster, err := s.store.GetRoster(ctx, req.Msg.RosterID)
		if err != nil {
			slog.Error("SetParticipants roster lookup failed", "roster_id", req.Msg.RosterID, "error", err)
			return nil, toConnectError(err)
		}
		names = roster.Members
	}

	var out []string
	err := s.withSession(ctx, func(sess *session.Session) error {
		if err := sess.SetParticipants(names); err != nil {
			return err
		}
		out = sess.Registry.Names()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return connect.NewResponse(&ParticipantsResponse{Participants: out}), nil
}

// SetClaims assigns a line to participants with an even split.
func (s *ReceiptService) SetClaims(ctx context.Context, req *connect.Request[SetClaimsRequest]) (*connect.Response[EntryResponse], error) {
	return s.entryCall(ctx, func(sess *session.Session) (*models.LineEntry, error) {
		return sess.SetClaims(req.Msg.Line, req.Msg.Participants)
	})
}

// SetWeight changes one participant's weight on a line.
func (s *ReceiptService) SetWeight(ctx context.Context, req *connect.Request[SetWeightRequest]) (*connect.Response[EntryResponse], error) {
	return s.entryCall(ctx, func(sess *session.Session) (*models.LineEntry, error) {
		return sess.SetWeight(req.Msg.Line, req.Msg.Participant, req.Msg.Weight)
	})
}

// ResetWeights restores an even split on a line.
func (s *ReceiptService) ResetWeights(ctx context.Context, req *connect.Request[LineRequest]) (*connect.Response[EntryResponse], error) {
	return s.entryCall(ctx, func(sess *session.Session) (*models.LineEntry, error) {
		return sess.ResetWeights(req.Msg.Line)
	})
}

// SuggestTip returns the pre-filled custom tip weights (current spend).
func (s *ReceiptService) SuggestTip(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[TipWeightsResponse], error) {
	var weights map[string]float64
	err := s.withSession(ctx, func(sess *session.Session) error {
		var err error
		weights, err = sess.SuggestTip()
		return err
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&TipWeightsResponse{Weights: weights}), nil
}

// AddTip appends a tip entry split evenly or by custom weights.
func (s *ReceiptService) AddTip(ctx context.Context, req *connect.Request[AddTipRequest]) (*connect.Response[EntryResponse], error) {
	mode, err := calculator.ParseTipMode(req.Msg.Mode)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return s.entryCall(ctx, func(sess *session.Session) (*models.LineEntry, error) {
		return sess.AddTip(req.Msg.Amount, mode, req.Msg.Weights)
	})
}

// Summary returns what each participant owes plus any reconciliation warning.
func (s *ReceiptService) Summary(ctx context.Context, req *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error) {
	out := &SummaryResponse{}
	err := s.withSession(ctx, func(sess *session.Session) error {
		totals, err := sess.Summary()
		if err != nil {
			return err
		}
		d, err := sess.Check(req.Msg.ExpectedTotal)
		if err != nil {
			return err
		}
		out.TotalCost = sess.Receipt.TotalCost()
		out.People = toPersonTotals(totals)
		out.Discrepancy = toDiscrepancy(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}

// Check reconciles claimed shares against the receipt total.
func (s *ReceiptService) Check(ctx context.Context, req *connect.Request[CheckRequest]) (*connect.Response[CheckResponse], error) {
	out := &CheckResponse{}
	err := s.withSession(ctx, func(sess *session.Session) error {
		d, err := sess.Check(req.Msg.ExpectedTotal)
		if err != nil {
			return err
		}
		out.Balanced = d == nil
		out.Discrepancy = toDiscrepancy(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Balanced {
		slog.Info("Receipt does not reconcile",
			"session_id", middleware.GetSessionID(ctx),
			"detail", out.Discrepancy.Message,
		)
	}
	return connect.NewResponse(out), nil
}

// entryCall runs an entry-mutating session operation and returns the entry.
func (s *ReceiptService) entryCall(ctx context.Context, fn func(*session.Session) (*models.LineEntry, error)) (*connect.Response[EntryResponse], error) {
	out := &EntryResponse{}
	err := s.withSession(ctx, func(sess *session.Session) error {
		entry, err := fn(sess)
		if err != nil {
			return err
		}
		if entry != nil {
			out.Entry = toEntry(entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(out), nil
}
