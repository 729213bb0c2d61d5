package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/storage"
)

// RosterService implements saved participant lists.
type RosterService struct {
	store storage.Store
}

// NewRosterService creates a new RosterService with the given storage backend.
func NewRosterService(store storage.Store) *RosterService {
	return &RosterService{store: store}
}

// SaveRoster stores a new roster.
func (s *RosterService) SaveRoster(ctx context.Context, req *connect.Request[SaveRosterRequest]) (*connect.Response[RosterResponse], error) {
	slog.Info("SaveRoster request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	roster := &models.Roster{
		Name:    req.Msg.Name,
		Members: req.Msg.Members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateRoster(ctx, roster); err != nil {
		slog.Error("SaveRoster failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Roster saved", "roster_id", roster.ID)
	return connect.NewResponse(&RosterResponse{Roster: toRoster(roster)}), nil
}

// GetRoster retrieves a roster by ID.
func (s *RosterService) GetRoster(ctx context.Context, req *connect.Request[RosterRequest]) (*connect.Response[RosterResponse], error) {
	if req.Msg.RosterID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("roster_id is required"))
	}

	roster, err := s.store.GetRoster(ctx, req.Msg.RosterID)
	if err != nil {
		slog.Error("GetRoster failed", "roster_id", req.Msg.RosterID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RosterResponse{Roster: toRoster(roster)}), nil
}

// ListRosters returns every saved roster.
func (s *RosterService) ListRosters(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ListRostersResponse], error) {
	rosters, err := s.store.ListRosters(ctx)
	if err != nil {
		slog.Error("ListRosters failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*Roster, len(rosters))
	for i, r := range rosters {
		out[i] = toRoster(r)
	}
	return connect.NewResponse(&ListRostersResponse{Rosters: out}), nil
}

// DeleteRoster removes a roster.
func (s *RosterService) DeleteRoster(ctx context.Context, req *connect.Request[RosterRequest]) (*connect.Response[Empty], error) {
	if err := s.store.DeleteRoster(ctx, req.Msg.RosterID); err != nil {
		slog.Error("DeleteRoster failed", "roster_id", req.Msg.RosterID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Roster deleted", "roster_id", req.Msg.RosterID)
	return connect.NewResponse(&Empty{}), nil
}
