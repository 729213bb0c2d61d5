package service

import (
	"net/http"

	"connectrpc.com/connect"
)

const (
	ReceiptServiceName = "billscan.v1.ReceiptService"
	RosterServiceName  = "billscan.v1.RosterService"
)

// Procedure paths.
const (
	ReceiptServiceCreateSessionProcedure   = "/" + ReceiptServiceName + "/CreateSession"
	ReceiptServiceEndSessionProcedure      = "/" + ReceiptServiceName + "/EndSession"
	ReceiptServiceParseTextProcedure       = "/" + ReceiptServiceName + "/ParseText"
	ReceiptServiceScanImageProcedure       = "/" + ReceiptServiceName + "/ScanImage"
	ReceiptServiceSetParticipantsProcedure = "/" + ReceiptServiceName + "/SetParticipants"
	ReceiptServiceSetClaimsProcedure       = "/" + ReceiptServiceName + "/SetClaims"
	ReceiptServiceSetWeightProcedure       = "/" + ReceiptServiceName + "/SetWeight"
	ReceiptServiceResetWeightsProcedure    = "/" + ReceiptServiceName + "/ResetWeights"
	ReceiptServiceSuggestTipProcedure      = "/" + ReceiptServiceName + "/SuggestTip"
	ReceiptServiceAddTipProcedure          = "/" + ReceiptServiceName + "/AddTip"
	ReceiptServiceSummaryProcedure         = "/" + ReceiptServiceName + "/Summary"
	ReceiptServiceCheckProcedure           = "/" + ReceiptServiceName + "/Check"

	RosterServiceSaveRosterProcedure   = "/" + RosterServiceName + "/SaveRoster"
	RosterServiceGetRosterProcedure    = "/" + RosterServiceName + "/GetRoster"
	RosterServiceListRostersProcedure  = "/" + RosterServiceName + "/ListRosters"
	RosterServiceDeleteRosterProcedure = "/" + RosterServiceName + "/DeleteRoster"
)

// NewReceiptServiceHandler builds an HTTP handler for every ReceiptService
// procedure. It returns the path prefix to mount the handler on.
func NewReceiptServiceHandler(svc *ReceiptService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(ReceiptServiceCreateSessionProcedure, connect.NewUnaryHandler(ReceiptServiceCreateSessionProcedure, svc.CreateSession, opts...))
	mux.Handle(ReceiptServiceEndSessionProcedure, connect.NewUnaryHandler(ReceiptServiceEndSessionProcedure, svc.EndSession, opts...))
	mux.Handle(ReceiptServiceParseTextProcedure, connect.NewUnaryHandler(ReceiptServiceParseTextProcedure, svc.ParseText, opts...))
	mux.Handle(ReceiptServiceScanImageProcedure, connect.NewUnaryHandler(ReceiptServiceScanImageProcedure, svc.ScanImage, opts...))
	mux.Handle(ReceiptServiceSetParticipantsProcedure, connect.NewUnaryHandler(ReceiptServiceSetParticipantsProcedure, svc.SetParticipants, opts...))
	mux.Handle(ReceiptServiceSetClaimsProcedure, connect.NewUnaryHandler(ReceiptServiceSetClaimsProcedure, svc.SetClaims, opts...))
	mux.Handle(ReceiptServiceSetWeightProcedure, connect.NewUnaryHandler(ReceiptServiceSetWeightProcedure, svc.SetWeight, opts...))
	mux.Handle(ReceiptServiceResetWeightsProcedure, connect.NewUnaryHandler(ReceiptServiceResetWeightsProcedure, svc.ResetWeights, opts...))
	mux.Handle(ReceiptServiceSuggestTipProcedure, connect.NewUnaryHandler(ReceiptServiceSuggestTipProcedure, svc.SuggestTip, opts...))
	mux.Handle(ReceiptServiceAddTipProcedure, connect.NewUnaryHandler(ReceiptServiceAddTipProcedure, svc.AddTip, opts...))
	mux.Handle(ReceiptServiceSummaryProcedure, connect.NewUnaryHandler(ReceiptServiceSummaryProcedure, svc.Summary, opts...))
	mux.Handle(ReceiptServiceCheckProcedure, connect.NewUnaryHandler(ReceiptServiceCheckProcedure, svc.Check, opts...))
	return "/" + ReceiptServiceName + "/", mux
}

// NewRosterServiceHandler builds an HTTP handler for every RosterService
// procedure. It returns the path prefix to mount the handler on.
func NewRosterServiceHandler(svc *RosterService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(RosterServiceSaveRosterProcedure, connect.NewUnaryHandler(RosterServiceSaveRosterProcedure, svc.SaveRoster, opts...))
	mux.Handle(RosterServiceGetRosterProcedure, connect.NewUnaryHandler(RosterServiceGetRosterProcedure, svc.GetRoster, opts...))
	mux.Handle(RosterServiceListRostersProcedure, connect.NewUnaryHandler(RosterServiceListRostersProcedure, svc.ListRosters, opts...))
	mux.Handle(RosterServiceDeleteRosterProcedure, connect.NewUnaryHandler(RosterServiceDeleteRosterProcedure, svc.DeleteRoster, opts...))
	return "/" + RosterServiceName + "/", mux
}

func withJSON(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}
