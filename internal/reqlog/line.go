// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package reqlog implements the request logging pipeline.

Every HTTP request produces exactly one [Line] after its handler returns.
Lines fan out to two sinks: a daily rolling file on disk and a Postgres
table, so an operator can grep recent traffic locally and query history
with SQL.
*/
package reqlog

import "time"

// UserInfo identifies the caller of a logged request, as far as it is known.
// Both fields stay empty for anonymous traffic.
type UserInfo struct {
	UserID   string `json:"user_id,omitempty"`
	DeviceID string `json:"device_id,omitempty"`
}

// Line is the canonical record of one finished HTTP request.
//
// Any failed request carries its flattened error ancestry in
// ServerErrorChain, outermost first. ClientErrorType additionally carries
// the stable client tag (e.g. INVALID_PARAMS) when one is attached.
type Line struct {
	ReqID            string    `json:"req_id"`
	Timestamp        time.Time `json:"timestamp"`
	User             UserInfo  `json:"user"`
	ReqPath          string    `json:"req_path"`
	ReqMethod        string    `json:"req_method"`
	ClientErrorType  string    `json:"client_error_type,omitempty"`
	ServerErrorChain []string  `json:"server_error_chain,omitempty"`
}
