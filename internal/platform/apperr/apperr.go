// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package apperr defines the centralized error handling framework for Mogcord.

Errors are chained values, not flattened strings: an I/O failure deep in a
store becomes the child of a semantic error at the service boundary, and the
whole ancestry survives until the logging pipeline serializes it.

Architecture:

  - AppError: Kind + Subject classification, construction site, debug
    key/values, an optional public hint, and an optional client tag.
  - Chain: every wrap keeps the child reachable via [errors.Unwrap]; the
    client tag and public hint propagate upward so a wrap never loses them.
  - Mapping: a single pure function from [Kind] to an HTTP status code.

Every error that leaves a service or store should be an [*AppError].
*/
package apperr

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// # Classification

// Kind is the closed set of failure classes. Handlers and stores select a
// Kind — never an ad-hoc string.
type Kind int

const (
	KindUnexpected Kind = iota
	KindAlreadyExists
	KindAlreadyInUse
	KindAlreadyPartOf
	KindCantGainUsers
	KindCreate
	KindDelete
	KindExpired
	KindFetch
	KindInValid
	KindIncorrectPermissions
	KindIncorrectValue
	KindInsert
	KindIsSelf
	KindNoAuth
	KindNoChange
	KindNotAllowed
	KindNotFound
	KindNotImplemented
	KindNotPartOf
	KindParse
	KindRead
	KindRevoke
	KindUpdate
	KindVerifying
)

var kindNames = map[Kind]string{
	KindUnexpected:           "Unexpected",
	KindAlreadyExists:        "AlreadyExists",
	KindAlreadyInUse:         "AlreadyInUse",
	KindAlreadyPartOf:        "AlreadyPartOf",
	KindCantGainUsers:        "CantGainUsers",
	KindCreate:               "Create",
	KindDelete:               "Delete",
	KindExpired:              "Expired",
	KindFetch:                "Fetch",
	KindInValid:              "InValid",
	KindIncorrectPermissions: "IncorrectPermissions",
	KindIncorrectValue:       "IncorrectValue",
	KindInsert:               "Insert",
	KindIsSelf:               "IsSelf",
	KindNoAuth:               "NoAuth",
	KindNoChange:             "NoChange",
	KindNotAllowed:           "NotAllowed",
	KindNotFound:             "NotFound",
	KindNotImplemented:       "NotImplemented",
	KindNotPartOf:            "NotPartOf",
	KindParse:                "Parse",
	KindRead:                 "Read",
	KindRevoke:               "Revoke",
	KindUpdate:               "Update",
	KindVerifying:            "Verifying",
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unexpected"
}

// Status maps the kind to its fixed HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindNoChange:
		return http.StatusNoContent
	case KindAlreadyExists, KindAlreadyInUse, KindAlreadyPartOf, KindCantGainUsers, KindIsSelf:
		return http.StatusConflict
	case KindExpired, KindIncorrectPermissions, KindNotAllowed, KindNotPartOf, KindVerifying:
		return http.StatusForbidden
	case KindCreate, KindDelete, KindFetch, KindInValid, KindIncorrectValue,
		KindInsert, KindParse, KindRead, KindRevoke, KindUpdate:
		return http.StatusBadRequest
	case KindNotImplemented:
		return http.StatusNotImplemented
	case KindNoAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Subject names the domain type an error is about. The set is closed;
// new subjects are added here, never inlined at call sites.
type Subject string

const (
	SubjectAccesToken     Subject = "AccesToken"
	SubjectBucket         Subject = "Bucket"
	SubjectChannel        Subject = "Channel"
	SubjectChannelParent  Subject = "ChannelParent"
	SubjectChat           Subject = "Chat"
	SubjectChatGroup      Subject = "ChatGroup"
	SubjectChatPrivate    Subject = "ChatPrivate"
	SubjectCookie         Subject = "Cookie"
	SubjectDevice         Subject = "Device"
	SubjectHashing        Subject = "Hashing"
	SubjectLog            Subject = "Log"
	SubjectMessage        Subject = "Message"
	SubjectRefreshToken   Subject = "RefreshToken"
	SubjectRelationBlock  Subject = "RelationBlocked"
	SubjectRelationFriend Subject = "RelationFriend"
	SubjectServer         Subject = "Server"
	SubjectSpawnBlocking  Subject = "SpawnBlocking"
	SubjectUser           Subject = "User"
	SubjectNone           Subject = "None"
)

// # Error Value

// AppError is the canonical error type for the Mogcord backend.
//
// A chain of AppErrors carries at most one client tag and one public hint:
// wrapping constructors pull both up from the child so the outermost error
// is always the one the response mapper needs to inspect.
type AppError struct {
	// Kind is the failure class, driving the HTTP status.
	Kind Kind
	// On names the domain type the failure is about.
	On Subject
	// File and Line record where the error value was constructed.
	File string
	Line int
	// Debug holds server-side key/values. Never sent to clients.
	Debug map[string]string
	// Public is an optional hint that MAY be exposed in the error envelope.
	Public string
	// Client is the coarse client-visible failure class, if any.
	Client ClientTag

	child error
}

// New constructs an [*AppError] recording the caller as the construction site.
func New(kind Kind, on Subject) *AppError {
	file, line := site(2)
	return &AppError{Kind: kind, On: on, File: file, Line: line}
}

// FromChild wraps child, preserving its kind and subject when the child is
// itself an [*AppError]. Foreign errors become Unexpected/None.
//
// Use it when re-raising at a higher layer without changing the meaning.
func FromChild(child error) *AppError {
	file, line := site(2)
	wrapper := &AppError{Kind: KindUnexpected, On: SubjectNone, File: file, Line: line, child: child}

	if inner, ok := child.(*AppError); ok {
		wrapper.Kind = inner.Kind
		wrapper.On = inner.On
		wrapper.Client = inner.Client
		wrapper.Public = inner.Public
	}

	return wrapper
}

// NewFromChild wraps child under a new kind and subject, superseding the
// child's classification while keeping the chain (and propagating the
// child's client tag and public hint unless the wrapper sets its own).
func NewFromChild(child error, kind Kind, on Subject) *AppError {
	file, line := site(2)
	wrapper := &AppError{Kind: kind, On: on, File: file, Line: line, child: child}

	if inner, ok := child.(*AppError); ok {
		wrapper.Client = inner.Client
		wrapper.Public = inner.Public
	}

	return wrapper
}

// AddDebug attaches a server-side debug key/value and returns the error for
// chaining.
func (e *AppError) AddDebug(key, value string) *AppError {
	if e.Debug == nil {
		e.Debug = make(map[string]string, 1)
	}
	e.Debug[key] = value
	return e
}

// AddPublic sets the public hint if one is not already carried.
func (e *AppError) AddPublic(message string) *AppError {
	if e.Public == "" {
		e.Public = message
	}
	return e
}

// AddClient sets the client tag if one is not already carried.
func (e *AppError) AddClient(tag ClientTag) *AppError {
	if e.Client == ClientNone {
		e.Client = tag
	}
	return e
}

// Error implements the error interface.
func (e *AppError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s at %s:%d", e.Kind, e.On, e.File, e.Line)

	for key, value := range e.Debug {
		fmt.Fprintf(&b, " %s=%q", key, value)
	}

	if e.child != nil {
		b.WriteString(": ")
		b.WriteString(e.child.Error())
	}

	return b.String()
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the chain.
func (e *AppError) Unwrap() error { return e.child }

// Status returns the HTTP status derived from the error's kind.
func (e *AppError) Status() int { return e.Kind.Status() }

// # Helpers

// As extracts the outermost [*AppError] from err's chain, or nil.
func As(err error) *AppError {
	for err != nil {
		if appError, ok := err.(*AppError); ok {
			return appError
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}

// Chain flattens err's ancestry, outermost first, formatting each link.
// The logging pipeline persists this as the server error chain.
func Chain(err error) []string {
	var links []string
	for err != nil {
		if appError, ok := err.(*AppError); ok {
			link := fmt.Sprintf("%s/%s at %s:%d", appError.Kind, appError.On, appError.File, appError.Line)
			for key, value := range appError.Debug {
				link += fmt.Sprintf(" %s=%q", key, value)
			}
			links = append(links, link)
			err = appError.child
			continue
		}
		links = append(links, err.Error())
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	return links
}

// site resolves the file and line of the caller at the given stack depth.
func site(depth int) (string, int) {
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		return "unknown", 0
	}

	// Trim to the last two path segments to keep log lines readable.
	if idx := strings.LastIndexByte(file, '/'); idx > 0 {
		if idx2 := strings.LastIndexByte(file[:idx], '/'); idx2 >= 0 {
			file = file[idx2+1:]
		}
	}
	return file, line
}
