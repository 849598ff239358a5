// Copyright (c) 2026 Mogcord. All rights reserved.

package apperr

// ClientTag is the stable, coarse-grained identifier for a client-visible
// failure class. It is deliberately separate from the internal Kind/Subject
// pair: clients branch on tags, operators read kinds.
type ClientTag int

const (
	ClientNone ClientTag = iota
	ClientServiceError
	ClientInvalidParams
	ClientNoAuth
	ClientNotAllowedOnPlatform
	ClientTooManyRequests
	ClientPermissionDenied
	ClientUserAlreadyExists
	ClientChatAlreadyExists
	ClientChatAddNonFriend
	ClientChatAlreadyPartOf
	ClientMessageNotOwned
	ClientMessageNotEditable
	ClientRelationSelfInteraction
	ClientRelationNoIncomingFriend
	ClientRelationUserAlreadyFriend
	ClientRelationUserAlreadyBlocked
	ClientRelationUserBlocked
	ClientRelationUserBlockedYou
)

var clientTagNames = map[ClientTag]string{
	ClientNone:                       "NONE",
	ClientServiceError:               "SERVICE_ERROR",
	ClientInvalidParams:              "INVALID_PARAMS",
	ClientNoAuth:                     "NO_AUTH",
	ClientNotAllowedOnPlatform:       "NOT_ALLOWED_ON_PLATFORM",
	ClientTooManyRequests:            "TOO_MANY_REQUESTS",
	ClientPermissionDenied:           "PERMISSION_DENIED",
	ClientUserAlreadyExists:          "USER_ALREADY_EXISTS",
	ClientChatAlreadyExists:          "CHAT_ALREADY_EXISTS",
	ClientChatAddNonFriend:           "CHAT_ADD_NON_FRIEND",
	ClientChatAlreadyPartOf:          "CHAT_ALREADY_PART_OF",
	ClientMessageNotOwned:            "MESSAGE_NOT_OWNED",
	ClientMessageNotEditable:         "MESSAGE_NOT_EDITABLE",
	ClientRelationSelfInteraction:    "RELATION_SELF_INTERACTION",
	ClientRelationNoIncomingFriend:   "RELATION_NO_INCOMING_FRIEND",
	ClientRelationUserAlreadyFriend:  "RELATION_USER_ALREADY_FRIEND",
	ClientRelationUserAlreadyBlocked: "RELATION_USER_ALREADY_BLOCKED",
	ClientRelationUserBlocked:        "RELATION_USER_BLOCKED",
	ClientRelationUserBlockedYou:     "RELATION_USER_BLOCKED_YOU",
}

var clientTagMessages = map[ClientTag]string{
	ClientNone:                       "",
	ClientServiceError:               "an internal error occurred",
	ClientInvalidParams:              "invalid parameters given",
	ClientNoAuth:                     "authentication required",
	ClientNotAllowedOnPlatform:       "account is not allowed on the platform",
	ClientTooManyRequests:            "too many requests, slow down",
	ClientPermissionDenied:           "missing permissions for this action",
	ClientUserAlreadyExists:          "username or email already in use",
	ClientChatAlreadyExists:          "an identical chat already exists",
	ClientChatAddNonFriend:           "only friends can be added to a group chat",
	ClientChatAlreadyPartOf:          "user is already part of this chat",
	ClientMessageNotOwned:            "message belongs to another user",
	ClientMessageNotEditable:         "message can no longer be edited",
	ClientRelationSelfInteraction:    "cannot perform a relation action on yourself",
	ClientRelationNoIncomingFriend:   "no incoming friend request from this user",
	ClientRelationUserAlreadyFriend:  "user is already a friend",
	ClientRelationUserAlreadyBlocked: "user is already blocked",
	ClientRelationUserBlocked:        "you have blocked this user",
	ClientRelationUserBlockedYou:     "this user has blocked you",
}

// Name returns the stable enum name serialized as the envelope "type" field.
func (t ClientTag) Name() string {
	if name, ok := clientTagNames[t]; ok {
		return name
	}
	return "SERVICE_ERROR"
}

// Message returns the human-readable string for the envelope "type_info" field.
func (t ClientTag) Message() string {
	if message, ok := clientTagMessages[t]; ok {
		return message
	}
	return clientTagMessages[ClientServiceError]
}
