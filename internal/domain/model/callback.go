package model

import (
	"strings"

	"catalog-broadcast-bot/internal/domain"
)

// MaxCallbackBytes is Telegram's limit for inline button callback data.
const MaxCallbackBytes = 64

const callbackSep = ":"

// CallbackKind selects the handler family of an inline button press.
type CallbackKind string

const (
	CallbackNotify CallbackKind = "notify"
	CallbackDelete CallbackKind = "delete"
	CallbackEdit   CallbackKind = "edit"
)

// Notify actions.
const (
	ActionYes = "yes"
	ActionNo  = "no"
)

// CallbackPayload is the structured data carried by an inline button.
// It is encoded as kind:action:value; Value is opaque and may contain ':' or '_'.
type CallbackPayload struct {
	Kind   CallbackKind
	Action string
	Value  string
}

func NotifyPayload(affirmative bool, operatorID string) CallbackPayload {
	action := ActionNo
	if affirmative {
		action = ActionYes
	}
	return CallbackPayload{Kind: CallbackNotify, Action: action, Value: operatorID}
}

func DeletePayload(productID string) CallbackPayload {
	return CallbackPayload{Kind: CallbackDelete, Value: productID}
}

func EditPayload(productID string) CallbackPayload {
	return CallbackPayload{Kind: CallbackEdit, Value: productID}
}

func (k CallbackKind) valid() bool {
	switch k {
	case CallbackNotify, CallbackDelete, CallbackEdit:
		return true
	}
	return false
}

// Encode renders the payload, rejecting unknown kinds and oversize results.
func (p CallbackPayload) Encode() (string, error) {
	if !p.Kind.valid() || strings.Contains(p.Action, callbackSep) {
		return "", domain.ErrInvalidCallback
	}
	s := string(p.Kind) + callbackSep + p.Action + callbackSep + p.Value
	if len(s) > MaxCallbackBytes {
		return "", domain.ErrPayloadTooLong
	}
	return s, nil
}

// DecodeCallback parses data produced by Encode. The older underscore form
// (notify_yes_42) is not accepted and yields ErrInvalidCallback.
func DecodeCallback(data string) (CallbackPayload, error) {
	parts := strings.SplitN(data, callbackSep, 3)
	if len(parts) != 3 {
		return CallbackPayload{}, domain.ErrInvalidCallback
	}
	p := CallbackPayload{Kind: CallbackKind(parts[0]), Action: parts[1], Value: parts[2]}
	if !p.Kind.valid() {
		return CallbackPayload{}, domain.ErrInvalidCallback
	}
	if p.Kind == CallbackNotify && p.Action != ActionYes && p.Action != ActionNo {
		return CallbackPayload{}, domain.ErrInvalidCallback
	}
	return p, nil
}
