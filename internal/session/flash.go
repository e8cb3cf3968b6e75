package session

import (
	"context"
	"strings"
)

// Flash notice kinds.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// PutFlash stores a notice for the next request.
func PutFlash(ctx context.Context, sm Manager, kind, message string) {
	sm.Put(ctx, keyFlash, kind+"|"+message)
}

// PopFlash returns and clears the pending notice, if any.
func PopFlash(ctx context.Context, sm Manager) *Flash {
	raw := sm.PopString(ctx, keyFlash)
	if raw == "" {
		return nil
	}
	kind, message, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Kind: FlashInfo, Message: raw}
	}
	return &Flash{Kind: kind, Message: message}
}
