package core

import "context"

type ctxKey int

const (
	ctxKeyIPAddress ctxKey = iota
	ctxKeyUserAgent
)

// WithClient attaches the caller's address and user agent to ctx so that
// session activity entries can name who made a change.
func WithClient(ctx context.Context, ip, userAgent string) context.Context {
	if ip != "" {
		ctx = context.WithValue(ctx, ctxKeyIPAddress, ip)
	}
	if userAgent != "" {
		ctx = context.WithValue(ctx, ctxKeyUserAgent, userAgent)
	}
	return ctx
}

// IPAddressFromContext returns the client address set by WithClient.
func IPAddressFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyIPAddress).(string)
	return v
}

// UserAgentFromContext returns the user agent set by WithClient.
func UserAgentFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUserAgent).(string)
	return v
}
