package wsrouter

import "context"

type ctxKey int

const messageTypeKey ctxKey = iota

func withMessageType(ctx context.Context, messageType string) context.Context {
	return context.WithValue(ctx, messageTypeKey, messageType)
}

func GetMessageTypeFromCtx(ctx context.Context) string {
	messageType, ok := ctx.Value(messageTypeKey).(string)
	if !ok {
		return ""
	}

	return messageType
}
