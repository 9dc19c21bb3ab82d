package logfields

import "go.uber.org/zap"

func Event(val string) zap.Field {
	return zap.String("event", val)
}

func Decision(val string) zap.Field {
	return zap.String("decision", val)
}
