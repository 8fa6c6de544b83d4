package constants

// Обменник событий сервиса
const (
	ExchangeMarketplaceEvents     = "marketplace.events"
	ExchangeMarketplaceEventsType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyRecommendationCreated = "recommendation.created"
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)
