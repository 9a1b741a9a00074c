package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetGenerationQueues возвращает очереди событий движка. Сейчас одна:
// итоги циклов для внешних дашбордов кампании.
func GetGenerationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "generation.events", RoutingKey: "cycle"},
	}
}
