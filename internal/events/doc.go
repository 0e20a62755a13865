// Package events provides domain events and the plumbing that dispatches them.
//
// Services emit events such as user.registered or expense.created through an
// EventEmitter without knowing who consumes them. InMemoryEventEmitter fans
// each event out to registered handlers: LogHandler records it in the
// application log and the AMQP publisher in internal/platform/amqp forwards
// it to a broker.
package events
