package sieve

import "github.com/zoobzio/capitan"

// Field keys for pipeline events.
var (
	// KeyRun identifies one Start..Stop cycle of a Pipeline.
	KeyRun = capitan.NewStringKey("run")

	// KeyValue is the integer value of an item.
	KeyValue = capitan.NewIntKey("value")

	// KeyCategory is the category of a consumer or item.
	KeyCategory = capitan.NewStringKey("category")

	// KeyConsumer is the index of a consumer.
	KeyConsumer = capitan.NewIntKey("consumer")

	// KeySum is the running sum of a consumer.
	KeySum = capitan.NewIntKey("sum")

	// KeySize is the number of buffered items.
	KeySize = capitan.NewIntKey("size")

	// KeyCapacity is the buffer capacity.
	KeyCapacity = capitan.NewIntKey("capacity")

	// KeyConsumers is the number of consumers.
	KeyConsumers = capitan.NewIntKey("consumers")

	// KeyToken is a raw source token.
	KeyToken = capitan.NewStringKey("token")

	// KeySpeed is the speed preset.
	KeySpeed = capitan.NewIntKey("speed")

	// KeyTimeout is the join timeout.
	KeyTimeout = capitan.NewDurationKey("timeout")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")
)

// Field keys for control events.
var (
	// KeyState is the current state of the Control.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")
)
