package sieve

import "github.com/zoobzio/capitan"

// Pipeline lifecycle signals.
var (
	// PipelineStarted is emitted when a Pipeline spawns its loops.
	PipelineStarted = capitan.NewSignal(
		"sieve.pipeline.started",
		"Pipeline loops started",
	)

	// PipelineStopped is emitted when a Pipeline has cancelled and joined its loops.
	PipelineStopped = capitan.NewSignal(
		"sieve.pipeline.stopped",
		"Pipeline loops stopped",
	)

	// PipelineReset is emitted after a Pipeline has been drained and restarted.
	PipelineReset = capitan.NewSignal(
		"sieve.pipeline.reset",
		"Pipeline drained and restarted",
	)

	// PipelinePaused is emitted when the pause gate closes.
	PipelinePaused = capitan.NewSignal(
		"sieve.pipeline.paused",
		"Pipeline paused",
	)

	// PipelineResumed is emitted when the pause gate opens.
	PipelineResumed = capitan.NewSignal(
		"sieve.pipeline.resumed",
		"Pipeline resumed",
	)

	// SpeedChanged is emitted when the loop delays change.
	SpeedChanged = capitan.NewSignal(
		"sieve.pipeline.speed.changed",
		"Loop speed changed",
	)

	// JoinTimedOut is emitted when a loop does not exit within the join timeout.
	JoinTimedOut = capitan.NewSignal(
		"sieve.pipeline.join.timeout",
		"Loops did not exit within the join timeout",
	)

	// SourceFailed is emitted when the number source cannot be opened or read.
	SourceFailed = capitan.NewSignal(
		"sieve.source.failed",
		"Number source unavailable",
	)
)

// Producer signals.
var (
	// ItemProduced is emitted after an item has been placed in the buffer.
	ItemProduced = capitan.NewSignal(
		"sieve.producer.produced",
		"Item placed in buffer",
	)

	// ProducerParseFailed is emitted when a source token is not an integer.
	ProducerParseFailed = capitan.NewSignal(
		"sieve.producer.parse.failed",
		"Malformed source token skipped",
	)

	// ProducerFinished is emitted when the source is exhausted.
	ProducerFinished = capitan.NewSignal(
		"sieve.producer.finished",
		"Source exhausted",
	)
)

// Consumer signals.
var (
	// ItemConsumed is emitted after a consumer has taken an item.
	ItemConsumed = capitan.NewSignal(
		"sieve.consumer.consumed",
		"Item taken from buffer",
	)

	// ConsumerStopped is emitted when a consumer exits, carrying its final sum.
	ConsumerStopped = capitan.NewSignal(
		"sieve.consumer.stopped",
		"Consumer exited",
	)
)

// Control signals.
var (
	// ControlStarted is emitted when a Control begins watching.
	ControlStarted = capitan.NewSignal(
		"sieve.control.started",
		"Control watching started",
	)

	// ControlStopped is emitted when a Control stops watching.
	ControlStopped = capitan.NewSignal(
		"sieve.control.stopped",
		"Control watching stopped",
	)

	// ControlStateChanged is emitted when a Control transitions between states.
	ControlStateChanged = capitan.NewSignal(
		"sieve.control.state.changed",
		"Control state transition",
	)

	// ControlChangeReceived is emitted when raw data is received from the watcher.
	ControlChangeReceived = capitan.NewSignal(
		"sieve.control.change.received",
		"Raw control document received",
	)

	// ControlDecodeFailed is emitted when a control document cannot be decoded.
	ControlDecodeFailed = capitan.NewSignal(
		"sieve.control.decode.failed",
		"Control document decode failed",
	)

	// ControlValidationFailed is emitted when a control document is invalid.
	ControlValidationFailed = capitan.NewSignal(
		"sieve.control.validation.failed",
		"Control document validation failed",
	)

	// ControlApplyFailed is emitted when a control document cannot be applied.
	ControlApplyFailed = capitan.NewSignal(
		"sieve.control.apply.failed",
		"Control document apply failed",
	)

	// ControlApplySucceeded is emitted when a control document has been applied.
	ControlApplySucceeded = capitan.NewSignal(
		"sieve.control.apply.succeeded",
		"Control document applied",
	)
)
