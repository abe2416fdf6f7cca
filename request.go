package sieve

// Request carries a control document through the apply pipeline.
type Request struct {
	// Previous is the last applied document. Zero on the initial load.
	Previous ControlSpec

	// Current is the newly decoded and validated document.
	// Pipeline stages may modify this value before it is applied.
	Current ControlSpec

	// Raw contains the original bytes received from the watcher.
	Raw []byte

	// Initial is true for the first document a Control applies.
	Initial bool
}
