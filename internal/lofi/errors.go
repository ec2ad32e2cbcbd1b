package lofi

import "errors"

var (
	// ErrDecode reports bytes that could not be decoded as audio.
	ErrDecode = errors.New("lofi: decode failed")
	// ErrExport reports a failed or impossible export.
	ErrExport = errors.New("lofi: export failed")
	// ErrBusy reports an export requested while another is rendering.
	ErrBusy = errors.New("lofi: export already in progress")
	// ErrNotLoaded reports an operation that needs a loaded source.
	ErrNotLoaded = errors.New("lofi: no source loaded")
	// ErrClosed reports use of a closed Processor.
	ErrClosed = errors.New("lofi: processor closed")
)
