package present

import "errors"

var (
	// ErrInvalidInput indicates the call was rejected before reaching the API.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates the API answered 404 for the requested entity.
	ErrNotFound = errors.New("not found")
	// ErrUnconfirmed indicates a success status whose body did not report status OK.
	ErrUnconfirmed = errors.New("request not confirmed by present api")
	// ErrRecordingStarted is returned by a second Recorder.Create.
	ErrRecordingStarted = errors.New("recording already started")
	// ErrRecordingNotStarted is returned by Recorder.Append before Create.
	ErrRecordingNotStarted = errors.New("recording not started")
	// ErrUploaderClosed is returned when enqueueing after Shutdown.
	ErrUploaderClosed = errors.New("segment uploader closed")
)
