package service

import (
	"errors"
	"fmt"
)

// Error taxonomy for the sharing core. The four base sentinels classify every
// domain failure; the wrapped variants carry the specific cause and still
// match their base through errors.Is. Handlers map bases to transport codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrStorage          = errors.New("storage failure")
)

var (
	ErrDocumentNotFound   = fmt.Errorf("document %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("invitation %w", ErrNotFound)
	ErrFileNotFound       = fmt.Errorf("stored file %w", ErrNotFound)

	ErrTitleTaken = fmt.Errorf("%w: document title already exists", ErrConflict)

	ErrNotShareable        = fmt.Errorf("%w: document is not shareable", ErrInvalidOperation)
	ErrAlreadyCollaborator = fmt.Errorf("%w: user is already a collaborator", ErrInvalidOperation)
	ErrSelfShare           = fmt.Errorf("%w: user owns the document", ErrInvalidOperation)
	ErrOwnerCollaborator   = fmt.Errorf("%w: owner cannot be a collaborator", ErrInvalidOperation)
	ErrSelfInvite          = fmt.Errorf("%w: cannot invite yourself", ErrInvalidOperation)
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrReaderNil  = errors.New("reader is nil")
)
