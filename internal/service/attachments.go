package service

import (
	"context"
	"errors"
	"io"
	"log"
	"net/url"

	"github.com/boardsync/boardsync/internal/realtime"
	"github.com/boardsync/boardsync/internal/repository"
)

// BlobStore is the external byte store for attachment content. The core owns
// only the metadata row and its lifecycle events.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, size int64, fileName, contentType string) (storedName string, err error)
	PresignedURL(ctx context.Context, storedName string) (*url.URL, error)
	Remove(ctx context.Context, storedName string) error
}

// WithBlobStore wires the attachment byte store; without it, attachment
// uploads are rejected as a validation error.
func (svc *Service) WithBlobStore(blobs BlobStore) *Service {
	svc.blobs = blobs
	return svc
}

func (svc *Service) AddAttachment(ctx context.Context, actorID, cardID int64, r io.Reader, size int64, fileName, mimeType string) (*repository.Attachment, error) {
	if fileName == "" {
		return nil, validationErr("fileName is required")
	}
	if svc.blobs == nil {
		return nil, validationErr("attachment storage is not configured")
	}
	boardID, err := svc.repo.BoardIDForCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}

	storedName, err := svc.blobs.Put(ctx, r, size, fileName, mimeType)
	if err != nil {
		return nil, err
	}
	att, err := svc.repo.AddAttachment(audit(ctx, actorID), cardID, fileName, storedName, mimeType)
	if err != nil {
		// Metadata write failed; drop the orphaned object.
		if rmErr := svc.blobs.Remove(ctx, storedName); rmErr != nil {
			log.Printf("[SERVICE] orphaned attachment object %s: %v", storedName, rmErr)
		}
		return nil, err
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventAttachmentAdded,
		Data: realtime.AttachmentAddedPayload{CardID: cardID, Attachment: att},
	})
	return att, nil
}

func (svc *Service) AttachmentURL(ctx context.Context, actorID, attachmentID int64) (*url.URL, error) {
	if svc.blobs == nil {
		return nil, validationErr("attachment storage is not configured")
	}
	boardID, err := svc.repo.BoardIDForAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return nil, err
	}
	att, err := svc.repo.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	return svc.blobs.PresignedURL(ctx, att.StoredName)
}

func (svc *Service) DeleteAttachment(ctx context.Context, actorID, attachmentID int64) error {
	boardID, err := svc.repo.BoardIDForAttachment(ctx, attachmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil // idempotent
	}
	if err != nil {
		return err
	}
	if err := svc.requireBoard(ctx, actorID, boardID); err != nil {
		return err
	}
	att, err := svc.repo.GetAttachment(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := svc.repo.DeleteAttachment(audit(ctx, actorID), attachmentID); err != nil {
		return err
	}
	if svc.blobs != nil {
		if err := svc.blobs.Remove(ctx, att.StoredName); err != nil {
			log.Printf("[SERVICE] removing attachment object %s: %v", att.StoredName, err)
		}
	}

	svc.hub.EmitToBoard(boardID, realtime.Event{
		Name: realtime.EventAttachmentRemoved,
		Data: realtime.AttachmentRemovedPayload{CardID: att.CardID, AttachmentID: attachmentID},
	})
	return nil
}
