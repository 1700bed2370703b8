// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package uploader coordinates deferred gallery image uploads. Files
// picked in the editor are held in memory until the record is saved;
// on save the coordinator pushes them to object storage one at a time,
// tolerating individual failures so one bad file never sinks the whole
// submission.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"foliopress/internal/imaging"
)

// Asset is one gallery image moving through the upload workflow.
// LocalID is a client-generated identifier that stays stable across the
// whole edit session, so form fields can reference an image before it
// has a URL.
type Asset struct {
	LocalID     string
	FileName    string
	ContentType string

	// Data holds the raw file until it is uploaded, then is released.
	Data []byte

	URL      string
	ThumbURL string
	Key      string
	ThumbKey string
	Alt      string
	Title    string
	Size     int64
	State    State

	// Err records why the upload failed. Only set in StateFailed.
	Err error
}

// IsNew reports whether the asset still carries data that has not been
// uploaded. Assets restored from a saved record are never new.
func (a *Asset) IsNew() bool {
	return len(a.Data) > 0 && a.State != StateDone
}

// Storage is the slice of the object storage client the coordinator
// needs. Satisfied by *storage.Client.
type Storage interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Observer is notified after every asset state transition.
type Observer func(a *Asset)

// Coordinator uploads new assets sequentially in list order.
type Coordinator struct {
	storage  Storage
	bucket   string
	observer Observer
}

// NewCoordinator returns a Coordinator that uploads into the given bucket.
func NewCoordinator(storage Storage, bucket string) *Coordinator {
	return &Coordinator{storage: storage, bucket: bucket}
}

// SetObserver registers a callback fired after each state transition.
func (c *Coordinator) SetObserver(fn Observer) {
	c.observer = fn
}

// Process uploads every new asset in order, storing objects under the
// given folder. Failed uploads mark the asset failed and processing
// continues with the next one; the names of failed files are returned
// so callers can surface them as warnings. There is no automatic retry.
func (c *Coordinator) Process(ctx context.Context, assets []*Asset, folder string) []string {
	var failed []string
	for _, a := range assets {
		if !a.IsNew() {
			continue
		}
		if err := c.upload(ctx, a, folder); err != nil {
			a.Err = err
			c.transition(a, EventFailure)
			slog.Warn("asset upload failed", "file", a.FileName, "error", err)
			failed = append(failed, a.FileName)
			continue
		}
		c.transition(a, EventSuccess)
	}
	return failed
}

// upload pushes one asset's original (and thumbnail, when the type
// supports one) to storage and fills in its URLs.
func (c *Coordinator) upload(ctx context.Context, a *Asset, folder string) error {
	c.transition(a, EventStart)

	ext := imaging.ExtensionForType(a.ContentType)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(a.FileName))
	}
	key := folder + "/" + uuid.NewString() + ext

	if err := c.storage.Upload(ctx, c.bucket, key, a.ContentType, bytes.NewReader(a.Data), int64(len(a.Data))); err != nil {
		return fmt.Errorf("upload %s: %w", a.FileName, err)
	}
	a.Key = key
	a.URL = c.storage.FileURL(key)

	// Thumbnail failures are not fatal; the original is already up.
	if imaging.Thumbable(a.ContentType) {
		thumb, err := imaging.Thumbnail(bytes.NewReader(a.Data), imaging.ThumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "file", a.FileName, "error", err)
		} else if thumb != nil {
			thumbKey := folder + "/thumbs/" + filepath.Base(key)
			if err := c.storage.Upload(ctx, c.bucket, thumbKey, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "file", a.FileName, "error", err)
			} else {
				a.ThumbKey = thumbKey
				a.ThumbURL = c.storage.FileURL(thumbKey)
			}
		}
	}

	a.Data = nil
	return nil
}

// transition applies an event and notifies the observer. The reducer is
// strict, so a rejected transition means a coordinator bug; it is logged
// and the state left alone.
func (c *Coordinator) transition(a *Asset, e Event) {
	next, err := Next(a.State, e)
	if err != nil {
		slog.Error("asset state machine", "file", a.FileName, "error", err)
		return
	}
	a.State = next
	if c.observer != nil {
		c.observer(a)
	}
}

// ResolveFeatured returns the URL to use as the record's featured image.
// The asset matching chosenLocalID wins when it uploaded successfully;
// otherwise the first successfully uploaded asset is auto-selected so a
// record with a gallery always has a featured image. Returns "" when
// nothing usable exists.
func ResolveFeatured(assets []*Asset, chosenLocalID string) string {
	if chosenLocalID != "" {
		for _, a := range assets {
			if a.LocalID == chosenLocalID && a.State == StateDone && a.URL != "" {
				return a.URL
			}
		}
	}
	for _, a := range assets {
		if a.State == StateDone && a.URL != "" {
			return a.URL
		}
	}
	return ""
}
