package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxImageBytes bounds a decoded receipt image.
const MaxImageBytes = 5 << 20

var (
	ErrNotDataURL       = errors.New("image must be a data URL")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrNotBase64        = errors.New("image data must be base64 encoded")
	ErrEmptyImage       = errors.New("image data is empty")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
)

var mediaTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
}

// Image is a decoded data URL
type Image struct {
	MediaType string
	Data      []byte
}

// ParseDataURL validates data:image/<png|jpeg|webp|gif>;base64,<payload>.
func ParseDataURL(raw string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return Image{}, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrNotDataURL
	}

	params := strings.Split(meta, ";")
	mediaType := strings.ToLower(params[0])
	if _, ok := mediaTypes[mediaType]; !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrUnsupportedImage, params[0])
	}
	encoded := false
	for _, p := range params[1:] {
		if strings.EqualFold(p, "base64") {
			encoded = true
		}
	}
	if !encoded {
		return Image{}, ErrNotBase64
	}
	if payload == "" {
		return Image{}, ErrEmptyImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+3 {
		return Image{}, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrNotBase64, err)
	}
	if len(data) > MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}
	return Image{MediaType: mediaType, Data: data}, nil
}

// Cause of a capture failure
type Cause string

const (
	CausePermissionDenied Cause = "permission_denied"
	CauseNoDevice         Cause = "no_device"
	CauseDeviceBusy       Cause = "device_busy"
	CauseUnknown          Cause = "unknown"
)

// Failure is a classified capture error as shown to the user
type Failure struct {
	Cause   Cause  `json:"cause"`
	Message string `json:"message"`
	// GalleryFallback offers uploading an existing photo instead
	GalleryFallback bool `json:"galleryFallback"`
}

// Error is returned by the capture collaborator. Name carries the
// platform's error name, e.g. NotAllowedError.
type Error struct {
	Name    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return e.Name + ": " + e.Message
}

var causesByName = map[string]Cause{
	"notallowederror":       CausePermissionDenied,
	"permissiondeniederror": CausePermissionDenied,
	"securityerror":         CausePermissionDenied,
	"notfounderror":         CauseNoDevice,
	"devicesnotfounderror":  CauseNoDevice,
	"overconstrainederror":  CauseNoDevice,
	"notreadableerror":      CauseDeviceBusy,
	"trackstarterror":       CauseDeviceBusy,
	"aborterror":            CauseDeviceBusy,
}

var messages = map[Cause]string{
	CausePermissionDenied: "Camera access was denied. Allow camera access in your settings or upload a photo from your gallery.",
	CauseNoDevice:         "No camera was found on this device. You can upload a photo from your gallery instead.",
	CauseDeviceBusy:       "The camera is being used by another application. Close it and try again, or upload a photo from your gallery.",
	CauseUnknown:          "Unable to access the camera. You can upload a photo from your gallery instead.",
}

// Classify maps a capture error onto a user-facing failure. Every failure
// offers the gallery upload.
func Classify(err error) Failure {
	cause := CauseUnknown
	var ce *Error
	if errors.As(err, &ce) {
		if c, ok := causesByName[strings.ToLower(ce.Name)]; ok {
			cause = c
		}
	}
	return Failure{Cause: cause, Message: messages[cause], GalleryFallback: true}
}
