package domain

// RoutingNumber is the single ABA routing number issued on every
// provisioned account.
const RoutingNumber = "021000021"

// MaxDocumentBytes caps KYC uploads at 10 MiB.
const MaxDocumentBytes = 10 * 1024 * 1024

var allowedDocumentMIME = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"application/pdf": "pdf",
}

// AllowedDocumentMIME reports whether a KYC upload content type is
// accepted, and returns the file extension used in storage keys.
func AllowedDocumentMIME(contentType string) (ext string, ok bool) {
	ext, ok = allowedDocumentMIME[contentType]
	return ext, ok
}
