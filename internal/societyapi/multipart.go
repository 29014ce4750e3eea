package societyapi

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// dealRequest encodes a deal as multipart form data. Optional text fields are
// only sent when set, and the image part carries its sniffed content type.
func dealRequest(endpoint, method, path string, in domain.DealInput, image *domain.Upload) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct {
		name, value string
		optional    bool
	}{
		{"name", in.Name, false},
		{"category", in.Category, false},
		{"description", in.Description, false},
		{"discount", in.Discount, true},
		{"phone", in.Phone, true},
		{"address", in.Address, true},
		{"isFeatured", strconv.FormatBool(in.IsFeatured), false},
	}
	for _, f := range fields {
		if f.optional && strings.TrimSpace(f.value) == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return request{}, fmt.Errorf("writing %s field: %w", f.name, err)
		}
	}

	if image != nil && len(image.Data) > 0 {
		if err := writeImage(w, image); err != nil {
			return request{}, err
		}
	}

	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("closing multipart body: %w", err)
	}

	return request{
		endpoint:    endpoint,
		method:      method,
		path:        path,
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, nil
}

// ValidateImage checks an upload against the deal image limits.
func ValidateImage(image *domain.Upload) (*mimetype.MIME, error) {
	if len(image.Data) > domain.MaxDealImageSize {
		return nil, fmt.Errorf("image must be 5MB or smaller: %w", domain.ErrInvalidInput)
	}
	mt := mimetype.Detect(image.Data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("file %q is %s, not an image: %w", image.Filename, mt.String(), domain.ErrInvalidInput)
	}
	return mt, nil
}

func writeImage(w *multipart.Writer, image *domain.Upload) error {
	mt, err := ValidateImage(image)
	if err != nil {
		return err
	}
	filename := image.Filename
	if filename == "" {
		filename = "image" + mt.Extension()
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", mt.String())
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating image part: %w", err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return fmt.Errorf("writing image part: %w", err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
