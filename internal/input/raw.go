package input

import (
	"TravelJournal/internal/model"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// Raw: тело запроса в едином виде независимо от формата (JSON, форма, multipart).
type Raw map[string]any

// Has сообщает, передан ли ключ вообще.
func (r Raw) Has(key string) bool {
	_, ok := r[key]
	return ok
}

const multipartMemory = 10 << 20

// FromRequest разбирает тело запроса. Размер тела ограничивает вызывающий
// (http.MaxBytesReader); maxPhotoBytes - лимит на файл photo в multipart.
func FromRequest(r *http.Request, maxPhotoBytes int64) (Raw, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return Raw{}, nil
	}
	switch mediaType(r) {
	case "application/json":
		return decodeJSON(r.Body)
	case "multipart/form-data":
		return decodeMultipart(r, maxPhotoBytes)
	default:
		// urlencoded и всё прочее разбираем как форму
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		raw := make(Raw, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				raw[k] = vs[0]
			}
		}
		return raw, nil
	}
}

// IsJSON: тело запроса объявлено как JSON.
func IsJSON(r *http.Request) bool {
	return mediaType(r) == "application/json"
}

func mediaType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

func decodeJSON(body io.Reader) (Raw, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, bodyError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Raw{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw Raw
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON body", model.ErrValidation)
	}
	if raw == nil {
		// тело "null"
		return Raw{}, nil
	}
	return raw, nil
}

func decodeMultipart(r *http.Request, maxPhotoBytes int64) (Raw, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, bodyError(err)
	}
	raw := make(Raw, len(r.MultipartForm.Value)+1)
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}

	file, hdr, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return raw, nil
	}
	if err != nil {
		return nil, bodyError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return nil, bodyError(err)
	}
	if int64(len(data)) > maxPhotoBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", model.ErrValidation, maxPhotoBytes)
	}
	if len(data) == 0 {
		// пустой file input в браузерной форме
		return raw, nil
	}

	mimeType := hdr.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	raw["photo"] = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	return raw, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: request body too large", model.ErrValidation)
	}
	return fmt.Errorf("%w: malformed request body", model.ErrValidation)
}
