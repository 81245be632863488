package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"
)

type multipartBody struct {
	w *multipart.Writer
}

func newMultipart(buf *bytes.Buffer) *multipartBody {
	return &multipartBody{w: multipart.NewWriter(buf)}
}

func (m *multipartBody) file(t *testing.T, field, filename, contentType string, data []byte) {
	t.Helper()
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := m.w.CreatePart(h)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	part.Write(data)
}

func (m *multipartBody) close() { m.w.Close() }

func (m *multipartBody) contentType() string { return m.w.FormDataContentType() }
