package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhealth/bh-platform/internal/observability/metrics"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

type stubUploader struct {
	mu      sync.Mutex
	calls   int
	lastDir string
	fail    bool
}

func (u *stubUploader) Upload(ctx context.Context, r io.Reader, filename, folder string) (*UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.lastDir = folder
	if u.fail {
		return nil, errors.New("host unavailable")
	}
	return &UploadResult{PublicID: "documents/" + filename, SecureURL: "https://media.example.com/" + filename}, nil
}

type stubS3 struct {
	mu   sync.Mutex
	puts int
	done chan struct{}
}

func (s *stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	if s.done != nil {
		close(s.done)
	}
	return &s3.PutObjectOutput{}, nil
}

// jpegHeader is enough of a JPEG for content sniffing.
var jpegHeader = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 64)...)

func multipartBody(t *testing.T, filename string, content []byte, folder string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	if folder != "" {
		require.NoError(t, mw.WriteField("folder", folder))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newMediaHandler(uploader Uploader, archiver *Archiver) *Handler {
	return NewHandler(uploader, archiver, 1<<20, 5*time.Second,
		metrics.NewPlatformMetrics(prometheus.NewRegistry()), logging.New("error"))
}

func TestCheckUpload(t *testing.T) {
	ct, err := CheckUpload(int64(len(jpegHeader)), 1<<20, jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	_, err = CheckUpload(2<<20, 1<<20, jpegHeader)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = CheckUpload(24, 1<<20, []byte("plain text file contents"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestUploadJPEG(t *testing.T) {
	up := &stubUploader{}
	h := newMediaHandler(up, nil)

	body, contentType := multipartBody(t, "front.jpg", jpegHeader, "applications")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var result UploadResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "https://media.example.com/front.jpg", result.SecureURL)
	assert.Equal(t, "applications", up.lastDir)
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	up := &stubUploader{}
	h := newMediaHandler(up, nil)

	body, contentType := multipartBody(t, "note.txt", []byte("plain text file contents"), "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	assert.Zero(t, up.calls)
}

func TestUploadRejectsOversize(t *testing.T) {
	up := &stubUploader{}
	h := newMediaHandler(up, nil)

	big := append(append([]byte{}, jpegHeader...), bytes.Repeat([]byte{0x02}, 2<<20)...)
	body, contentType := multipartBody(t, "huge.jpg", big, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Zero(t, up.calls)
}

func TestUploadMissingFile(t *testing.T) {
	h := newMediaHandler(&stubUploader{}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadHostFailure(t *testing.T) {
	h := newMediaHandler(&stubUploader{fail: true}, nil)

	body, contentType := multipartBody(t, "front.jpg", jpegHeader, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestUploadArchivesCopy(t *testing.T) {
	s3stub := &stubS3{done: make(chan struct{})}
	archiver := NewArchiver(s3stub, "bh-documents", logging.New("error"))
	h := newMediaHandler(&stubUploader{}, archiver)

	body, contentType := multipartBody(t, "front.jpg", jpegHeader, "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/media/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	select {
	case <-s3stub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected async archive to run")
	}
}

func TestArchiverDisabled(t *testing.T) {
	archiver := NewArchiver(nil, "", logging.New("error"))
	assert.False(t, archiver.Enabled())
	assert.NoError(t, archiver.ArchiveDocument(context.Background(), "x", "image/jpeg", []byte{1}))
}
