package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-key", "media")

	url, err := client.Upload(context.Background(), "complaints/abc.jpg", "image/jpeg", []byte("jpegbytes"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/media/complaints/abc.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("jpegbytes"), gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/media/complaints/abc.jpg", url)
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-key", "media")

	_, err := client.Upload(context.Background(), "complaints/abc.jpg", "image/jpeg", []byte("x"))
	assert.ErrorIs(t, err, ErrUploadFailed)
}
