package storagerepo

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/moin-0887/pustak/util/httpx"
)

const bucket = "book-covers"

type httpRepo struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTP(baseURL, token string) Repo {
	return &httpRepo{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  httpx.Client(),
	}
}

func (r *httpRepo) UploadCover(name, contentType string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/object/%s/%s", r.baseURL, bucket, name)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage upload failed: %s", resp.Status)
	}

	return fmt.Sprintf("%s/object/public/%s/%s", r.baseURL, bucket, name), nil
}
